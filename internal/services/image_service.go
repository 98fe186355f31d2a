package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	displayMaxSize   = 1200
	thumbnailMaxSize = 300
	displayQuality   = 85
	thumbnailQuality = 80
)

// ErrUnsupportedImage is returned when uploaded bytes are not a JPEG, PNG or
// WebP image.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ProcessedImage describes the artifacts written for one upload.
type ProcessedImage struct {
	ID           uuid.UUID
	OriginalURL  string
	ThumbnailURL string
}

// ImageService converts uploaded images into resized WebP originals and
// thumbnails under a per-product directory.
type ImageService struct {
	uploadDir string
}

// NewImageService constructs an ImageService rooted at uploadDir.
func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// ValidImageBytes checks the buffer against the magic bytes of the accepted
// formats. Content-type headers are client-supplied, so the bytes decide.
func ValidImageBytes(buf []byte) bool {
	switch {
	case bytes.HasPrefix(buf, []byte{0xFF, 0xD8, 0xFF}): // JPEG
		return true
	case bytes.HasPrefix(buf, []byte{0x89, 0x50, 0x4E, 0x47}): // PNG
		return true
	case bytes.HasPrefix(buf, []byte("RIFF")): // WebP
		return true
	}
	return false
}

// Process decodes buf, writes a display image (longest side capped at 1200px)
// and a thumbnail (capped at 300px) as WebP under the product's directory, and
// returns their public URL paths. Images smaller than the cap are never
// upscaled.
func (s *ImageService) Process(buf []byte, productID uuid.UUID) (ProcessedImage, error) {
	if !ValidImageBytes(buf) {
		return ProcessedImage{}, ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		// Right magic bytes but undecodable content is still not an image
		// we can serve.
		return ProcessedImage{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	imageID := uuid.New()
	productDir := s.productDir(productID)
	thumbDir := filepath.Join(productDir, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return ProcessedImage{}, err
	}

	originalFilename := imageID.String() + ".webp"
	thumbnailFilename := imageID.String() + "_thumb.webp"

	display := imaging.Fit(img, displayMaxSize, displayMaxSize, imaging.Lanczos)
	if err := writeWebP(filepath.Join(productDir, originalFilename), display, displayQuality); err != nil {
		return ProcessedImage{}, err
	}

	thumb := imaging.Fit(img, thumbnailMaxSize, thumbnailMaxSize, imaging.Lanczos)
	if err := writeWebP(filepath.Join(thumbDir, thumbnailFilename), thumb, thumbnailQuality); err != nil {
		return ProcessedImage{}, err
	}

	return ProcessedImage{
		ID:           imageID,
		OriginalURL:  fmt.Sprintf("/uploads/products/%s/%s", productID, originalFilename),
		ThumbnailURL: fmt.Sprintf("/uploads/products/%s/thumbnails/%s", productID, thumbnailFilename),
	}, nil
}

// DeleteImage removes the original and its thumbnail for the given public URL.
// Missing files are tolerated.
func (s *ImageService) DeleteImage(imageURL string) error {
	relative := strings.TrimPrefix(imageURL, "/uploads/")
	absolute := filepath.Join(s.uploadDir, filepath.FromSlash(relative))

	if err := os.Remove(absolute); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	ext := filepath.Ext(absolute)
	base := strings.TrimSuffix(filepath.Base(absolute), ext)
	thumbPath := filepath.Join(filepath.Dir(absolute), "thumbnails", base+"_thumb"+ext)

	if err := os.Remove(thumbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// DeleteProductDir removes the product's entire image directory.
func (s *ImageService) DeleteProductDir(productID uuid.UUID) error {
	return os.RemoveAll(s.productDir(productID))
}

func (s *ImageService) productDir(productID uuid.UUID) string {
	return filepath.Join(s.uploadDir, "products", productID.String())
}

func writeWebP(path string, img image.Image, quality float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := webp.Encode(f, img, &webp.Options{Quality: quality}); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
