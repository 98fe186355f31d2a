package handlers_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func (e *testEnv) uploadImages(t *testing.T, token, productID string, files map[string][]byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		switch {
		case strings.HasSuffix(name, ".png"):
			header.Set("Content-Type", "image/png")
		case strings.HasSuffix(name, ".webp"):
			header.Set("Content-Type", "image/webp")
		case strings.HasSuffix(name, ".exe"):
			header.Set("Content-Type", "application/octet-stream")
		default:
			header.Set("Content-Type", "image/jpeg")
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products/"+productID+"/images", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, 30000)
	if err != nil {
		t.Fatalf("upload images: %v", err)
	}
	return resp
}

func TestUploadAndDetachImages(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	created := env.createProduct(t, token, validProduct("Bowl", 10, "meditation"))
	id := created["id"].(string)

	resp := env.uploadImages(t, token, id, map[string][]byte{"a.png": pngBytes(t, 40, 20)})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	images := decodeBody(t, resp)["images"].([]interface{})
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	first := images[0].(map[string]interface{})
	if first["display_order"].(float64) != 0 {
		t.Errorf("first image display_order: got %v, want 0", first["display_order"])
	}
	imageURL := first["image_url"].(string)
	if !strings.HasPrefix(imageURL, "/uploads/products/"+id+"/") {
		t.Errorf("unexpected image url %q", imageURL)
	}

	// Files exist under the upload root.
	original := filepath.Join(env.cfg.UploadDir, strings.TrimPrefix(imageURL, "/uploads/"))
	if _, err := os.Stat(original); err != nil {
		t.Errorf("original file missing: %v", err)
	}
	thumbURL := first["thumbnail_url"].(string)
	thumb := filepath.Join(env.cfg.UploadDir, strings.TrimPrefix(thumbURL, "/uploads/"))
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("thumbnail file missing: %v", err)
	}

	// Second upload continues display_order from the current max.
	resp = env.uploadImages(t, token, id, map[string][]byte{"b.png": pngBytes(t, 20, 40)})
	images = decodeBody(t, resp)["images"].([]interface{})
	if images[0].(map[string]interface{})["display_order"].(float64) != 1 {
		t.Errorf("second image display_order: got %v, want 1", images[0].(map[string]interface{})["display_order"])
	}

	// Detail endpoint returns images in display order.
	detail := decodeBody(t, env.request(t, http.MethodGet, "/api/products/"+id, nil, ""))
	gallery := detail["product"].(map[string]interface{})["images"].([]interface{})
	if len(gallery) != 2 {
		t.Fatalf("expected 2 images on product, got %d", len(gallery))
	}

	// Detach the first image; its files disappear, the row is gone.
	imageID := first["id"].(string)
	resp = env.request(t, http.MethodDelete, "/api/products/"+id+"/images/"+imageID, nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("detach: expected 200, got %d", resp.StatusCode)
	}
	if _, err := os.Stat(original); !os.IsNotExist(err) {
		t.Errorf("original file should be removed, stat err: %v", err)
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Errorf("thumbnail file should be removed, stat err: %v", err)
	}

	resp = env.request(t, http.MethodDelete, "/api/products/"+id+"/images/"+imageID, nil, token)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("detach unknown image: expected 404, got %d", resp.StatusCode)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	created := env.createProduct(t, token, validProduct("Bowl", 10, "meditation"))
	id := created["id"].(string)

	// No files.
	resp := env.uploadImages(t, token, id, map[string][]byte{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no files: expected 400, got %d", resp.StatusCode)
	}

	// Disallowed content type.
	resp = env.uploadImages(t, token, id, map[string][]byte{"evil.exe": {0x4D, 0x5A, 0x90, 0x00}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad content type: expected 400, got %d", resp.StatusCode)
	}

	// Allowed content type but content that is not an image (spoofed header).
	resp = env.uploadImages(t, token, id, map[string][]byte{"fake.png": []byte("definitely not a png")})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("spoofed content: expected 400, got %d", resp.StatusCode)
	}

	// Unknown product.
	resp = env.uploadImages(t, token, "7e4a4c2e-8b88-4a7e-9f8e-27d8be87bb5f", map[string][]byte{"a.png": pngBytes(t, 4, 4)})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown product: expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteProductRemovesImageDirAndRows(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	created := env.createProduct(t, token, validProduct("Bowl", 10, "meditation"))
	id := created["id"].(string)

	env.uploadImages(t, token, id, map[string][]byte{"a.png": pngBytes(t, 10, 10)})

	productDir := filepath.Join(env.cfg.UploadDir, "products", id)
	if _, err := os.Stat(productDir); err != nil {
		t.Fatalf("product dir missing before delete: %v", err)
	}

	resp := env.request(t, http.MethodDelete, "/api/products/"+id, nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	if _, err := os.Stat(productDir); !os.IsNotExist(err) {
		t.Errorf("product dir should be removed, stat err: %v", err)
	}
	resp = env.request(t, http.MethodGet, "/api/products/"+id, nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}
