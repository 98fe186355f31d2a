package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/bajraguru/internal/models"
	"github.com/example/bajraguru/internal/services"
	"github.com/example/bajraguru/internal/utils"
)

const maxUploadFiles = 5

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// firstImageSubquery annotates each row with its first gallery image.
const firstImageSubquery = "(SELECT pi.image_url FROM product_images pi WHERE pi.product_id = products.id ORDER BY pi.display_order ASC LIMIT 1) AS image_url"

// ProductHandler manages the product catalog and its images.
type ProductHandler struct {
	db          *gorm.DB
	images      *services.ImageService
	maxFileSize int64
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, images *services.ImageService, maxFileSize int64) *ProductHandler {
	return &ProductHandler{db: db, images: images, maxFileSize: maxFileSize}
}

// ListProducts returns paginated products with optional filters. Unrecognized
// or malformed filters are ignored rather than rejected.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if minPrice := c.Query("minPrice"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", q, q)
	}

	if featured := c.Query("featured"); featured != "" {
		query = query.Where("featured = ?", featured == "true" || featured == "1")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Select("products.*, " + firstImageSubquery).
		Order(orderClause(c.Query("sort"))).
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(fiber.Map{
		"products": products,
		"pagination": fiber.Map{
			"page":       pg.Page,
			"limit":      pg.Limit,
			"total":      total,
			"totalPages": pg.TotalPages(total),
		},
	})
}

// orderClause maps the sort query param to an ORDER BY expression. The id
// column breaks exact ties so pages stay stable.
func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC, id ASC"
	case "price_desc":
		return "price DESC, id ASC"
	case "popularity":
		return "popularity_score DESC, id ASC"
	default: // newest
		return "created_at DESC, id ASC"
	}
}

// GetProduct loads a product with all its images in display order.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c.Params("id"), true)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"product": product})
}

type createProductRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Price           *float64       `json:"price"`
	Category        string         `json:"category"`
	Featured        bool           `json:"featured"`
	InStock         *bool          `json:"in_stock"`
	PopularityScore int            `json:"popularity_score"`
	AvailableSizes  datatypes.JSON `json:"available_sizes"`
	AvailableColors datatypes.JSON `json:"available_colors"`
}

// CreateProduct persists a new product.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Description == "" || req.Price == nil || req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Name, description, price, and category are required.")
	}

	if !models.IsValidCategory(req.Category) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Invalid category. Must be one of: "+strings.Join(models.ValidCategories, ", "))
	}

	if *req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative.")
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           *req.Price,
		Category:        req.Category,
		Featured:        req.Featured,
		InStock:         true,
		PopularityScore: req.PopularityScore,
		AvailableSizes:  req.AvailableSizes,
		AvailableColors: req.AvailableColors,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

type updateProductRequest struct {
	Name            *string         `json:"name"`
	Description     *string         `json:"description"`
	Price           *float64        `json:"price"`
	Category        *string         `json:"category"`
	Featured        *bool           `json:"featured"`
	InStock         *bool           `json:"in_stock"`
	PopularityScore *int            `json:"popularity_score"`
	AvailableSizes  *datatypes.JSON `json:"available_sizes"`
	AvailableColors *datatypes.JSON `json:"available_colors"`
}

// UpdateProduct applies a partial update. Absent fields keep their previous
// values.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c.Params("id"), false)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		return fiber.NewError(fiber.StatusBadRequest,
			"Invalid category. Must be one of: "+strings.Join(models.ValidCategories, ", "))
	}

	if req.Price != nil && *req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative.")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.PopularityScore != nil {
		updates["popularity_score"] = *req.PopularityScore
	}
	if req.AvailableSizes != nil {
		updates["available_sizes"] = *req.AvailableSizes
	}
	if req.AvailableColors != nil {
		updates["available_colors"] = *req.AvailableColors
	}

	if len(updates) > 0 {
		if err := h.db.Model(product).Updates(updates).Error; err != nil {
			return err
		}
	}

	updated, err := h.findProduct(c.Params("id"), true)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"product": updated})
}

// DeleteProduct removes the product, its image rows, and its upload
// directory. The directory goes first so files cannot outlive their rows.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	product, err := h.findProduct(c.Params("id"), false)
	if err != nil {
		return err
	}

	if err := h.images.DeleteProductDir(product.ID); err != nil {
		return err
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", product.ID).Error
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully."})
}

// UploadImages processes each uploaded file and appends ProductImage rows,
// continuing display_order from the current maximum.
func (h *ProductHandler) UploadImages(c *fiber.Ctx) error {
	product, err := h.findProduct(c.Params("id"), false)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No files uploaded.")
	}
	if len(files) > maxUploadFiles {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Too many files. Maximum is %d files per upload.", maxUploadFiles))
	}

	for _, file := range files {
		if file.Size > h.maxFileSize {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxFileSize>>20))
		}
		if !allowedUploadTypes[file.Header.Get("Content-Type")] {
			return fiber.NewError(fiber.StatusBadRequest,
				"Invalid file type. Only JPG, JPEG, PNG, and WebP are allowed.")
		}
	}

	var maxOrder sql.NullInt64
	if err := h.db.Model(&models.ProductImage{}).
		Where("product_id = ?", product.ID).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error; err != nil {
		return err
	}
	displayOrder := 0
	if maxOrder.Valid {
		displayOrder = int(maxOrder.Int64) + 1
	}

	saved := make([]models.ProductImage, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			return err
		}
		buf, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return err
		}

		result, err := h.images.Process(buf, product.ID)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedImage) {
				return fiber.NewError(fiber.StatusBadRequest,
					"Invalid file type. Only JPG, JPEG, PNG, and WebP are allowed.")
			}
			return err
		}

		image := models.ProductImage{
			BaseModel:    models.BaseModel{ID: result.ID},
			ProductID:    product.ID,
			ImageURL:     result.OriginalURL,
			ThumbnailURL: result.ThumbnailURL,
			DisplayOrder: displayOrder,
		}
		if err := h.db.Create(&image).Error; err != nil {
			return err
		}

		displayOrder++
		saved = append(saved, image)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": saved})
}

// DeleteImage detaches a single image from a product, removing its files and
// row.
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Image not found.")
	}
	imageID, err := uuid.Parse(c.Params("imageId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Image not found.")
	}

	var image models.ProductImage
	if err := h.db.Where("id = ? AND product_id = ?", imageID, productID).
		First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Image not found.")
		}
		return err
	}

	if err := h.images.DeleteImage(image.ImageURL); err != nil {
		return err
	}

	if err := h.db.Delete(&models.ProductImage{}, "id = ?", image.ID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Image deleted successfully."})
}

// findProduct loads a product by its raw path param, mapping bad IDs and
// missing rows to 404.
func (h *ProductHandler) findProduct(rawID string, withImages bool) (*models.Product, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found.")
	}

	query := h.db
	if withImages {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		})
	}

	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Product not found.")
		}
		return nil, err
	}

	return &product, nil
}

// RegisterProductRoutes attaches product routes. Reads are public; mutations
// require the admin middleware.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Get("/", h.ListProducts)
	router.Get("/:id", h.GetProduct)

	router.Post("/", requireAdmin, h.CreateProduct)
	router.Put("/:id", requireAdmin, h.UpdateProduct)
	router.Delete("/:id", requireAdmin, h.DeleteProduct)
	router.Post("/:id/images", requireAdmin, h.UploadImages)
	router.Delete("/:id/images/:imageId", requireAdmin, h.DeleteImage)
}
