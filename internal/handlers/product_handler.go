package handlers

import (
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Post("/products", h.HandleCreateProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return writeBadBody(c)
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":     "Product created",
		"product": product,
	})
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return writeBadBody(c)
	}

	updated, err := h.service.UpdateProduct(c.Params("id"), input)
	if err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"msg":     "Product updated",
		"updated": updated,
	})
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return writeServiceError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"msg": "Product deleted",
	})
}
