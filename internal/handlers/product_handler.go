package handlers

import (
	"errors"
	"log"
	"strconv"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog. Payload
// validation lives in the service so it guards every write path; the handler
// only parses and maps errors to statuses.
type ProductHandler struct {
	service *services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The static
// /search routes are registered before /:id so they are never captured as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")

	products.Get("/", h.HandleGetProducts)
	products.Post("/", h.HandleCreateProduct)

	products.Get("/search/price", h.HandleSearchByPriceRange)
	products.Get("/search/brand/:brand", h.HandleSearchByBrand)
	products.Get("/search/brand/:brand/size/:size", h.HandleGetByBrandAndSize)
	products.Get("/search/size/:size", h.HandleSearchBySize)
	products.Get("/search/gender/:gender", h.HandleSearchByGender)
	products.Get("/search/gender/:gender/brand/:brand", h.HandleSearchByGenderAndBrand)
	products.Get("/search/owner/:owner", h.HandleSearchByOwner)
	products.Get("/search/owner/:owner/name/:name", h.HandleGetByOwnerAndName)

	products.Get("/:id", h.HandleGetProductByID)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Patch("/:id/name", h.HandleUpdateName)
	products.Patch("/:id/price", h.HandleUpdatePrice)
	products.Patch("/:id/size", h.HandleUpdateSize)
	products.Patch("/:id/brand", h.HandleUpdateBrand)
	products.Patch("/:id/image", h.HandleUpdateImage)
	products.Patch("/:id/owner", h.HandleTransferOwner)
	products.Delete("/:id", h.HandleDeleteProduct)
}

// callerID extracts the authenticated caller identity stored by the JWT
// middleware.
func callerID(c *fiber.Ctx) (string, bool) {
	caller, ok := c.Locals("user_id").(string)
	return caller, ok && caller != ""
}

// respondError maps the service error kinds onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleGetProducts retrieves all products in id order.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAll()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product owned by the caller.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing caller identity",
		})
	}

	var payload models.ProductPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.Create(payload, caller)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces every payload field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var payload models.ProductPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.Update(c.Params("id"), payload)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// fieldUpdate is the request body shape shared by the single-field patches.
type fieldUpdate struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size"`
	Brand string  `json:"brand"`
	Image string  `json:"image"`
	Owner string  `json:"owner"`
}

func (h *ProductHandler) handleFieldUpdate(c *fiber.Ctx, apply func(id string, body fieldUpdate) (*models.Product, error)) error {
	var body fieldUpdate
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing field update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := apply(c.Params("id"), body)
	if err != nil {
		log.Printf("Error patching product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleUpdateName changes a product's name.
func (h *ProductHandler) HandleUpdateName(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.UpdateName(id, body.Name)
	})
}

// HandleUpdatePrice changes a product's price.
func (h *ProductHandler) HandleUpdatePrice(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.UpdatePrice(id, body.Price)
	})
}

// HandleUpdateSize changes a product's size.
func (h *ProductHandler) HandleUpdateSize(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.UpdateSize(id, body.Size)
	})
}

// HandleUpdateBrand changes a product's brand.
func (h *ProductHandler) HandleUpdateBrand(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.UpdateBrand(id, body.Brand)
	})
}

// HandleUpdateImage changes a product's image.
func (h *ProductHandler) HandleUpdateImage(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.UpdateImage(id, body.Image)
	})
}

// HandleTransferOwner reassigns a product to a new owner.
func (h *ProductHandler) HandleTransferOwner(c *fiber.Ctx) error {
	return h.handleFieldUpdate(c, func(id string, body fieldUpdate) (*models.Product, error) {
		return h.service.TransferOwner(id, body.Owner)
	})
}

// HandleDeleteProduct deletes a product. Only its owner may do so.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	caller, ok := callerID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Missing caller identity",
		})
	}

	product, err := h.service.Delete(c.Params("id"), caller)
	if err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleSearchByBrand lists products with the exact brand.
func (h *ProductHandler) HandleSearchByBrand(c *fiber.Ctx) error {
	products, err := h.service.SearchByBrand(c.Params("brand"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchBySize lists products with the exact size.
func (h *ProductHandler) HandleSearchBySize(c *fiber.Ctx) error {
	products, err := h.service.SearchBySize(c.Params("size"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchByGender lists products with the exact gender.
func (h *ProductHandler) HandleSearchByGender(c *fiber.Ctx) error {
	products, err := h.service.SearchByGender(c.Params("gender"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchByOwner lists products owned by the given identity.
func (h *ProductHandler) HandleSearchByOwner(c *fiber.Ctx) error {
	products, err := h.service.SearchByOwner(c.Params("owner"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchByPriceRange lists products with min <= price <= max, both
// bounds taken from query parameters.
func (h *ProductHandler) HandleSearchByPriceRange(c *fiber.Ctx) error {
	min, err := strconv.ParseFloat(c.Query("min", "0"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid min price",
			"error":   err.Error(),
		})
	}
	max, err := strconv.ParseFloat(c.Query("max", "0"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid max price",
			"error":   err.Error(),
		})
	}

	products, err := h.service.SearchByPriceRange(min, max)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleSearchByGenderAndBrand lists products matching both fields.
func (h *ProductHandler) HandleSearchByGenderAndBrand(c *fiber.Ctx) error {
	products, err := h.service.SearchByGenderAndBrand(c.Params("gender"), c.Params("brand"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetByBrandAndSize returns the single product matching both fields.
func (h *ProductHandler) HandleGetByBrandAndSize(c *fiber.Ctx) error {
	product, err := h.service.GetByBrandAndSize(c.Params("brand"), c.Params("size"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetByOwnerAndName returns the single product matching both fields.
func (h *ProductHandler) HandleGetByOwnerAndName(c *fiber.Ctx) error {
	product, err := h.service.GetByOwnerAndName(c.Params("owner"), c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}
