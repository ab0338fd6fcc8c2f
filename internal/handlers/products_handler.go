package handlers

import (
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/cseshahriar/products/internal/events"
	"github.com/cseshahriar/products/internal/forms"
	"github.com/cseshahriar/products/internal/models"
	"github.com/cseshahriar/products/internal/repository"
)

type ProductsHandler struct {
	store           CatalogStore
	eventsPublisher *events.Publisher
	logger          *logrus.Entry
}

// NewProductsHandler creates the product page handlers. eventsPublisher may
// be nil when NATS is not configured.
func NewProductsHandler(store CatalogStore, eventsPublisher *events.Publisher, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{
		store:           store,
		eventsPublisher: eventsPublisher,
		logger:          logger.WithField("component", "products-handler"),
	}
}

// ListProducts returns the filtered, paginated product list
// @Summary List products
// @Description Filter by title substring, catalog variant, creation-date range and variant-price range
// @Tags products
// @Produce json
// @Param q query string false "Case-insensitive title substring"
// @Param variant query string false "Catalog variant ID"
// @Param created_at_after query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param created_at_before query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param price_after query number false "Price range bound"
// @Param price_before query number false "Price range bound"
// @Param page query int false "Page number"
// @Success 200 {object} models.ProductListResponse
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	filter, filterErr := parseProductFilter(c)
	if filterErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   *filterErr,
		})
		return
	}

	products, total, err := h.store.ListProducts(tenantID, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: paginationInfo(filter.Page, repository.ProductPageSize, total),
		Filters:    appliedFilters(c),
	})
}

// NewProduct returns the empty create-form state: one blank variant row plus
// the selectable active-variant options.
// @Summary Product create form state
// @Tags products
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Security BearerAuth
// @Router /products/new [get]
func (h *ProductsHandler) NewProduct(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	options, err := h.variantOptions(tenantID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load variant options")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to load variant options",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: models.ProductFormContext{
			Form: models.ProductSubmission{
				Variants: []models.VariantRowData{{}},
				Images:   []models.ImageRowData{},
			},
			VariantOptions: options,
		},
	})
}

// CreateProduct validates the parent form and both formsets together and, on
// success, persists the product and every row as one unit. Validation
// failures re-render: HTTP 200 with per-field and per-row errors plus the
// submitted values.
// @Summary Create a product with variant and image rows
// @Tags products
// @Accept json
// @Produce json
// @Success 201 {object} models.SubmissionSuccess
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	h.handleSubmission(c, nil)
}

// EditProduct returns the pre-populated edit-form state for one product
// @Summary Product edit form state
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/{id}/edit [get]
func (h *ProductsHandler) EditProduct(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	product, err := h.store.GetProductForEdit(tenantID, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	options, err := h.variantOptions(tenantID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load variant options")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to load variant options",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: models.ProductFormContext{
			Form:           submissionFromProduct(product),
			VariantOptions: options,
		},
	})
}

// UpdateProduct validates and persists an edit submission: changed rows
// updated, rows flagged for deletion removed, new rows created, all in one
// unit with the parent.
// @Summary Update a product with variant and image rows
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SubmissionSuccess
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}
	h.handleSubmission(c, &productID)
}

// handleSubmission is the shared submit-state flow of the create and edit
// pages. productID is nil when creating.
func (h *ProductsHandler) handleSubmission(c *gin.Context, productID *uuid.UUID) {
	tenantID := c.GetString("tenant_id")

	var sub models.ProductSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	active, err := h.store.ListActiveVariants(tenantID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load active variants")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to load variant options",
			},
		})
		return
	}
	activeSet := make(map[uuid.UUID]bool, len(active))
	for _, v := range active {
		activeSet[v.ID] = true
	}

	clean, errs := forms.ValidateSubmission(&sub, activeSet)
	if clean == nil {
		c.JSON(http.StatusOK, models.SubmissionFailure{
			Success:   false,
			Errors:    errs,
			Submitted: &sub,
		})
		return
	}

	product := &models.Product{
		Title:       clean.Title,
		SKU:         clean.SKU,
		Description: clean.Description,
	}
	creating := productID == nil
	if !creating {
		product.ID = *productID
	}

	if err := h.store.SaveProductWithRows(tenantID, product, clean.Variants, clean.Images); err != nil {
		if repository.IsDuplicate(err) {
			// Uniqueness races surface at commit; converted to a field error
			// on the same re-render response.
			c.JSON(http.StatusOK, models.SubmissionFailure{
				Success: false,
				Errors: &models.SubmissionErrors{
					Product: models.FieldErrors{"sku": "Product with this sku already exists."},
				},
				Submitted: &sub,
			})
			return
		}
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_FOUND",
					Message: "Product not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to save product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATION_FAILED",
				Message: "Failed to save product",
			},
		})
		return
	}

	if h.eventsPublisher != nil {
		actor := gosharedmw.GetActorInfo(c)
		if creating {
			_ = h.eventsPublisher.PublishProductCreated(c.Request.Context(), product, tenantID, actor.ActorID, actor.ActorName, actor.ActorEmail)
		} else {
			_ = h.eventsPublisher.PublishProductUpdated(c.Request.Context(), product, tenantID, actor.ActorID, actor.ActorName, actor.ActorEmail)
		}
	}

	status := http.StatusOK
	message := "Product was updated successfully"
	if creating {
		status = http.StatusCreated
		message = "Product has been created successfully"
	}
	c.JSON(status, models.SubmissionSuccess{
		Success:  true,
		Data:     product,
		Message:  message,
		Redirect: "/products",
	})
}

func (h *ProductsHandler) variantOptions(tenantID string) ([]models.VariantOption, error) {
	active, err := h.store.ListActiveVariants(tenantID)
	if err != nil {
		return nil, err
	}
	options := make([]models.VariantOption, 0, len(active))
	for _, v := range active {
		options = append(options, models.VariantOption{ID: v.ID, Title: v.Title})
	}
	return options, nil
}

// submissionFromProduct turns a stored product into edit-form state. Image
// rows echo the original filename, not the stored path.
func submissionFromProduct(product *models.Product) models.ProductSubmission {
	sub := models.ProductSubmission{
		Product: models.ProductFormData{
			Title:       product.Title,
			SKU:         product.SKU,
			Description: product.Description,
		},
		Variants: make([]models.VariantRowData, 0, len(product.Variants)),
		Images:   make([]models.ImageRowData, 0, len(product.Images)),
	}
	for _, pv := range product.Variants {
		id := pv.ID
		sub.Variants = append(sub.Variants, models.VariantRowData{
			ID:           &id,
			Variant:      pv.VariantID.String(),
			VariantTitle: pv.VariantTitle,
			Price:        strconv.FormatFloat(pv.Price, 'f', -1, 64),
			Stock:        strconv.Itoa(pv.Stock),
		})
	}
	for _, img := range product.Images {
		id := img.ID
		sub.Images = append(sub.Images, models.ImageRowData{
			ID:        &id,
			Thumbnail: path.Base(img.Thumbnail),
		})
	}
	return sub
}

// parseProductFilter reads the list query parameters. A malformed bound is a
// filter-form validation error, returned to the caller, never a panic.
func parseProductFilter(c *gin.Context) (*models.ProductFilter, *models.Error) {
	filter := &models.ProductFilter{
		Q:    c.Query("q"),
		Page: parsePage(c),
	}

	if raw := c.Query("variant"); raw != "" {
		variantID, err := uuid.Parse(raw)
		if err != nil {
			return nil, &models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Select a valid choice. That choice is not one of the available choices.",
				Field:   "variant",
			}
		}
		filter.VariantID = &variantID
	}

	if raw := c.Query("created_at_after"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Enter a valid date.",
				Field:   "created_at_after",
			}
		}
		filter.CreatedAfter = &t
	}
	if raw := c.Query("created_at_before"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, &models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Enter a valid date.",
				Field:   "created_at_before",
			}
		}
		// Inclusive of the whole end day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedBefore = &t
	}

	if raw := c.Query("price_after"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Enter a number.",
				Field:   "price_after",
			}
		}
		filter.PriceAfter = &v
	}
	if raw := c.Query("price_before"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Enter a number.",
				Field:   "price_before",
			}
		}
		filter.PriceBefore = &v
	}

	return filter, nil
}

func appliedFilters(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for _, key := range []string{"q", "variant", "created_at_after", "created_at_before", "price_after", "price_before"} {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func parsePage(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

func paginationInfo(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
