package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cseshahriar/products/internal/forms"
	"github.com/cseshahriar/products/internal/models"
	"github.com/cseshahriar/products/internal/repository"
)

type VariantsHandler struct {
	store  CatalogStore
	logger *logrus.Entry
}

func NewVariantsHandler(store CatalogStore, logger *logrus.Logger) *VariantsHandler {
	return &VariantsHandler{
		store:  store,
		logger: logger.WithField("component", "variants-handler"),
	}
}

// ListVariants returns the paginated catalog variant list
// @Summary List catalog variants
// @Tags variants
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} models.VariantListResponse
// @Security BearerAuth
// @Router /variants [get]
func (h *VariantsHandler) ListVariants(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	page := parsePage(c)

	variants, total, err := h.store.ListVariants(tenantID, page)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list variants")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve variants",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.VariantListResponse{
		Success:    true,
		Data:       variants,
		Pagination: paginationInfo(page, repository.VariantPageSize, total),
	})
}

// GetVariant returns one variant, the pre-populated edit form state
// @Summary Get a catalog variant
// @Tags variants
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} models.VariantResponse
// @Security BearerAuth
// @Router /variants/{id} [get]
func (h *VariantsHandler) GetVariant(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid variant ID format",
			},
		})
		return
	}

	variant, err := h.store.GetVariantByID(tenantID, variantID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Variant not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.VariantResponse{
		Success: true,
		Data:    variant,
	})
}

// CreateVariant validates and creates one catalog variant. Validation
// failures re-render the form: HTTP 200 with field errors and the submitted
// values echoed back.
// @Summary Create a catalog variant
// @Tags variants
// @Accept json
// @Produce json
// @Success 201 {object} models.VariantResponse
// @Security BearerAuth
// @Router /variants [post]
func (h *VariantsHandler) CreateVariant(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var data models.VariantFormData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	if errs := forms.ValidateVariantForm(&data); len(errs) > 0 {
		c.JSON(http.StatusOK, models.VariantFormFailure{
			Success:   false,
			Errors:    errs,
			Submitted: &data,
		})
		return
	}

	active := true
	if data.Active != nil {
		active = *data.Active
	}
	variant := &models.Variant{
		Title:       data.Title,
		Description: data.Description,
		Active:      active,
	}

	if err := h.store.CreateVariant(tenantID, variant); err != nil {
		if repository.IsDuplicate(err) {
			c.JSON(http.StatusOK, models.VariantFormFailure{
				Success:   false,
				Errors:    models.FieldErrors{"title": "Variant with this Title already exists."},
				Submitted: &data,
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create variant")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATION_FAILED",
				Message: "Failed to create variant",
			},
		})
		return
	}

	msg := "Variant has been created successfully"
	c.JSON(http.StatusCreated, models.VariantResponse{
		Success: true,
		Data:    variant,
		Message: &msg,
	})
}

// UpdateVariant validates and updates one catalog variant
// @Summary Update a catalog variant
// @Tags variants
// @Accept json
// @Produce json
// @Param id path string true "Variant ID"
// @Success 200 {object} models.VariantResponse
// @Security BearerAuth
// @Router /variants/{id} [put]
func (h *VariantsHandler) UpdateVariant(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	variantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid variant ID format",
			},
		})
		return
	}

	var data models.VariantFormData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	if errs := forms.ValidateVariantForm(&data); len(errs) > 0 {
		c.JSON(http.StatusOK, models.VariantFormFailure{
			Success:   false,
			Errors:    errs,
			Submitted: &data,
		})
		return
	}

	active := true
	if data.Active != nil {
		active = *data.Active
	}
	update := &models.Variant{
		Title:       data.Title,
		Description: data.Description,
		Active:      active,
	}

	if err := h.store.UpdateVariant(tenantID, variantID, update); err != nil {
		if repository.IsDuplicate(err) {
			c.JSON(http.StatusOK, models.VariantFormFailure{
				Success:   false,
				Errors:    models.FieldErrors{"title": "Variant with this Title already exists."},
				Submitted: &data,
			})
			return
		}
		if repository.IsNotFound(err) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_FOUND",
					Message: "Variant not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update variant")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UPDATE_FAILED",
				Message: "Failed to update variant",
			},
		})
		return
	}

	variant, err := h.store.GetVariantByID(tenantID, variantID)
	if err != nil {
		variant = update
		variant.ID = variantID
	}

	msg := "Variant was updated successfully"
	c.JSON(http.StatusOK, models.VariantResponse{
		Success: true,
		Data:    variant,
		Message: &msg,
	})
}
