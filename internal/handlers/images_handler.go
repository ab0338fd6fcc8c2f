package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cseshahriar/products/internal/models"
)

type ImagesHandler struct {
	store              CatalogStore
	documentServiceURL string
	httpClient         *http.Client
	logger             *logrus.Entry
}

type ImageUploadRequest struct {
	ProductID string `form:"product_id" binding:"required"`
	IsPublic  bool   `form:"isPublic"`
}

func NewImagesHandler(store CatalogStore, documentServiceURL string, logger *logrus.Logger) *ImagesHandler {
	return &ImagesHandler{
		store:              store,
		documentServiceURL: strings.TrimSuffix(documentServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.WithField("component", "images-handler"),
	}
}

// UploadProductImage stores an image for a product under the product's own
// upload prefix
// @Summary Upload image for product
// @Tags product-images
// @Accept multipart/form-data
// @Produce json
// @Param product_id formData string true "Product ID"
// @Param file formData file true "Image file"
// @Param isPublic formData bool false "Is image public"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/images/upload [post]
func (h *ImagesHandler) UploadProductImage(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "MISSING_TENANT",
				Message: "Tenant ID is required",
			},
		})
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_INPUT",
				Message: err.Error(),
			},
		})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_PRODUCT_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	exists, err := h.store.ProductExists(tenantID, productID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check product existence")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to verify product",
			},
		})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NO_FILE",
				Message: "No file uploaded",
			},
		})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FILE_TYPE",
				Message: "Only image files are allowed",
			},
		})
		return
	}

	// Build the multipart form for the document service. The storage path
	// keeps each product's images under its own prefix.
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("bucket", "product-images")
	writer.WriteField("isPublic", fmt.Sprintf("%t", req.IsPublic))
	writer.WriteField("path", models.ImageUploadPath(productID, header.Filename))
	writer.WriteField("tags", fmt.Sprintf("product_id:%s,tenant_id:%s", productID, tenantID))

	part, err := writer.CreateFormFile("file", header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FORM_CREATE_FAILED",
				Message: "Failed to create form",
			},
		})
		return
	}
	if _, err := io.Copy(part, file); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_COPY_FAILED",
				Message: "Failed to copy file",
			},
		})
		return
	}
	writer.Close()

	docReq, err := http.NewRequestWithContext(c.Request.Context(), "POST",
		h.documentServiceURL+"/api/v1/documents/upload", &body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "REQUEST_CREATE_FAILED",
				Message: "Failed to create request",
			},
		})
		return
	}
	docReq.Header.Set("Content-Type", writer.FormDataContentType())
	docReq.Header.Set("X-Tenant-ID", tenantID)
	if auth := c.GetHeader("Authorization"); auth != "" {
		docReq.Header.Set("Authorization", auth)
	}

	resp, err := h.httpClient.Do(docReq)
	if err != nil {
		h.logger.WithError(err).Error("Document service request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DOCUMENT_SERVICE_ERROR",
				Message: "Failed to communicate with document service",
			},
		})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "RESPONSE_READ_FAILED",
				Message: "Failed to read response",
			},
		})
		return
	}

	c.Data(resp.StatusCode, "application/json", respBody)
}
