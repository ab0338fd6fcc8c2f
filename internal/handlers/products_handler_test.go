package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseshahriar/products/internal/models"
)

var testVariantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func newTestRouter(store *mockStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))

	h := NewProductsHandler(store, nil, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-1")
		c.Next()
	})
	router.GET("/products", h.ListProducts)
	router.GET("/products/new", h.NewProduct)
	router.GET("/products/:id/edit", h.EditProduct)
	router.POST("/products", h.CreateProduct)
	router.PUT("/products/:id", h.UpdateProduct)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validProductPayload() models.ProductSubmission {
	return models.ProductSubmission{
		Product: models.ProductFormData{
			Title:       "Cotton Shirt",
			SKU:         "cotton-shirt-01",
			Description: "A plain cotton shirt",
		},
		Variants: []models.VariantRowData{
			{
				Variant:      testVariantID.String(),
				VariantTitle: "Red",
				Price:        "19.99",
				Stock:        "5",
			},
		},
	}
}

func activeVariantFixtures() []models.Variant {
	return []models.Variant{
		{ID: testVariantID, Title: "Color", Description: "Primary color", Active: true},
	}
}

func TestListProducts(t *testing.T) {
	store := &mockStore{
		products:      []models.Product{{Title: "Shirt", SKU: "shirt-1"}},
		productsTotal: 25,
	}
	router := newTestRouter(store)

	req := httptest.NewRequest("GET", "/products?q=shirt&page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "shirt", resp.Filters["q"])

	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrevious)

	require.NotNil(t, store.listFilter)
	assert.Equal(t, "shirt", store.listFilter.Q)
	assert.Equal(t, 2, store.listFilter.Page)
}

func TestListProductsFilterParsing(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{name: "bad variant id", query: "variant=not-a-uuid", wantField: "variant"},
		{name: "bad created_at_after", query: "created_at_after=13/01/2026", wantField: "created_at_after"},
		{name: "bad created_at_before", query: "created_at_before=soon", wantField: "created_at_before"},
		{name: "bad price_after", query: "price_after=ten", wantField: "price_after"},
		{name: "bad price_before", query: "price_before=1..5", wantField: "price_before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			router := newTestRouter(store)

			req := httptest.NewRequest("GET", "/products?"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Equal(t, tt.wantField, resp.Error.Field)
			assert.Nil(t, store.listFilter)
		})
	}
}

func TestListProductsSwappedPriceBounds(t *testing.T) {
	store := &mockStore{}
	router := newTestRouter(store)

	req := httptest.NewRequest("GET", "/products?price_after=10&price_before=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, store.listFilter)

	lo, hi := store.listFilter.PriceBounds()
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 10.0, *lo)
	assert.Equal(t, 100.0, *hi)
}

func TestNewProduct(t *testing.T) {
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	req := httptest.NewRequest("GET", "/products/new", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    models.ProductFormContext `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	// One blank variant row to start from, no image rows.
	assert.Len(t, resp.Data.Form.Variants, 1)
	assert.Empty(t, resp.Data.Form.Images)
	require.Len(t, resp.Data.VariantOptions, 1)
	assert.Equal(t, "Color", resp.Data.VariantOptions[0].Title)
}

func TestCreateProduct(t *testing.T) {
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	w := postJSON(t, router, "POST", "/products", validProductPayload())

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmissionSuccess
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Product has been created successfully", resp.Message)
	assert.Equal(t, "/products", resp.Redirect)

	require.Equal(t, 1, store.saveCalls)
	assert.Equal(t, "Cotton Shirt", store.savedProduct.Title)
	require.Len(t, store.savedVariants, 1)
	assert.Equal(t, testVariantID, store.savedVariants[0].VariantID)
	assert.Equal(t, 19.99, store.savedVariants[0].Price)
	assert.Equal(t, 5, store.savedVariants[0].Stock)
}

func TestCreateProductValidationFailureEchoesSubmission(t *testing.T) {
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	payload := validProductPayload()
	payload.Variants[0].Price = "free"

	w := postJSON(t, router, "POST", "/products", payload)

	// Invalid submissions re-render the form, not an error status.
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmissionFailure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)

	require.NotNil(t, resp.Errors)
	require.Len(t, resp.Errors.Variants, 1)
	assert.Contains(t, resp.Errors.Variants[0], "price")

	// Everything typed comes back unchanged, the bad price included.
	require.NotNil(t, resp.Submitted)
	assert.Equal(t, "Cotton Shirt", resp.Submitted.Product.Title)
	assert.Equal(t, "free", resp.Submitted.Variants[0].Price)

	// Nothing was persisted.
	assert.Equal(t, 0, store.saveCalls)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	store := &mockStore{
		activeVariants: activeVariantFixtures(),
		saveErr:        errDuplicateKey,
	}
	router := newTestRouter(store)

	w := postJSON(t, router, "POST", "/products", validProductPayload())

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmissionFailure
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors.Product, "sku")
}

func TestEditProduct(t *testing.T) {
	productID := uuid.New()
	rowID := uuid.New()
	imageID := uuid.New()
	store := &mockStore{
		activeVariants: activeVariantFixtures(),
		editProduct: &models.Product{
			ID:          productID,
			Title:       "Cotton Shirt",
			SKU:         "cotton-shirt-01",
			Description: "A plain cotton shirt",
			Variants: []*models.ProductVariant{
				{ID: rowID, ProductID: productID, VariantID: testVariantID, VariantTitle: "Red", Price: 19.99, Stock: 5},
			},
			Images: []*models.ProductImage{
				{ID: imageID, ProductID: productID, Thumbnail: "products/" + productID.String() + "/front.png"},
			},
		},
	}
	router := newTestRouter(store)

	req := httptest.NewRequest("GET", "/products/"+productID.String()+"/edit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    models.ProductFormContext `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	form := resp.Data.Form
	assert.Equal(t, "Cotton Shirt", form.Product.Title)
	require.Len(t, form.Variants, 1)
	assert.Equal(t, testVariantID.String(), form.Variants[0].Variant)
	assert.Equal(t, "19.99", form.Variants[0].Price)
	assert.Equal(t, "5", form.Variants[0].Stock)

	// The stored path is reduced to its filename for the form.
	require.Len(t, form.Images, 1)
	assert.Equal(t, "front.png", form.Images[0].Thumbnail)
}

func TestEditProductNotFound(t *testing.T) {
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	req := httptest.NewRequest("GET", "/products/"+uuid.NewString()+"/edit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestUpdateProductWithDeletions(t *testing.T) {
	productID := uuid.New()
	keepID := uuid.New()
	dropID := uuid.New()
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	payload := validProductPayload()
	payload.Variants = []models.VariantRowData{
		{
			ID:           &keepID,
			Variant:      testVariantID.String(),
			VariantTitle: "Red",
			Price:        "24.99",
			Stock:        "3",
		},
		{ID: &dropID, Delete: true},
	}

	w := postJSON(t, router, "PUT", "/products/"+productID.String(), payload)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubmissionSuccess
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Product was updated successfully", resp.Message)

	assert.Equal(t, productID, store.savedProduct.ID)
	require.Len(t, store.savedVariants, 2)
	assert.Equal(t, 24.99, store.savedVariants[0].Price)
	assert.False(t, store.savedVariants[0].Delete)
	assert.True(t, store.savedVariants[1].Delete)
	assert.Equal(t, dropID, *store.savedVariants[1].ID)
}

func TestUpdateProductInvalidID(t *testing.T) {
	store := &mockStore{activeVariants: activeVariantFixtures()}
	router := newTestRouter(store)

	w := postJSON(t, router, "PUT", "/products/not-a-uuid", validProductPayload())

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}
