package handlers

import (
	"github.com/google/uuid"

	"github.com/cseshahriar/products/internal/models"
)

// CatalogStore is the storage surface the page handlers run against.
type CatalogStore interface {
	ListVariants(tenantID string, page int) ([]models.Variant, int64, error)
	GetVariantByID(tenantID string, variantID uuid.UUID) (*models.Variant, error)
	CreateVariant(tenantID string, variant *models.Variant) error
	UpdateVariant(tenantID string, variantID uuid.UUID, data *models.Variant) error
	ListActiveVariants(tenantID string) ([]models.Variant, error)

	ListProducts(tenantID string, filter *models.ProductFilter) ([]models.Product, int64, error)
	ListProductsForExport(tenantID string, filter *models.ProductFilter) ([]models.Product, error)
	GetProductForEdit(tenantID string, productID uuid.UUID) (*models.Product, error)
	ProductExists(tenantID string, productID uuid.UUID) (bool, error)
	SaveProductWithRows(tenantID string, product *models.Product, variants []models.VariantRowChange, images []models.ImageRowChange) error
}
