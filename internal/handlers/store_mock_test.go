package handlers

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cseshahriar/products/internal/models"
)

var errDuplicateKey = errors.New(`ERROR: duplicate key value violates unique constraint "idx_products_tenant_sku" (SQLSTATE 23505)`)

// mockStore is an in-memory CatalogStore for handler tests. Each field holds
// either canned data to return or a record of what the handler asked for.
type mockStore struct {
	variants       []models.Variant
	activeVariants []models.Variant
	products       []models.Product
	productsTotal  int64
	editProduct    *models.Product
	productExists  bool

	err     error
	saveErr error

	savedProduct  *models.Product
	savedVariants []models.VariantRowChange
	savedImages   []models.ImageRowChange
	saveCalls     int
	listFilter    *models.ProductFilter
}

func (m *mockStore) ListVariants(tenantID string, page int) ([]models.Variant, int64, error) {
	return m.variants, int64(len(m.variants)), m.err
}

func (m *mockStore) GetVariantByID(tenantID string, variantID uuid.UUID) (*models.Variant, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.variants {
		if m.variants[i].ID == variantID {
			return &m.variants[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) CreateVariant(tenantID string, variant *models.Variant) error {
	if m.err != nil {
		return m.err
	}
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	m.variants = append(m.variants, *variant)
	return nil
}

func (m *mockStore) UpdateVariant(tenantID string, variantID uuid.UUID, data *models.Variant) error {
	if m.err != nil {
		return m.err
	}
	for i := range m.variants {
		if m.variants[i].ID == variantID {
			m.variants[i].Title = data.Title
			m.variants[i].Description = data.Description
			m.variants[i].Active = data.Active
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockStore) ListActiveVariants(tenantID string) ([]models.Variant, error) {
	return m.activeVariants, m.err
}

func (m *mockStore) ListProducts(tenantID string, filter *models.ProductFilter) ([]models.Product, int64, error) {
	m.listFilter = filter
	return m.products, m.productsTotal, m.err
}

func (m *mockStore) ListProductsForExport(tenantID string, filter *models.ProductFilter) ([]models.Product, error) {
	m.listFilter = filter
	return m.products, m.err
}

func (m *mockStore) GetProductForEdit(tenantID string, productID uuid.UUID) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.editProduct == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.editProduct, nil
}

func (m *mockStore) ProductExists(tenantID string, productID uuid.UUID) (bool, error) {
	return m.productExists, m.err
}

func (m *mockStore) SaveProductWithRows(tenantID string, product *models.Product, variants []models.VariantRowChange, images []models.ImageRowChange) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.savedProduct = product
	m.savedVariants = variants
	m.savedImages = images
	return nil
}
