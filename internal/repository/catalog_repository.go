package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cseshahriar/products/internal/models"
)

// ProductPageSize is the fixed page size of the product list view.
const ProductPageSize = 10

// VariantPageSize is the page size of the catalog variant list view.
const VariantPageSize = 10

// Cache TTL constants
const (
	ProductCacheTTL       = 5 * time.Minute
	VariantOptionCacheTTL = 10 * time.Minute // option list changes only on variant edits
)

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewCatalogRepository(db *gorm.DB, redis *redis.Client) *CatalogRepository {
	repo := &CatalogRepository{
		db:    db,
		redis: redis,
	}

	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 2000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "catalog:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

// IsDuplicate reports whether err is a storage-layer unique constraint
// violation (duplicate sku, duplicate variant title).
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "23505")
}

// IsNotFound reports whether err means the record does not exist for the
// tenant.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (r *CatalogRepository) invalidateProductCache(ctx context.Context, tenantID string, productID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("product:%s:%s", tenantID, productID.String()))
}

func (r *CatalogRepository) invalidateVariantOptionCache(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("variant-options:%s", tenantID))
}

// Variant Operations

// ListVariants retrieves catalog variants with pagination
func (r *CatalogRepository) ListVariants(tenantID string, page int) ([]models.Variant, int64, error) {
	var variants []models.Variant
	var total int64

	query := r.db.Model(&models.Variant{}).Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * VariantPageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(VariantPageSize).Find(&variants).Error; err != nil {
		return nil, 0, err
	}

	return variants, total, nil
}

// GetVariantByID retrieves a catalog variant by ID
func (r *CatalogRepository) GetVariantByID(tenantID string, variantID uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, variantID).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateVariant creates a new catalog variant
func (r *CatalogRepository) CreateVariant(tenantID string, variant *models.Variant) error {
	variant.TenantID = tenantID
	variant.CreatedAt = time.Now()
	variant.UpdatedAt = time.Now()
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}

	err := r.db.Create(variant).Error
	if err == nil {
		r.invalidateVariantOptionCache(context.Background(), tenantID)
	}
	return err
}

// UpdateVariant updates a catalog variant
func (r *CatalogRepository) UpdateVariant(tenantID string, variantID uuid.UUID, data *models.Variant) error {
	result := r.db.Model(&models.Variant{}).
		Where("tenant_id = ? AND id = ?", tenantID, variantID).
		Updates(map[string]interface{}{
			"title":       data.Title,
			"description": data.Description,
			"active":      data.Active,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateVariantOptionCache(context.Background(), tenantID)
	return nil
}

// ListActiveVariants returns the currently-active catalog variants, the
// explicit option set for the variant row forms. Cached per tenant.
func (r *CatalogRepository) ListActiveVariants(tenantID string) ([]models.Variant, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("variant-options:%s", tenantID)

	fetch := func() ([]models.Variant, error) {
		var variants []models.Variant
		err := r.db.Where("tenant_id = ? AND active = ?", tenantID, true).
			Order("title ASC").Find(&variants).Error
		return variants, err
	}

	if r.cache != nil {
		var variants []models.Variant
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &variants, VariantOptionCacheTTL, func() (any, error) {
			v, err := fetch()
			if err != nil {
				return nil, err
			}
			return v, nil
		})
		if err != nil {
			return nil, err
		}
		return variants, nil
	}

	return fetch()
}

// Product Operations

// ListProducts retrieves products narrowed by the composed filters, newest
// first, with the fixed page size applied after filtering.
func (r *CatalogRepository) ListProducts(tenantID string, filter *models.ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)
	query = r.applyProductFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * ProductPageSize
	err := query.Order("created_at DESC").
		Preload("Variants").
		Offset(offset).Limit(ProductPageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListProductsForExport retrieves the full filtered product set, unpaginated,
// with variant rows preloaded.
func (r *CatalogRepository) ListProductsForExport(tenantID string, filter *models.ProductFilter) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)
	query = r.applyProductFilters(query, filter)
	err := query.Order("created_at DESC").Preload("Variants").Find(&products).Error
	return products, err
}

// GetProductForEdit retrieves a product with its variant and image rows for
// pre-populating the edit forms. Reads go to the database so the form always
// reflects committed state.
func (r *CatalogRepository) GetProductForEdit(tenantID string, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, productID).
		Preload("Variants").
		Preload("Images").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductExists reports whether a product exists for the tenant.
func (r *CatalogRepository) ProductExists(tenantID string, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Count(&count).Error
	return count > 0, err
}

// SaveProductWithRows persists one product submission as a single unit: the
// parent row first, then every variant and image row stamped with its
// identifier, rows flagged for deletion removed. Runs in one transaction so a
// failure between parent and child writes never leaves a partial product.
func (r *CatalogRepository) SaveProductWithRows(tenantID string, product *models.Product, variants []models.VariantRowChange, images []models.ImageRowChange) error {
	now := time.Now()
	creating := product.ID == uuid.Nil

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if creating {
			product.ID = uuid.New()
			product.TenantID = tenantID
			product.CreatedAt = now
			product.UpdatedAt = now
			if err := tx.Create(product).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&models.Product{}).
				Where("tenant_id = ? AND id = ?", tenantID, product.ID).
				Updates(map[string]interface{}{
					"title":       product.Title,
					"sku":         product.SKU,
					"description": product.Description,
					"updated_at":  now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		for i := range variants {
			row := &variants[i]
			switch {
			case row.Delete:
				if row.ID == nil {
					continue
				}
				if err := tx.Where("id = ? AND product_id = ?", *row.ID, product.ID).
					Delete(&models.ProductVariant{}).Error; err != nil {
					return fmt.Errorf("failed to delete variant row: %w", err)
				}
			case row.ID != nil:
				result := tx.Model(&models.ProductVariant{}).
					Where("id = ? AND product_id = ?", *row.ID, product.ID).
					Updates(map[string]interface{}{
						"variant_id":    row.VariantID,
						"variant_title": row.VariantTitle,
						"price":         row.Price,
						"stock":         row.Stock,
						"updated_at":    now,
					})
				if result.Error != nil {
					return fmt.Errorf("failed to update variant row: %w", result.Error)
				}
			default:
				pv := &models.ProductVariant{
					ID:           uuid.New(),
					ProductID:    product.ID,
					VariantID:    row.VariantID,
					VariantTitle: row.VariantTitle,
					Price:        row.Price,
					Stock:        row.Stock,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := tx.Create(pv).Error; err != nil {
					return fmt.Errorf("failed to create variant row: %w", err)
				}
			}
		}

		for i := range images {
			row := &images[i]
			switch {
			case row.Delete:
				if row.ID == nil {
					continue
				}
				if err := tx.Where("id = ? AND product_id = ?", *row.ID, product.ID).
					Delete(&models.ProductImage{}).Error; err != nil {
					return fmt.Errorf("failed to delete image row: %w", err)
				}
			case row.ID != nil:
				result := tx.Model(&models.ProductImage{}).
					Where("id = ? AND product_id = ?", *row.ID, product.ID).
					Updates(map[string]interface{}{
						"thumbnail":  models.ImageUploadPath(product.ID, row.Thumbnail),
						"updated_at": now,
					})
				if result.Error != nil {
					return fmt.Errorf("failed to update image row: %w", result.Error)
				}
			default:
				img := &models.ProductImage{
					ID:        uuid.New(),
					ProductID: product.ID,
					Thumbnail: models.ImageUploadPath(product.ID, row.Thumbnail),
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := tx.Create(img).Error; err != nil {
					return fmt.Errorf("failed to create image row: %w", err)
				}
			}
		}

		return nil
	})

	if err == nil {
		r.invalidateProductCache(context.Background(), tenantID, product.ID)
	}
	return err
}

// applyProductFilters narrows the product query. Each filter restricts the
// same base collection independently; they compose with AND in any order.
func (r *CatalogRepository) applyProductFilters(query *gorm.DB, filter *models.ProductFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.Q != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Q)+"%")
	}

	if filter.VariantID != nil {
		query = query.Where(
			"id IN (SELECT product_id FROM product_variants WHERE variant_id = ?)",
			*filter.VariantID,
		)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Price bounds restrict to products having a variant-price row in range.
	lo, hi := filter.PriceBounds()
	switch {
	case lo != nil && hi != nil:
		query = query.Where(
			"id IN (SELECT product_id FROM product_variant_prices WHERE price BETWEEN ? AND ?)",
			*lo, *hi,
		)
	case lo != nil:
		query = query.Where(
			"id IN (SELECT product_id FROM product_variant_prices WHERE price >= ?)", *lo,
		)
	case hi != nil:
		query = query.Where(
			"id IN (SELECT product_id FROM product_variant_prices WHERE price <= ?)", *hi,
		)
	}

	return query
}
