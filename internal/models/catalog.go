package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Variant is a catalog-wide option dimension (e.g. "Color", "Size").
// It is managed on its own pages and only ever referenced by product
// variant rows, never cascade-owned by them.
type Variant struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string    `json:"tenantId" gorm:"not null;index;index:idx_variants_tenant_title,unique"`
	Title       string    `json:"title" gorm:"size:40;not null;index:idx_variants_tenant_title,unique"`
	Description string    `json:"description" gorm:"not null"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is the parent entity of the catalog editing flows.
type Product struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string            `json:"tenantId" gorm:"not null;index;index:idx_products_tenant_sku,unique"`
	Title       string            `json:"title" gorm:"size:255;not null;index"`
	SKU         string            `json:"sku" gorm:"size:255;not null;index:idx_products_tenant_sku,unique"`
	Description string            `json:"description" gorm:"not null"`
	Variants    []*ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images      []*ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProductImage holds one uploaded thumbnail. The stored path is keyed by the
// owning product's identifier, so a row can only exist once the product does.
type ProductImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	Thumbnail string    `json:"thumbnail" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductVariant is one purchasable (product, variant, price, stock) combination.
type ProductVariant struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID    uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	VariantID    uuid.UUID `json:"variantId" gorm:"type:uuid;not null;index"`
	VariantTitle string    `json:"variantTitle" gorm:"size:255;not null"`
	Price        float64   `json:"price" gorm:"not null;default:0"`
	Stock        int       `json:"stock" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductVariantPrice prices a combination of up to three variant dimensions.
// The schema carries it and the price filter reads it, but none of the editing
// flows write it.
type ProductVariantPrice struct {
	ID                  uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID           uuid.UUID  `json:"productId" gorm:"type:uuid;not null;index"`
	ProductVariantOne   *uuid.UUID `json:"productVariantOne,omitempty" gorm:"type:uuid"`
	ProductVariantTwo   *uuid.UUID `json:"productVariantTwo,omitempty" gorm:"type:uuid"`
	ProductVariantThree *uuid.UUID `json:"productVariantThree,omitempty" gorm:"type:uuid"`
	Price               float64    `json:"price" gorm:"not null"`
	Stock               float64    `json:"stock" gorm:"not null"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Variant model
func (Variant) TableName() string {
	return "variants"
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the ProductImage model
func (ProductImage) TableName() string {
	return "product_images"
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// TableName returns the table name for the ProductVariantPrice model
func (ProductVariantPrice) TableName() string {
	return "product_variant_prices"
}

// ImageUploadPath builds the storage path for an uploaded product image,
// keyed by the owning product's identifier and the original filename.
func ImageUploadPath(productID uuid.UUID, filename string) string {
	return fmt.Sprintf("products/%s/%s", productID.String(), filename)
}
