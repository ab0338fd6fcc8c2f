package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// VariantFormData is the submitted state of the variant create/edit form.
type VariantFormData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

// ProductFormData is the submitted state of the parent product form.
type ProductFormData struct {
	Title       string `json:"title"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
}

// VariantRowData is one submitted variant formset row. Price and stock stay
// strings until the form layer converts them, so a non-numeric value surfaces
// as a field error and the entered text can be echoed back unchanged.
type VariantRowData struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Variant      string     `json:"variant"`
	VariantTitle string     `json:"variantTitle"`
	Price        string     `json:"price"`
	Stock        string     `json:"stock"`
	Delete       bool       `json:"delete"`
}

// ImageRowData is one submitted image formset row.
type ImageRowData struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Thumbnail string     `json:"thumbnail"`
	Delete    bool       `json:"delete"`
}

// ProductSubmission is the full payload of a product create/edit submit:
// one parent form plus the variant and image formsets.
type ProductSubmission struct {
	Product  ProductFormData  `json:"product"`
	Variants []VariantRowData `json:"variants"`
	Images   []ImageRowData   `json:"images"`
}

// SubmissionErrors carries field-level messages for the parent form and each
// formset row, index-aligned with the submitted rows, plus formset-wide
// messages such as row-count violations.
type SubmissionErrors struct {
	Product  FieldErrors   `json:"product,omitempty"`
	Variants []FieldErrors `json:"variants,omitempty"`
	Images   []FieldErrors `json:"images,omitempty"`
	Formset  []string      `json:"formset,omitempty"`
}

// VariantRowChange is a validated variant row ready for persistence.
type VariantRowChange struct {
	ID           *uuid.UUID
	VariantID    uuid.UUID
	VariantTitle string
	Price        float64
	Stock        int
	Delete       bool
}

// ImageRowChange is a validated image row ready for persistence.
type ImageRowChange struct {
	ID        *uuid.UUID
	Thumbnail string
	Delete    bool
}

// ProductFilter is the parsed product list query.
type ProductFilter struct {
	Q             string
	VariantID     *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	PriceAfter    *float64
	PriceBefore   *float64
	Page          int
}

// PriceBounds resolves the submitted price bounds into an effective range.
// The admin UI renders the two inputs in stop/start order, so price_before is
// read as the range minimum and price_after as the maximum; the pair is then
// normalized so a swapped submission still yields a usable range.
func (f *ProductFilter) PriceBounds() (lo, hi *float64) {
	lo = f.PriceBefore
	hi = f.PriceAfter
	if lo != nil && hi != nil && *lo > *hi {
		l := math.Min(*f.PriceBefore, *f.PriceAfter)
		h := math.Max(*f.PriceBefore, *f.PriceAfter)
		lo, hi = &l, &h
	}
	return lo, hi
}

// VariantOption is one selectable catalog variant for the row forms.
type VariantOption struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// ProductFormContext is the data a client needs to render the create/edit page:
// the (empty or pre-populated) form state plus the selectable variant options.
type ProductFormContext struct {
	Form           ProductSubmission `json:"form"`
	VariantOptions []VariantOption   `json:"variantOptions"`
}

// Response types

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type VariantResponse struct {
	Success bool     `json:"success"`
	Data    *Variant `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type VariantListResponse struct {
	Success    bool            `json:"success"`
	Data       []Variant       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ProductListResponse struct {
	Success    bool              `json:"success"`
	Data       []Product         `json:"data"`
	Pagination *PaginationInfo   `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
}

// SubmissionFailure re-renders the form state: the field and row errors plus
// the submitted values, so nothing the user typed is lost.
type SubmissionFailure struct {
	Success   bool               `json:"success"`
	Errors    *SubmissionErrors  `json:"errors"`
	Submitted *ProductSubmission `json:"submitted"`
}

// SubmissionSuccess is the redirect-with-flash-message outcome.
type SubmissionSuccess struct {
	Success  bool     `json:"success"`
	Data     *Product `json:"data"`
	Message  string   `json:"message"`
	Redirect string   `json:"redirect"`
}

// VariantFormFailure mirrors SubmissionFailure for the single-model variant form.
type VariantFormFailure struct {
	Success   bool             `json:"success"`
	Errors    FieldErrors      `json:"errors"`
	Submitted *VariantFormData `json:"submitted"`
}
