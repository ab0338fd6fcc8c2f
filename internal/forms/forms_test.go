package forms

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseshahriar/products/internal/models"
)

var (
	colorID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sizeID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func activeSet() map[uuid.UUID]bool {
	return map[uuid.UUID]bool{colorID: true, sizeID: true}
}

func validRow() models.VariantRowData {
	return models.VariantRowData{
		Variant:      colorID.String(),
		VariantTitle: "Red",
		Price:        "19.99",
		Stock:        "5",
	}
}

func validSubmission() models.ProductSubmission {
	return models.ProductSubmission{
		Product: models.ProductFormData{
			Title:       "Cotton Shirt",
			SKU:         "cotton-shirt-01",
			Description: "A plain cotton shirt",
		},
		Variants: []models.VariantRowData{validRow()},
	}
}

func TestValidateVariantForm(t *testing.T) {
	tests := []struct {
		name      string
		data      models.VariantFormData
		wantField string
	}{
		{
			name: "valid",
			data: models.VariantFormData{Title: "Color", Description: "Primary color"},
		},
		{
			name:      "missing title",
			data:      models.VariantFormData{Description: "Primary color"},
			wantField: "title",
		},
		{
			name:      "title too long",
			data:      models.VariantFormData{Title: strings.Repeat("x", 41), Description: "d"},
			wantField: "title",
		},
		{
			name:      "missing description",
			data:      models.VariantFormData{Title: "Color"},
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateVariantForm(&tt.data)
			if tt.wantField == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestValidateSubmissionValid(t *testing.T) {
	sub := validSubmission()

	clean, errs := ValidateSubmission(&sub, activeSet())
	require.NotNil(t, clean)
	assert.True(t, Valid(errs))

	assert.Equal(t, "Cotton Shirt", clean.Title)
	assert.Equal(t, "cotton-shirt-01", clean.SKU)
	require.Len(t, clean.Variants, 1)
	assert.Equal(t, colorID, clean.Variants[0].VariantID)
	assert.Equal(t, "Red", clean.Variants[0].VariantTitle)
	assert.Equal(t, 19.99, clean.Variants[0].Price)
	assert.Equal(t, 5, clean.Variants[0].Stock)
}

func TestValidateSubmissionParentErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ProductSubmission)
		wantField string
	}{
		{
			name:      "missing title",
			mutate:    func(s *models.ProductSubmission) { s.Product.Title = "" },
			wantField: "title",
		},
		{
			name:      "missing sku",
			mutate:    func(s *models.ProductSubmission) { s.Product.SKU = "" },
			wantField: "sku",
		},
		{
			name:      "sku not a slug",
			mutate:    func(s *models.ProductSubmission) { s.Product.SKU = "not a slug!" },
			wantField: "sku",
		},
		{
			name:      "missing description",
			mutate:    func(s *models.ProductSubmission) { s.Product.Description = "  " },
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			clean, errs := ValidateSubmission(&sub, activeSet())
			assert.Nil(t, clean)
			assert.False(t, Valid(errs))
			assert.Contains(t, errs.Product, tt.wantField)
		})
	}
}

func TestValidateSubmissionRowErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.VariantRowData)
		wantField string
	}{
		{
			name:      "missing variant choice",
			mutate:    func(r *models.VariantRowData) { r.Variant = "" },
			wantField: "variant",
		},
		{
			name:      "variant not a uuid",
			mutate:    func(r *models.VariantRowData) { r.Variant = "red" },
			wantField: "variant",
		},
		{
			name:      "variant not in active set",
			mutate:    func(r *models.VariantRowData) { r.Variant = uuid.NewString() },
			wantField: "variant",
		},
		{
			name:      "missing variant title",
			mutate:    func(r *models.VariantRowData) { r.VariantTitle = "" },
			wantField: "variantTitle",
		},
		{
			name:      "non-numeric price",
			mutate:    func(r *models.VariantRowData) { r.Price = "abc" },
			wantField: "price",
		},
		{
			name:      "negative price",
			mutate:    func(r *models.VariantRowData) { r.Price = "-1" },
			wantField: "price",
		},
		{
			name:      "non-integer stock",
			mutate:    func(r *models.VariantRowData) { r.Stock = "1.5" },
			wantField: "stock",
		},
		{
			name:      "negative stock",
			mutate:    func(r *models.VariantRowData) { r.Stock = "-3" },
			wantField: "stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub.Variants[0])

			clean, errs := ValidateSubmission(&sub, activeSet())
			assert.Nil(t, clean)
			require.Len(t, errs.Variants, 1)
			assert.Contains(t, errs.Variants[0], tt.wantField)
		})
	}
}

func TestValidateSubmissionRowLimits(t *testing.T) {
	t.Run("too many variant rows", func(t *testing.T) {
		sub := validSubmission()
		sub.Variants = nil
		for i := 0; i < MaxVariantRows+1; i++ {
			sub.Variants = append(sub.Variants, validRow())
		}

		clean, errs := ValidateSubmission(&sub, activeSet())
		assert.Nil(t, clean)
		assert.Contains(t, errs.Formset, "Please submit at most 20 variant rows.")
	})

	t.Run("no active variant rows", func(t *testing.T) {
		sub := validSubmission()
		sub.Variants = nil

		clean, errs := ValidateSubmission(&sub, activeSet())
		assert.Nil(t, clean)
		assert.Contains(t, errs.Formset, "Please submit at least 1 variant row.")
	})

	t.Run("all rows flagged for deletion count as zero", func(t *testing.T) {
		sub := validSubmission()
		id := uuid.New()
		sub.Variants = []models.VariantRowData{{ID: &id, Delete: true}}

		clean, errs := ValidateSubmission(&sub, activeSet())
		assert.Nil(t, clean)
		assert.Contains(t, errs.Formset, "Please submit at least 1 variant row.")
	})

	t.Run("too many image rows", func(t *testing.T) {
		sub := validSubmission()
		for i := 0; i < MaxImageRows+1; i++ {
			sub.Images = append(sub.Images, models.ImageRowData{Thumbnail: "a.png"})
		}

		clean, errs := ValidateSubmission(&sub, activeSet())
		assert.Nil(t, clean)
		assert.Contains(t, errs.Formset, "Please submit at most 10 image rows.")
	})
}

func TestValidateSubmissionDeleteRowsSkipValidation(t *testing.T) {
	sub := validSubmission()
	rowID := uuid.New()
	// Broken fields on a row flagged for deletion must not fail the submission.
	sub.Variants = append(sub.Variants, models.VariantRowData{
		ID:     &rowID,
		Price:  "not-a-number",
		Delete: true,
	})

	clean, errs := ValidateSubmission(&sub, activeSet())
	require.NotNil(t, clean)
	assert.True(t, Valid(errs))

	require.Len(t, clean.Variants, 2)
	assert.True(t, clean.Variants[1].Delete)
	assert.Equal(t, rowID, *clean.Variants[1].ID)
}

func TestValidateSubmissionNewDeleteRowDropped(t *testing.T) {
	sub := validSubmission()
	// A deletion flag on a row that was never persisted is a no-op.
	sub.Variants = append(sub.Variants, models.VariantRowData{Delete: true})

	clean, _ := ValidateSubmission(&sub, activeSet())
	require.NotNil(t, clean)
	assert.Len(t, clean.Variants, 1)
}

func TestValidateSubmissionImageRows(t *testing.T) {
	t.Run("valid image row", func(t *testing.T) {
		sub := validSubmission()
		sub.Images = []models.ImageRowData{{Thumbnail: "front.png"}}

		clean, errs := ValidateSubmission(&sub, activeSet())
		require.NotNil(t, clean)
		assert.True(t, Valid(errs))
		require.Len(t, clean.Images, 1)
		assert.Equal(t, "front.png", clean.Images[0].Thumbnail)
	})

	t.Run("thumbnail with path separator", func(t *testing.T) {
		sub := validSubmission()
		sub.Images = []models.ImageRowData{{Thumbnail: "../escape.png"}}

		clean, errs := ValidateSubmission(&sub, activeSet())
		assert.Nil(t, clean)
		require.Len(t, errs.Images, 1)
		assert.Contains(t, errs.Images[0], "thumbnail")
	})
}
