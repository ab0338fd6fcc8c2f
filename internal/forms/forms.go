package forms

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/cseshahriar/products/internal/models"
)

// Row limits for the product editing formsets.
const (
	MinVariantRows = 1
	MaxVariantRows = 20
	MaxImageRows   = 10

	maxTitleLen        = 255
	maxSKULen          = 255
	maxVariantTitleLen = 40
)

const (
	msgRequired   = "This field is required."
	msgTooLong    = "Value is too long."
	msgNotSlug    = "Enter a valid sku consisting of letters, numbers, underscores or hyphens."
	msgNotNumber  = "Enter a number."
	msgNotInteger = "Enter a whole number."
	msgNegative   = "Value must not be negative."
	msgBadChoice  = "Select a valid choice. That choice is not one of the available choices."
)

// CleanSubmission is a fully validated product submission: the parent fields
// plus the validated row changes, rows flagged for deletion included so the
// storage layer can remove them.
type CleanSubmission struct {
	Title       string
	SKU         string
	Description string
	Variants    []models.VariantRowChange
	Images      []models.ImageRowChange
}

// ValidateVariantForm validates the single-model variant form.
func ValidateVariantForm(data *models.VariantFormData) models.FieldErrors {
	errs := models.FieldErrors{}
	title := strings.TrimSpace(data.Title)
	if title == "" {
		errs["title"] = msgRequired
	} else if len(title) > maxVariantTitleLen {
		errs["title"] = msgTooLong
	}
	if strings.TrimSpace(data.Description) == "" {
		errs["description"] = msgRequired
	}
	return errs
}

// ValidateSubmission validates a product submission as one atomic intent:
// the parent form plus every active (non-deleted) row of both formsets.
// activeVariants is the explicit set of selectable catalog variant IDs.
// A nil CleanSubmission is returned whenever any part fails.
func ValidateSubmission(sub *models.ProductSubmission, activeVariants map[uuid.UUID]bool) (*CleanSubmission, *models.SubmissionErrors) {
	errs := &models.SubmissionErrors{
		Product:  validateProductForm(&sub.Product),
		Variants: make([]models.FieldErrors, len(sub.Variants)),
		Images:   make([]models.FieldErrors, len(sub.Images)),
	}

	clean := &CleanSubmission{
		Title:       strings.TrimSpace(sub.Product.Title),
		SKU:         strings.TrimSpace(sub.Product.SKU),
		Description: strings.TrimSpace(sub.Product.Description),
	}

	activeRows := 0
	for i := range sub.Variants {
		row := &sub.Variants[i]
		if row.Delete {
			if row.ID != nil {
				clean.Variants = append(clean.Variants, models.VariantRowChange{ID: row.ID, Delete: true})
			}
			errs.Variants[i] = models.FieldErrors{}
			continue
		}
		activeRows++
		change, rowErrs := validateVariantRow(row, activeVariants)
		errs.Variants[i] = rowErrs
		if len(rowErrs) == 0 {
			clean.Variants = append(clean.Variants, change)
		}
	}

	if len(sub.Variants) > MaxVariantRows {
		errs.Formset = append(errs.Formset, "Please submit at most 20 variant rows.")
	} else if activeRows < MinVariantRows {
		errs.Formset = append(errs.Formset, "Please submit at least 1 variant row.")
	}

	if len(sub.Images) > MaxImageRows {
		errs.Formset = append(errs.Formset, "Please submit at most 10 image rows.")
	}
	for i := range sub.Images {
		row := &sub.Images[i]
		if row.Delete {
			if row.ID != nil {
				clean.Images = append(clean.Images, models.ImageRowChange{ID: row.ID, Delete: true})
			}
			errs.Images[i] = models.FieldErrors{}
			continue
		}
		change, rowErrs := validateImageRow(row)
		errs.Images[i] = rowErrs
		if len(rowErrs) == 0 {
			clean.Images = append(clean.Images, change)
		}
	}

	if !Valid(errs) {
		return nil, errs
	}
	return clean, errs
}

// Valid reports whether a submission passed as a whole: the parent form and
// every active row of both formsets.
func Valid(errs *models.SubmissionErrors) bool {
	if len(errs.Product) > 0 || len(errs.Formset) > 0 {
		return false
	}
	for _, row := range errs.Variants {
		if len(row) > 0 {
			return false
		}
	}
	for _, row := range errs.Images {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

func validateProductForm(data *models.ProductFormData) models.FieldErrors {
	errs := models.FieldErrors{}
	title := strings.TrimSpace(data.Title)
	if title == "" {
		errs["title"] = msgRequired
	} else if len(title) > maxTitleLen {
		errs["title"] = msgTooLong
	}

	sku := strings.TrimSpace(data.SKU)
	if sku == "" {
		errs["sku"] = msgRequired
	} else if len(sku) > maxSKULen {
		errs["sku"] = msgTooLong
	} else if !isSlug(sku) {
		errs["sku"] = msgNotSlug
	}

	if strings.TrimSpace(data.Description) == "" {
		errs["description"] = msgRequired
	}
	return errs
}

func validateVariantRow(row *models.VariantRowData, activeVariants map[uuid.UUID]bool) (models.VariantRowChange, models.FieldErrors) {
	errs := models.FieldErrors{}
	change := models.VariantRowChange{ID: row.ID}

	if strings.TrimSpace(row.Variant) == "" {
		errs["variant"] = msgRequired
	} else if variantID, err := uuid.Parse(row.Variant); err != nil || !activeVariants[variantID] {
		errs["variant"] = msgBadChoice
	} else {
		change.VariantID = variantID
	}

	title := strings.TrimSpace(row.VariantTitle)
	if title == "" {
		errs["variantTitle"] = msgRequired
	} else if len(title) > maxTitleLen {
		errs["variantTitle"] = msgTooLong
	}
	change.VariantTitle = title

	if strings.TrimSpace(row.Price) == "" {
		errs["price"] = msgRequired
	} else if price, err := strconv.ParseFloat(strings.TrimSpace(row.Price), 64); err != nil {
		errs["price"] = msgNotNumber
	} else if price < 0 {
		errs["price"] = msgNegative
	} else {
		change.Price = price
	}

	if strings.TrimSpace(row.Stock) == "" {
		errs["stock"] = msgRequired
	} else if stock, err := strconv.Atoi(strings.TrimSpace(row.Stock)); err != nil {
		errs["stock"] = msgNotInteger
	} else if stock < 0 {
		errs["stock"] = msgNegative
	} else {
		change.Stock = stock
	}

	return change, errs
}

func validateImageRow(row *models.ImageRowData) (models.ImageRowChange, models.FieldErrors) {
	errs := models.FieldErrors{}
	thumbnail := strings.TrimSpace(row.Thumbnail)
	if thumbnail == "" {
		errs["thumbnail"] = msgRequired
	} else if strings.ContainsAny(thumbnail, "/\\") {
		errs["thumbnail"] = "Filename must not contain path separators."
	}
	return models.ImageRowChange{ID: row.ID, Thumbnail: thumbnail}, errs
}

func isSlug(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}
