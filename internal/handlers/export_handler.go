package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/cseshahriar/products/internal/models"
)

type ExportHandler struct {
	store  CatalogStore
	logger *logrus.Entry
}

func NewExportHandler(store CatalogStore, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		store:  store,
		logger: logger.WithField("component", "export-handler"),
	}
}

var exportColumns = []string{"Title", "SKU", "Description", "Variant", "Price", "Stock", "Created At"}

// ExportProducts streams the filtered product set as an Excel workbook, one
// row per product-variant row. Accepts the same query parameters as the list
// view; pagination does not apply.
// @Summary Export products to Excel
// @Tags products
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Case-insensitive title substring"
// @Param variant query string false "Catalog variant ID"
// @Param created_at_after query string false "Creation date lower bound (YYYY-MM-DD)"
// @Param created_at_before query string false "Creation date upper bound (YYYY-MM-DD)"
// @Param price_after query number false "Price range bound"
// @Param price_before query number false "Price range bound"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /products/export [get]
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	filter, filterErr := parseProductFilter(c)
	if filterErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   *filterErr,
		})
		return
	}

	products, err := h.store.ListProductsForExport(tenantID, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load products for export")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	row := 2
	for i := range products {
		p := &products[i]
		created := p.CreatedAt.Format("2006-01-02 15:04")
		if len(p.Variants) == 0 {
			writeExportRow(f, sheetName, row, p.Title, p.SKU, p.Description, "", nil, nil, created)
			row++
			continue
		}
		for _, pv := range p.Variants {
			price := pv.Price
			stock := pv.Stock
			writeExportRow(f, sheetName, row, p.Title, p.SKU, p.Description, pv.VariantTitle, &price, &stock, created)
			row++
		}
	}

	filename := fmt.Sprintf("products_export_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write export workbook")
	}
}

func writeExportRow(f *excelize.File, sheet string, row int, title, sku, description, variantTitle string, price *float64, stock *int, created string) {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sku)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), description)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), variantTitle)
	if price != nil {
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), *price)
	}
	if stock != nil {
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *stock)
	}
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), created)
}
