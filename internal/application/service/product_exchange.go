package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the stock export encoding
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Stock"
)

var exportHeader = []string{"Code", "Name", "Category", "Price", "Current Stock", "Reorder Level", "Stock Value", "Low Stock"}

// ExportFile is a rendered stock summary ready to be streamed
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseExportFormat accepts "csv" or "xlsx", case-insensitively
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", apperror.NewBadRequestError("Unsupported export format: " + s)
}

// ExportProducts renders every product matching params as a stock summary
func (s *ProductService) ExportProducts(ctx context.Context, params *repository.ProductFilterParams, format ExportFormat, now time.Time) (*ExportFile, error) {
	products, err := s.productRepo.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(products))
	for i := range products {
		rows = append(rows, exportRow(&products[i]))
	}

	base := "stock-" + now.Format("20060102-150405")
	switch format {
	case ExportXLSX:
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".xlsx", ContentType: xlsxContentType, Data: data}, nil
	default:
		data, err := renderCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: base + ".csv", ContentType: csvContentType, Data: data}, nil
	}
}

func exportRow(p *entity.Product) []string {
	low := "no"
	if p.IsLowStock() {
		low = "yes"
	}
	return []string{
		p.Code,
		p.Name,
		p.Category,
		p.Price.StringFixed(2),
		strconv.Itoa(p.CurrentStock),
		strconv.Itoa(p.ReorderLevel),
		p.StockValue().StringFixed(2),
		low,
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// numeric columns are written as numbers so spreadsheets can sum them
		for _, j := range []int{3, 4, 5, 6} {
			if n, err := strconv.ParseFloat(row[j], 64); err == nil {
				values[j] = n
			}
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseProductImport reads import rows from a .csv or .xlsx upload. The
// first row must be a header naming the columns; unknown columns are ignored.
func ParseProductImport(r io.Reader, filename string) ([]ImportProductRow, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		recs, err := reader.ReadAll()
		if err != nil {
			return nil, apperror.NewBadRequestError("Could not read CSV file: " + err.Error())
		}
		records = recs
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, apperror.NewBadRequestError("Could not read Excel file: " + err.Error())
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperror.NewBadRequestError("Excel file has no sheets")
		}
		recs, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, apperror.NewBadRequestError("Could not read sheet: " + err.Error())
		}
		records = recs
	default:
		return nil, apperror.NewBadRequestError("Only .csv and .xlsx files can be imported")
	}

	if len(records) == 0 {
		return nil, apperror.NewBadRequestError("Import file is empty")
	}

	columns := importColumns(records[0])
	if _, ok := columns["name"]; !ok {
		return nil, apperror.NewBadRequestError("Import file needs a name column")
	}

	rows := make([]ImportProductRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := importRow(rec, columns)
		row.Line = i + 2
		rows = append(rows, row)
	}
	return rows, nil
}

var importAliases = map[string]string{
	"name":          "name",
	"product":       "name",
	"code":          "code",
	"sku":           "code",
	"category":      "category",
	"price":         "price",
	"unit price":    "price",
	"stock":         "current_stock",
	"current stock": "current_stock",
	"current_stock": "current_stock",
	"quantity":      "current_stock",
	"reorder level": "reorder_level",
	"reorder_level": "reorder_level",
}

func importColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, h := range header {
		if key, ok := importAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := columns[key]; !dup {
				columns[key] = i
			}
		}
	}
	return columns
}

// importRow maps one record onto the known columns. A cell that does not
// parse is reported on the row instead of failing the whole upload.
func importRow(rec []string, columns map[string]int) ImportProductRow {
	cell := func(key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	row := ImportProductRow{
		Name:     cell("name"),
		Code:     cell("code"),
		Category: cell("category"),
	}

	if v := cell("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			row.Invalid = &ImportRowError{Field: "price", Message: fmt.Sprintf("Invalid price %q", v)}
			return row
		}
		row.Price = price
	}
	if v := cell("current_stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			row.Invalid = &ImportRowError{Field: "current_stock", Message: fmt.Sprintf("Invalid stock %q", v)}
			return row
		}
		row.CurrentStock = stock
	}
	if v := cell("reorder_level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			row.Invalid = &ImportRowError{Field: "reorder_level", Message: fmt.Sprintf("Invalid reorder level %q", v)}
			return row
		}
		row.ReorderLevel = level
	}
	return row
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
