// Package sheet reads and writes the inventory spreadsheets: the import
// workbook, its blank template, and the zero-stock and exit exports.
package sheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/repuestos/internal/category"
	"github.com/erazemk/repuestos/internal/importer"
	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/stock"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	TemplateSheet  = "Plantilla Inventario"
	ZeroStockSheet = "Stock Cero"
	ExitsSheet     = "Salidas"

	TemplateFilename = "plantilla_inventario.xlsx"
)

// TemplateHeaders are the canonical import headers, in column order.
var TemplateHeaders = []string{
	"Tp.M",
	"Texto breve mat.(idioma tr.)",
	"Material",
	"Ubic.",
	"Ctd.stock",
	"UMB",
	"Punto pedi",
	"Máx.nivel",
	"Foto (URL opcional)",
}

var templateExamples = [][]any{
	{model.ItemTypeRestricted, "Rodamiento rígido de bolas 6205-2RS", "100234", "A-01-02", 12, "UNI", 4, 20, ""},
	{model.ItemTypeStandard, "Perno hexagonal M12x50 galvanizado", "200871", "B-03-01", 150, "UNI", 50, 400, ""},
}

// ZeroStockHeaders are the columns of the zero-stock export.
var ZeroStockHeaders = []string{
	"Tipo", "Nombre", "Código", "Ubicación", "Stock", "Unidad", "Punto de Pedido", "Punto Máximo", "Categoría",
}

// ExitHeaders are the columns of the exit ledger export.
var ExitHeaders = []string{
	"Fecha", "Hora", "Código", "Material", "Tipo", "Ubicación", "Cantidad", "Stock Restante",
	"Nombre", "Apellido", "Área", "CECO", "Código SAP", "Orden de Trabajo",
}

// ReadRows parses the first sheet of a workbook. The first row holds the
// headers; every following non-blank row becomes a Row keyed by header.
func ReadRows(r io.Reader) ([]importer.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values keep number formats such as #,##0 from mangling quantities.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	out := []importer.Row{}
	if len(rows) < 2 {
		return out, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	for _, cells := range rows[1:] {
		row := importer.Row{}
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			row[header[i]] = cell
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}

	return out, nil
}

// WriteTemplate writes an import template with the canonical headers and
// two example rows.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeHeader(f, TemplateSheet, TemplateHeaders, "#D9E1F2"); err != nil {
		return err
	}
	for i, values := range templateExamples {
		if err := writeRow(f, TemplateSheet, i+2, values); err != nil {
			return err
		}
	}
	setWidths(f, TemplateSheet, []float64{8, 40, 12, 12, 10, 8, 10, 10, 30})

	return write(f, w)
}

// WriteZeroStock writes every item with no stock left.
func WriteZeroStock(w io.Writer, items []model.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ZeroStockSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeHeader(f, ZeroStockSheet, ZeroStockHeaders, "#F8CBAD"); err != nil {
		return err
	}

	row := 2
	for i := range items {
		item := &items[i]
		if stock.Bucket(item.Stock, item.ReorderPoint) != stock.Zero {
			continue
		}
		values := []any{
			item.Type, item.Name, item.Code, item.Location, item.Stock, item.Unit,
			stock.EffectiveReorderPoint(item.ReorderPoint), optional(item.MaxPoint), category.Of(item),
		}
		if err := writeRow(f, ZeroStockSheet, row, values); err != nil {
			return err
		}
		row++
	}
	setWidths(f, ZeroStockSheet, []float64{8, 40, 12, 12, 8, 8, 16, 14, 24})

	return write(f, w)
}

// ZeroStockFilename names a zero-stock export taken at now.
func ZeroStockFilename(now time.Time) string {
	return "stock_cero_" + now.Format("2006-01-02") + ".xlsx"
}

// WriteExits writes the exit ledger in the given order.
func WriteExits(w io.Writer, exits []model.Exit) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExitsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeHeader(f, ExitsSheet, ExitHeaders, "#E2EFDA"); err != nil {
		return err
	}

	for i, e := range exits {
		values := []any{
			e.ExitDate, e.ExitTime, e.MaterialCode, e.MaterialName, e.MaterialType, e.MaterialLocation,
			e.Quantity, e.RemainingStock, e.PersonName, e.PersonLastName, e.Area,
			e.CostCenter, e.SAPCode, e.WorkOrder,
		}
		if err := writeRow(f, ExitsSheet, i+2, values); err != nil {
			return err
		}
	}
	setWidths(f, ExitsSheet, []float64{12, 10, 12, 36, 8, 12, 10, 14, 16, 16, 16, 12, 12, 16})

	return write(f, w)
}

// ExitsFilename names an exit ledger export taken at now.
func ExitsFilename(now time.Time) string {
	return "salidas_" + now.Format("2006-01-02") + ".xlsx"
}

func writeHeader(f *excelize.File, sheet string, headers []string, fill string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header %q: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("styling header %q: %w", h, err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", row, err)
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

func write(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// optional renders an unset threshold as an empty cell.
func optional(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
