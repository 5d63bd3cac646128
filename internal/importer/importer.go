// Package importer maps loosely-typed spreadsheet rows onto inventory items.
//
// Spreadsheet exports disagree on header names (and language), so every
// field is looked up through a prioritized alias list. Each row is validated
// on its own: a failing row is reported with its spreadsheet row number and
// never partially imported.
package importer

import (
	"strconv"
	"strings"

	"github.com/erazemk/repuestos/internal/imaging"
	"github.com/erazemk/repuestos/internal/model"
)

// HeaderRows is the number of rows above the first data row.
const HeaderRows = 1

// Row is a spreadsheet row keyed by header name. Values are strings when read
// from a workbook and may be numbers or nil when posted as JSON.
type Row map[string]any

// RowError describes a rejected row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
	Data    Row    `json:"data"`
}

func (e RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Message
}

// Result is the outcome of parsing a batch of rows.
type Result struct {
	Accepted []model.NewItem `json:"accepted"`
	Errors   []RowError      `json:"errors"`
}

// Field aliases, most specific first.
var (
	TypeAliases         = []string{"Tp.M", "Tipo", "Tipo de Material", "tipo", "Type"}
	NameAliases         = []string{"Texto breve mat.(idioma tr.)", "Texto breve material (idioma trabajo)", "Texto breve material", "Nombre", "nombre", "Name"}
	CodeAliases         = []string{"Material", "Codigo", "Cod_Material", "codigo", "Code"}
	LocationAliases     = []string{"Ubic.", "Ubicación", "Ubicacion", "Location", "ubicacion"}
	StockAliases        = []string{"Ctd.stock", "Stock", "Cantidad", "stock"}
	UnitAliases         = []string{"UMB", "Unidad", "Unidad de Medida", "Unit", "unidad", "UM", "U.M."}
	ReorderPointAliases = []string{"Punto pedi", "Punto de Pedido", "Punto Pedido", "Min Stock", "Minimo", "puntoPedido", "ReorderPoint"}
	MaxPointAliases     = []string{"Máx.nivel", "Punto Maximo", "Max Stock", "Maximo", "puntoMaximo", "MaxPoint"}
	PhotoAliases        = []string{"Foto (URL opcional)", "Foto", "URL", "foto", "Photo"}
	CategoryAliases     = []string{"Categoría", "Categoria", "Category"}
)

// Validation messages.
const (
	ErrMissingType     = "material type is required"
	ErrMissingName     = "material name is required"
	ErrMissingCode     = "material code is required"
	ErrInvalidStock    = "stock must be a number greater than or equal to 0"
	ErrMissingLocation = "location is required"
)

// Parse validates rows and partitions them into accepted items and errors.
// Both outputs keep input order.
func Parse(rows []Row) Result {
	res := Result{
		Accepted: []model.NewItem{},
		Errors:   []RowError{},
	}

	for i, row := range rows {
		item, msg := parseRow(row)
		if msg != "" {
			res.Errors = append(res.Errors, RowError{
				Row:     i + 1 + HeaderRows,
				Message: msg,
				Data:    row,
			})
			continue
		}
		res.Accepted = append(res.Accepted, item)
	}

	return res
}

// parseRow returns the mapped item or the first validation failure.
func parseRow(row Row) (model.NewItem, string) {
	typ := lookup(row, TypeAliases)
	if typ == "" {
		return model.NewItem{}, ErrMissingType
	}

	name := lookup(row, NameAliases)
	if name == "" {
		return model.NewItem{}, ErrMissingName
	}

	code := lookup(row, CodeAliases)
	if code == "" {
		return model.NewItem{}, ErrMissingCode
	}

	stock := 0
	if raw := lookup(row, StockAliases); raw != "" {
		n, ok := parseInt(raw)
		if !ok || n < 0 {
			return model.NewItem{}, ErrInvalidStock
		}
		stock = n
	}

	location := lookup(row, LocationAliases)
	if location == "" {
		return model.NewItem{}, ErrMissingLocation
	}

	unit := lookup(row, UnitAliases)
	if unit == "" {
		unit = model.DefaultUnit
	}

	reorderPoint := model.DefaultReorderPoint
	if n, ok := parseInt(lookup(row, ReorderPointAliases)); ok {
		reorderPoint = n
	}

	maxPoint := model.DefaultMaxPoint
	if n, ok := parseInt(lookup(row, MaxPointAliases)); ok {
		maxPoint = n
	}

	return model.NewItem{
		Type:         typ,
		Name:         name,
		Code:         code,
		Location:     location,
		Stock:        stock,
		Unit:         unit,
		ReorderPoint: model.IntPtr(reorderPoint),
		MaxPoint:     model.IntPtr(maxPoint),
		Photo:        photoRef(lookup(row, PhotoAliases)),
		Category:     lookup(row, CategoryAliases),
	}, ""
}

// photoRef keeps a usable photo reference and drops anything else.
func photoRef(s string) string {
	if !imaging.ValidRef(s) {
		return ""
	}
	return s
}

// lookup returns the trimmed value of the first alias present with a
// non-blank value.
func lookup(row Row, aliases []string) string {
	for _, a := range aliases {
		v, ok := row[a]
		if !ok {
			continue
		}
		if s := strings.TrimSpace(toString(v)); s != "" {
			return s
		}
	}
	return ""
}
