package importer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/repuestos/internal/model"
)

func validRow() Row {
	return Row{
		"Tp.M":                         "ERSA",
		"Texto breve mat.(idioma tr.)": "Rodamiento 6205",
		"Material":                     "100234",
		"Ubic.":                        "A-01-02",
		"Ctd.stock":                    "10",
		"UMB":                          "UNI",
		"Punto pedi":                   "3",
		"Máx.nivel":                    "20",
	}
}

func TestParseAcceptsCanonicalHeaders(t *testing.T) {
	res := Parse([]Row{validRow()})
	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Errors)

	item := res.Accepted[0]
	assert.Equal(t, "ERSA", item.Type)
	assert.Equal(t, "Rodamiento 6205", item.Name)
	assert.Equal(t, "100234", item.Code)
	assert.Equal(t, "A-01-02", item.Location)
	assert.Equal(t, 10, item.Stock)
	assert.Equal(t, "UNI", item.Unit)
	require.NotNil(t, item.ReorderPoint)
	assert.Equal(t, 3, *item.ReorderPoint)
	require.NotNil(t, item.MaxPoint)
	assert.Equal(t, 20, *item.MaxPoint)
	assert.Equal(t, "", item.Photo)
}

func TestParseAlternateHeaders(t *testing.T) {
	row := Row{
		"Tipo":      "UNBW",
		"Nombre":    "Filtro de aceite",
		"Codigo":    float64(5501),
		"Ubicacion": "B-2",
		"Cantidad":  float64(4),
		"Categoria": "Filtros",
	}

	res := Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	item := res.Accepted[0]
	assert.Equal(t, "5501", item.Code)
	assert.Equal(t, 4, item.Stock)
	assert.Equal(t, "Filtros", item.Category)
}

func TestParseStringStock(t *testing.T) {
	row := validRow()
	row["Ctd.stock"] = "10"

	res := Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, 10, res.Accepted[0].Stock)
}

func TestParseDefaults(t *testing.T) {
	row := validRow()
	delete(row, "UMB")
	delete(row, "Ctd.stock")
	row["Punto pedi"] = "n/a"
	delete(row, "Máx.nivel")

	res := Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	item := res.Accepted[0]
	assert.Equal(t, model.DefaultUnit, item.Unit)
	assert.Equal(t, 0, item.Stock)
	assert.Equal(t, model.DefaultReorderPoint, *item.ReorderPoint)
	assert.Equal(t, model.DefaultMaxPoint, *item.MaxPoint)
}

func TestParsePhotoReference(t *testing.T) {
	tests := []struct {
		photo string
		want  string
	}{
		{"https://fotos.example.com/100234.jpg", "https://fotos.example.com/100234.jpg"},
		{"data:image/png;base64,iVBORw0KGgo=", "data:image/png;base64,iVBORw0KGgo="},
		{"javascript:alert(1)", ""},
		{"ver carpeta compartida", ""},
		{"ftp://fotos.example.com/a.jpg", ""},
	}

	for _, tt := range tests {
		row := validRow()
		row["Foto"] = tt.photo

		res := Parse([]Row{row})
		require.Len(t, res.Accepted, 1, tt.photo)
		assert.Equal(t, tt.want, res.Accepted[0].Photo, tt.photo)
	}
}

func TestParseZeroReorderPointIsKept(t *testing.T) {
	row := validRow()
	row["Punto pedi"] = float64(0)

	res := Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, 0, *res.Accepted[0].ReorderPoint)
}

func TestParseMissingLocation(t *testing.T) {
	ok := validRow()
	bad := validRow()
	delete(bad, "Ubic.")

	res := Parse([]Row{ok, bad})
	require.Len(t, res.Accepted, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, ErrMissingLocation, res.Errors[0].Message)
	assert.Equal(t, bad, res.Errors[0].Data)
}

func TestParseValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Row)
		want   string
	}{
		{"type first", func(r Row) { r["Tp.M"] = " "; delete(r, "Ubic.") }, ErrMissingType},
		{"name", func(r Row) { delete(r, "Texto breve mat.(idioma tr.)"); r["Ctd.stock"] = "-1" }, ErrMissingName},
		{"code", func(r Row) { r["Material"] = nil }, ErrMissingCode},
		{"negative stock", func(r Row) { r["Ctd.stock"] = "-4"; delete(r, "Ubic.") }, ErrInvalidStock},
		{"non-numeric stock", func(r Row) { r["Ctd.stock"] = "many" }, ErrInvalidStock},
		{"location", func(r Row) { r["Ubic."] = "" }, ErrMissingLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(row)
			res := Parse([]Row{row})
			assert.Empty(t, res.Accepted)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.want, res.Errors[0].Message)
			assert.Equal(t, 2, res.Errors[0].Row)
		})
	}
}

func TestParseFirstPresentAliasWins(t *testing.T) {
	row := validRow()
	row["Nombre"] = "Other name"

	res := Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "Rodamiento 6205", res.Accepted[0].Name)

	row["Texto breve mat.(idioma tr.)"] = "   "
	res = Parse([]Row{row})
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "Other name", res.Accepted[0].Name)
}

func TestParsePartitionPreservesOrder(t *testing.T) {
	var rows []Row
	for i := range 20 {
		row := validRow()
		row["Material"] = fmt.Sprintf("C-%02d", i)
		if i%3 == 0 {
			delete(row, "Ubic.")
		}
		rows = append(rows, row)
	}

	res := Parse(rows)
	assert.Equal(t, len(rows), len(res.Accepted)+len(res.Errors))

	for i := 1; i < len(res.Accepted); i++ {
		assert.Less(t, res.Accepted[i-1].Code, res.Accepted[i].Code)
	}
	for i := 1; i < len(res.Errors); i++ {
		assert.Less(t, res.Errors[i-1].Row, res.Errors[i].Row)
	}
}

func TestParseEmpty(t *testing.T) {
	res := Parse(nil)
	assert.NotNil(t, res.Accepted)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Accepted)
	assert.Empty(t, res.Errors)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "12", toString(float64(12)))
	assert.Equal(t, "12.5", toString(12.5))
	assert.Equal(t, "7", toString(json.Number("7")))
	assert.Equal(t, "true", toString(true))
	assert.Equal(t, "abc", toString("abc"))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"10", 10, true},
		{" 7", 7, true},
		{"12.7", 12, true},
		{"5 units", 5, true},
		{"-3", -3, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRowErrorString(t *testing.T) {
	err := RowError{Row: 4, Message: ErrMissingCode}
	assert.Equal(t, "row 4: material code is required", err.Error())
}
