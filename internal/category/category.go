// Package category infers an item's category from keywords in its name,
// falling back to its type.
package category

import (
	"sort"
	"strings"

	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/stock"
)

// Category names.
const (
	Fasteners         = "Tornillería y Fijación"
	Transmission      = "Transmisión"
	Lubricants        = "Lubricantes y Fluidos"
	Bearings          = "Rodamientos"
	Seals             = "Sellos y Empaques"
	Filters           = "Filtros"
	Valves            = "Válvulas y Conexiones"
	RotatingEquipment = "Equipos Rotativos"
	Electrical        = "Eléctricos"
	Piping            = "Tuberías y Mangueras"
	RestrictedSpares  = "Repuestos ERSA"
	StandardMaterials = "Materiales UNBW"
	Other             = "Otros"
)

// Rule assigns Category to items for which Match returns true. Name and
// type are passed lowercased.
type Rule struct {
	Match    func(name, typ string) bool
	Category string
}

func nameContains(keywords ...string) func(name, typ string) bool {
	return func(name, _ string) bool {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return true
			}
		}
		return false
	}
}

func typeIs(t string) func(name, typ string) bool {
	return func(_, typ string) bool {
		return typ == t
	}
}

// Rules are evaluated top to bottom; the first match wins.
var Rules = []Rule{
	{nameContains("perno", "tornillo", "tuerca", "arandela", "allen"), Fasteners},
	{nameContains("correa", "banda", "cadena"), Transmission},
	{nameContains("aceite", "grasa", "lubricante", "fluido", "hidraulico"), Lubricants},
	{nameContains("rodamiento", "cojinete", "bearing"), Bearings},
	{nameContains("sello", "empaque", "junta", "o-ring", "gasket"), Seals},
	{nameContains("filtro", "filter"), Filters},
	{nameContains("valvula", "valve", "conexion", "fitting", "acople"), Valves},
	{nameContains("motor", "bomba", "compresor"), RotatingEquipment},
	{nameContains("cable", "alambre", "conductor", "electrico"), Electrical},
	{nameContains("manguera", "tubo", "tuberia", "pipe", "hose"), Piping},
	{typeIs("ersa"), RestrictedSpares},
	{typeIs("unbw"), StandardMaterials},
}

// Infer returns the category for a name and type.
func Infer(name, typ string) string {
	name = strings.ToLower(name)
	typ = strings.ToLower(typ)
	for _, r := range Rules {
		if r.Match(name, typ) {
			return r.Category
		}
	}
	return Other
}

// Of returns the item's explicit category, or the inferred one.
func Of(item *model.Item) string {
	if c := strings.TrimSpace(item.Category); c != "" {
		return c
	}
	return Infer(item.Name, item.Type)
}

// Group is the set of items sharing a category.
type Group struct {
	Category   string       `json:"category"`
	Items      []model.Item `json:"items"`
	TotalStock int          `json:"totalStock"`
	Critical   int          `json:"critical"`
	Low        int          `json:"low"`
}

// GroupItems buckets items by category. Groups are sorted by name and items
// keep their input order.
func GroupItems(items []model.Item) []Group {
	index := make(map[string]int)
	var groups []Group

	for i := range items {
		item := &items[i]
		name := Of(item)
		gi, ok := index[name]
		if !ok {
			gi = len(groups)
			index[name] = gi
			groups = append(groups, Group{Category: name})
		}

		g := &groups[gi]
		g.Items = append(g.Items, *item)
		g.TotalStock += item.Stock
		switch stock.Classify(item.Stock, item.ReorderPoint) {
		case stock.Critical:
			g.Critical++
		case stock.Low:
			g.Low++
		}
	}

	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Category < groups[b].Category
	})
	return groups
}
