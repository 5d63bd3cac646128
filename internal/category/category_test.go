package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/repuestos/internal/model"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		want string
	}{
		{"Tornillo M8", "UNBW", Fasteners},
		{"TUERCA hexagonal", "", Fasteners},
		{"Llave Allen 5mm", "", Fasteners},
		{"Correa Industrial", "ERSA", Transmission},
		{"Aceite hidraulico 68", "", Lubricants},
		{"Rodamiento 6205", "", Bearings},
		{"O-Ring 20mm", "", Seals},
		{"Filtro de aire", "", Filters},
		{"Valvula de bola", "", Valves},
		{"Motor 5HP", "", RotatingEquipment},
		{"Cable 3x2.5", "", Electrical},
		{"Manguera 1/2", "", Piping},
		{"Repuesto genérico", "ERSA", RestrictedSpares},
		{"Repuesto genérico", "unbw", StandardMaterials},
		{"Repuesto genérico", "OTRO", Other},
		{"", "", Other},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Infer(tt.name, tt.typ), "Infer(%q, %q)", tt.name, tt.typ)
	}
}

func TestInferRuleOrder(t *testing.T) {
	// Fasteners come before rotating equipment.
	assert.Equal(t, Fasteners, Infer("Perno de motor", ""))
	// Keyword rules come before type rules.
	assert.Equal(t, Filters, Infer("Filtro", "ERSA"))
}

func TestOfPrefersExplicitCategory(t *testing.T) {
	item := &model.Item{Name: "Tornillo", Category: "Custom"}
	assert.Equal(t, "Custom", Of(item))

	item.Category = "  "
	assert.Equal(t, Fasteners, Of(item))
}

func TestGroupItems(t *testing.T) {
	items := []model.Item{
		{ID: 1, Name: "Tornillo", Stock: 1},
		{ID: 2, Name: "Filtro", Stock: 100},
		{ID: 3, Name: "Tuerca", Stock: 4},
		{ID: 4, Name: "Tuerca", Stock: 0, Category: "Otros"},
	}

	groups := GroupItems(items)
	require.Len(t, groups, 3)

	assert.Equal(t, Filters, groups[0].Category)
	assert.Equal(t, Other, groups[1].Category)
	assert.Equal(t, Fasteners, groups[2].Category)

	fasteners := groups[2]
	require.Len(t, fasteners.Items, 2)
	assert.Equal(t, int64(1), fasteners.Items[0].ID)
	assert.Equal(t, int64(3), fasteners.Items[1].ID)
	assert.Equal(t, 5, fasteners.TotalStock)
	assert.Equal(t, 1, fasteners.Critical)
	assert.Equal(t, 1, fasteners.Low)

	assert.Equal(t, 1, groups[1].Critical, "zero stock counts as critical")
}
