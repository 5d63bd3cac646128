package model

// Item is a spare part held in the storeroom.
type Item struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Location     string `json:"location"`
	Stock        int    `json:"stock"`
	Unit         string `json:"unit"`
	ReorderPoint *int   `json:"reorderPoint,omitempty"`
	MaxPoint     *int   `json:"maxPoint,omitempty"`
	Photo        string `json:"photo,omitempty"`
	Category     string `json:"category,omitempty"`
}

// NewItem is the payload for creating an item (single insert or import).
type NewItem struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Location     string `json:"location"`
	Stock        int    `json:"stock"`
	Unit         string `json:"unit"`
	ReorderPoint *int   `json:"reorderPoint,omitempty"`
	MaxPoint     *int   `json:"maxPoint,omitempty"`
	Photo        string `json:"photo,omitempty"`
	Category     string `json:"category,omitempty"`
}

// Item types.
const (
	// ItemTypeRestricted items need a work order on every exit.
	ItemTypeRestricted = "ERSA"
	ItemTypeStandard   = "UNBW"
)

// Defaults applied when a field is missing.
const (
	DefaultReorderPoint = 5
	DefaultMaxPoint     = 0
	DefaultUnit         = "UNI"
)

// IsRestricted reports whether exits of this item require a work order.
func (i *Item) IsRestricted() bool {
	return i.Type == ItemTypeRestricted
}

// WithDefaults fills unset optional fields the same way a single insert does.
func (n NewItem) WithDefaults() NewItem {
	if n.Unit == "" {
		n.Unit = DefaultUnit
	}
	if n.ReorderPoint == nil {
		n.ReorderPoint = IntPtr(DefaultReorderPoint)
	}
	if n.MaxPoint == nil {
		n.MaxPoint = IntPtr(DefaultMaxPoint)
	}
	return n
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
