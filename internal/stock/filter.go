package stock

import (
	"fmt"

	"github.com/erazemk/repuestos/internal/model"
)

// Filter selects items by stock level.
type Filter string

// Filters.
const (
	FilterAll      Filter = "all"
	FilterLow      Filter = "low"
	FilterCritical Filter = "critical"
	FilterZero     Filter = "zero"
)

// ParseFilter parses a filter name. An empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterLow, FilterCritical, FilterZero:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown stock filter %q", s)
	}
}

// Match reports whether the item passes the filter. The critical filter
// includes zero-stock items.
func (f Filter) Match(item *model.Item) bool {
	level := Of(item)
	switch f {
	case FilterLow:
		return level == Low
	case FilterCritical:
		return level.Urgent()
	case FilterZero:
		return level == Zero
	default:
		return true
	}
}

// Select returns the items that pass the filter, in order.
func Select(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for i := range items {
		if f.Match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
