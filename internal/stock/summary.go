package stock

import "github.com/erazemk/repuestos/internal/model"

// Summary aggregates stock levels over a set of items. The four bucket
// counts are disjoint and add up to Items.
type Summary struct {
	Items        int `json:"items"`
	TotalStock   int `json:"totalStock"`
	Available    int `json:"available"`
	NeedsReorder int `json:"needsReorder"`
	Locations    int `json:"locations"`

	Normal   int `json:"normal"`
	Low      int `json:"low"`
	Critical int `json:"critical"`
	Zero     int `json:"zero"`
}

// Urgent is the number of items in the critical or zero buckets.
func (s Summary) Urgent() int {
	return s.Critical + s.Zero
}

// Summarize computes a Summary.
func Summarize(items []model.Item) Summary {
	s := Summary{Items: len(items)}
	locations := make(map[string]struct{})

	for i := range items {
		item := &items[i]
		s.TotalStock += item.Stock
		if item.Stock > 0 {
			s.Available++
		}
		if NeedsReorder(item) {
			s.NeedsReorder++
		}
		locations[item.Location] = struct{}{}

		switch Of(item) {
		case Zero:
			s.Zero++
		case Critical:
			s.Critical++
		case Low:
			s.Low++
		default:
			s.Normal++
		}
	}

	s.Locations = len(locations)
	return s
}
