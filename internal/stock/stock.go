// Package stock classifies stock levels against an item's reorder point.
//
// Every consumer (listing filters, the critical-stock notice, dashboard
// counters and chart buckets) goes through Classify or Bucket so that all of
// them agree on what "low" and "critical" mean. Zero stock is treated as a
// subset of critical: Bucket reports it separately, and Level.Urgent is true
// for both.
package stock

import "github.com/erazemk/repuestos/internal/model"

// Level is the stock status of an item.
type Level string

// Stock levels.
const (
	Normal   Level = "normal"
	Low      Level = "low"
	Critical Level = "critical"
	Zero     Level = "zero"
)

// Urgent reports whether the level needs immediate replenishment.
func (l Level) Urgent() bool {
	return l == Critical || l == Zero
}

// EffectiveReorderPoint returns reorderPoint, or the default when it is nil.
func EffectiveReorderPoint(reorderPoint *int) int {
	if reorderPoint == nil {
		return model.DefaultReorderPoint
	}
	return *reorderPoint
}

// CriticalThreshold is half the reorder point, rounded down.
func CriticalThreshold(reorderPoint *int) int {
	return EffectiveReorderPoint(reorderPoint) / 2
}

// Classify maps a stock quantity to Normal, Low or Critical.
func Classify(stock int, reorderPoint *int) Level {
	rp := EffectiveReorderPoint(reorderPoint)
	switch {
	case stock <= rp/2:
		return Critical
	case stock <= rp:
		return Low
	default:
		return Normal
	}
}

// Bucket is Classify with empty stock split out as Zero.
func Bucket(stock int, reorderPoint *int) Level {
	if stock == 0 {
		return Zero
	}
	return Classify(stock, reorderPoint)
}

// Of returns the bucket of an item.
func Of(item *model.Item) Level {
	return Bucket(item.Stock, item.ReorderPoint)
}

// NeedsReorder reports whether the item is at or below its reorder point.
func NeedsReorder(item *model.Item) bool {
	return item.Stock <= EffectiveReorderPoint(item.ReorderPoint)
}
