// Package ledger validates stock withdrawals and builds exit records.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/erazemk/repuestos/internal/model"
)

// Date and time layouts of an exit record.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// MsgExceedsStock is the quantity error when a request asks for more than
// the item holds.
const MsgExceedsStock = "quantity exceeds available stock"

// ValidationErrors maps a request field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + v[f]
	}
	return "invalid exit: " + strings.Join(msgs, "; ")
}

// Validate checks a withdrawal request against the item it draws from.
// It returns nil or a non-empty ValidationErrors.
func Validate(req model.ExitRequest, item *model.Item) error {
	errs := ValidationErrors{}

	if strings.TrimSpace(req.PersonName) == "" {
		errs["personName"] = "name is required"
	}
	if strings.TrimSpace(req.PersonLastName) == "" {
		errs["personLastName"] = "last name is required"
	}
	if strings.TrimSpace(req.Area) == "" {
		errs["area"] = "area is required"
	}

	switch {
	case req.Quantity <= 0:
		errs["quantity"] = "quantity must be greater than 0"
	case item != nil && req.Quantity > item.Stock:
		errs["quantity"] = MsgExceedsStock
	}

	if item != nil && item.IsRestricted() && strings.TrimSpace(req.WorkOrder) == "" {
		errs["workOrder"] = "work order is required for " + model.ItemTypeRestricted + " materials"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NewExit builds the ledger entry for a validated request. The item is only
// read: persisting the decremented stock is up to the caller.
func NewExit(req model.ExitRequest, item *model.Item, now time.Time) model.Exit {
	return model.Exit{
		MaterialID:       item.ID,
		MaterialName:     item.Name,
		MaterialCode:     item.Code,
		MaterialLocation: item.Location,
		MaterialType:     item.Type,
		Quantity:         req.Quantity,
		RemainingStock:   item.Stock - req.Quantity,
		PersonName:       strings.TrimSpace(req.PersonName),
		PersonLastName:   strings.TrimSpace(req.PersonLastName),
		Area:             strings.TrimSpace(req.Area),
		CostCenter:       strings.TrimSpace(req.CostCenter),
		SAPCode:          strings.TrimSpace(req.SAPCode),
		WorkOrder:        strings.TrimSpace(req.WorkOrder),
		ExitDate:         now.Format(DateLayout),
		ExitTime:         now.Format(TimeLayout),
		CreatedAt:        now,
	}
}

// Stats counts exits overall, on the day of now, and over the seven days
// ending on it.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	LastWeek int `json:"lastWeek"`
	Units    int `json:"units"`
}

// Summarize computes Stats from exit dates.
func Summarize(exits []model.Exit, now time.Time) Stats {
	today := now.Format(DateLayout)
	weekStart := now.AddDate(0, 0, -6).Format(DateLayout)

	var s Stats
	for _, e := range exits {
		s.Total++
		s.Units += e.Quantity
		if e.ExitDate == today {
			s.Today++
		}
		if e.ExitDate >= weekStart && e.ExitDate <= today {
			s.LastWeek++
		}
	}
	return s
}
