package api

import (
	"net/http"
	"time"

	"github.com/erazemk/repuestos/internal/category"
	"github.com/erazemk/repuestos/internal/ledger"
	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/stock"
	"github.com/erazemk/repuestos/internal/store"
)

// Dashboard list lengths.
const (
	CriticalPreview = 5
	RecentExits     = 5
)

// DashboardHandler serves aggregated views over items and exits.
type DashboardHandler struct {
	Items store.ItemRepository
	Exits store.ExitRepository
	Now   func() time.Time
}

type chartBucket struct {
	Level stock.Level `json:"level"`
	Count int         `json:"count"`
}

type criticalList struct {
	Items     []itemView `json:"items"`
	Total     int        `json:"total"`
	Remaining int        `json:"remaining"`
}

type dashboardResponse struct {
	Summary  stock.Summary  `json:"summary"`
	Chart    []chartBucket  `json:"chart"`
	Critical criticalList   `json:"critical"`
	Exits    ledger.Stats   `json:"exits"`
	Recent   []model.Exit   `json:"recentExits"`
	Groups   []groupSummary `json:"categories"`
}

type groupSummary struct {
	Category   string `json:"category"`
	Items      int    `json:"items"`
	TotalStock int    `json:"totalStock"`
	Critical   int    `json:"critical"`
	Low        int    `json:"low"`
}

// Dashboard handles GET /api/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	exits, err := h.Exits.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list exits", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	summary := stock.Summarize(items)

	resp := dashboardResponse{
		Summary: summary,
		Chart: []chartBucket{
			{Level: stock.Normal, Count: summary.Normal},
			{Level: stock.Low, Count: summary.Low},
			{Level: stock.Critical, Count: summary.Critical},
			{Level: stock.Zero, Count: summary.Zero},
		},
		Critical: newCriticalList(items),
		Exits:    ledger.Summarize(exits, h.Now()),
		Recent:   exits[:min(len(exits), RecentExits)],
	}

	for _, g := range category.GroupItems(items) {
		resp.Groups = append(resp.Groups, groupSummary{
			Category:   g.Category,
			Items:      len(g.Items),
			TotalStock: g.TotalStock,
			Critical:   g.Critical,
			Low:        g.Low,
		})
	}
	if resp.Groups == nil {
		resp.Groups = []groupSummary{}
	}

	jsonResponse(w, http.StatusOK, resp)
}

// newCriticalList lists the first urgent items and how many more there are.
func newCriticalList(items []model.Item) criticalList {
	urgent := stock.Select(items, stock.FilterCritical)

	list := criticalList{
		Items: newItemViews(urgent[:min(len(urgent), CriticalPreview)]),
		Total: len(urgent),
	}
	list.Remaining = list.Total - len(list.Items)
	return list
}

// Categories handles GET /api/categories.
func (h *DashboardHandler) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	type categoryGroup struct {
		category.Group
		Items []itemView `json:"items"`
	}

	groups := category.GroupItems(items)
	out := make([]categoryGroup, len(groups))
	for i, g := range groups {
		out[i] = categoryGroup{Group: g, Items: newItemViews(g.Items)}
	}
	jsonResponse(w, http.StatusOK, out)
}
