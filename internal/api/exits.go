package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/erazemk/repuestos/internal/ledger"
	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/search"
	"github.com/erazemk/repuestos/internal/sheet"
	"github.com/erazemk/repuestos/internal/store"
)

// ExitsHandler handles the exit ledger.
type ExitsHandler struct {
	Exits store.ExitRepository
	Now   func() time.Time
}

// List handles GET /api/exits?q=, newest first.
func (h *ExitsHandler) List(w http.ResponseWriter, r *http.Request) {
	exits, err := h.Exits.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list exits", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list exits")
		return
	}
	jsonResponse(w, http.StatusOK, search.FilterExits(exits, r.URL.Query().Get("q")))
}

// Create handles POST /api/exits: it records the exit and decrements stock
// atomically.
func (h *ExitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ExitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaterialID <= 0 {
		jsonFieldErrors(w, "invalid exit", fieldErrors{"materialId": "material is required"})
		return
	}

	exit, err := h.Exits.Withdraw(r.Context(), req, h.Now())
	if err != nil {
		var verrs ledger.ValidationErrors
		switch {
		case errors.Is(err, store.ErrNotFound):
			jsonError(w, http.StatusNotFound, "item not found")
		case errors.As(err, &verrs):
			status := http.StatusBadRequest
			if errors.Is(err, store.ErrInsufficientStock) {
				status = http.StatusConflict
			}
			jsonResponse(w, status, map[string]any{"error": "invalid exit", "fields": verrs})
		case errors.Is(err, store.ErrInsufficientStock):
			jsonError(w, http.StatusConflict, "insufficient stock")
		default:
			Logger(r.Context()).Error("failed to record exit", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to record exit")
		}
		return
	}

	Logger(r.Context()).Info("exit recorded", "user", actor(r.Context()), "item", exit.MaterialID,
		"quantity", exit.Quantity, "remaining", exit.RemainingStock, "area", exit.Area)
	jsonResponse(w, http.StatusCreated, exit)
}

// Delete handles DELETE /api/exits/{id}. Stock is not restored.
func (h *ExitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid exit id")
		return
	}

	if err := h.Exits.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "exit not found")
			return
		}
		Logger(r.Context()).Error("failed to delete exit", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete exit")
		return
	}

	Logger(r.Context()).Info("exit deleted", "user", actor(r.Context()), "exit", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "exit deleted"})
}

// Export handles GET /api/exits/export?q=.
func (h *ExitsHandler) Export(w http.ResponseWriter, r *http.Request) {
	exits, err := h.Exits.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list exits", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export exits")
		return
	}
	exits = search.FilterExits(exits, r.URL.Query().Get("q"))

	workbookResponse(w, sheet.ExitsFilename(h.Now()), func(out io.Writer) error {
		return sheet.WriteExits(out, exits)
	})
}
