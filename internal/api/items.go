package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erazemk/repuestos/internal/category"
	"github.com/erazemk/repuestos/internal/imaging"
	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/search"
	"github.com/erazemk/repuestos/internal/stock"
	"github.com/erazemk/repuestos/internal/store"
)

// ClearConfirmation must be sent to delete every item at once.
const ClearConfirmation = "BORRAR TODO"

// ItemsHandler handles the inventory catalogue.
type ItemsHandler struct {
	Items          store.ItemRepository
	Exits          store.ExitRepository
	MaxUploadBytes int64
}

// itemView is an item as returned by the API, with its derived state.
type itemView struct {
	model.Item
	Level             stock.Level `json:"level"`
	CriticalThreshold int         `json:"criticalThreshold"`
	CategoryName      string      `json:"categoryName"`
}

func newItemView(item *model.Item) itemView {
	return itemView{
		Item:              *item,
		Level:             stock.Of(item),
		CriticalThreshold: stock.CriticalThreshold(item.ReorderPoint),
		CategoryName:      category.Of(item),
	}
}

func newItemViews(items []model.Item) []itemView {
	views := make([]itemView, len(items))
	for i := range items {
		views[i] = newItemView(&items[i])
	}
	return views
}

type setStockRequest struct {
	Stock *int `json:"stock"`
}

type setCategoryRequest struct {
	Category string `json:"category"`
}

type clearRequest struct {
	Confirm string `json:"confirm"`
}

// validateItem checks a create or edit payload.
func validateItem(n *model.NewItem) fieldErrors {
	n.Type = strings.TrimSpace(n.Type)
	n.Name = strings.TrimSpace(n.Name)
	n.Code = strings.TrimSpace(n.Code)
	n.Location = strings.TrimSpace(n.Location)
	n.Unit = strings.TrimSpace(n.Unit)
	n.Category = strings.TrimSpace(n.Category)

	errs := fieldErrors{}
	if n.Type == "" {
		errs["type"] = "type is required"
	}
	if n.Name == "" {
		errs["name"] = "name is required"
	}
	if n.Code == "" {
		errs["code"] = "code is required"
	}
	if n.Location == "" {
		errs["location"] = "location is required"
	}
	if n.Stock < 0 {
		errs["stock"] = "stock must be greater than or equal to 0"
	}
	if n.ReorderPoint != nil && *n.ReorderPoint < 0 {
		errs["reorderPoint"] = "reorder point must be greater than or equal to 0"
	}
	if n.MaxPoint != nil && *n.MaxPoint < 0 {
		errs["maxPoint"] = "max point must be greater than or equal to 0"
	}
	if !imaging.ValidRef(n.Photo) {
		errs["photo"] = "photo must be an http(s) URL or an image data URI"
	}
	return errs
}

// List handles GET /api/items?q=&filter=.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := stock.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Items.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	items = search.Filter(items, r.URL.Query().Get("q"), filter)
	jsonResponse(w, http.StatusOK, newItemViews(items))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateItem(&req); len(errs) > 0 {
		jsonFieldErrors(w, "invalid item", errs)
		return
	}

	item, err := h.Items.Insert(r.Context(), req)
	if err != nil {
		Logger(r.Context()).Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	Logger(r.Context()).Info("item created", "user", actor(r.Context()), "item", item.ID, "code", item.Code)
	jsonResponse(w, http.StatusCreated, newItemView(item))
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Items.Get(r.Context(), id)
	if err != nil {
		Logger(r.Context()).Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, newItemView(item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req model.NewItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := validateItem(&req); len(errs) > 0 {
		jsonFieldErrors(w, "invalid item", errs)
		return
	}

	item, err := h.Items.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, "failed to update item", err)
		return
	}

	Logger(r.Context()).Info("item updated", "user", actor(r.Context()), "item", id)
	jsonResponse(w, http.StatusOK, newItemView(item))
}

// SetStock handles PUT /api/items/{id}/stock.
func (h *ItemsHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setStockRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stock == nil || *req.Stock < 0 {
		jsonFieldErrors(w, "invalid stock", fieldErrors{"stock": "stock must be greater than or equal to 0"})
		return
	}

	if err := h.Items.SetStock(r.Context(), id, *req.Stock); err != nil {
		h.writeError(w, r, "failed to update stock", err)
		return
	}

	Logger(r.Context()).Info("stock set", "user", actor(r.Context()), "item", id, "stock", *req.Stock)
	h.respondItem(w, r, id)
}

// SetCategory handles PUT /api/items/{id}/category. An empty category falls
// back to the inferred one.
func (h *ItemsHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Items.SetCategory(r.Context(), id, strings.TrimSpace(req.Category)); err != nil {
		h.writeError(w, r, "failed to update category", err)
		return
	}

	Logger(r.Context()).Info("category set", "user", actor(r.Context()), "item", id, "category", req.Category)
	h.respondItem(w, r, id)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Items.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "failed to delete item", err)
		return
	}

	Logger(r.Context()).Info("item deleted", "user", actor(r.Context()), "item", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Clear handles DELETE /api/items. The body must carry the confirmation
// phrase.
func (h *ItemsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Confirm != ClearConfirmation {
		jsonFieldErrors(w, "confirmation required", fieldErrors{"confirm": "type " + ClearConfirmation + " to confirm"})
		return
	}

	n, err := h.Items.Clear(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to clear items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to clear items")
		return
	}

	Logger(r.Context()).Warn("all items cleared", "user", actor(r.Context()), "count", n)
	jsonResponse(w, http.StatusOK, map[string]int64{"deleted": n})
}

// UploadPhoto handles PUT /api/items/{id}/photo with a multipart "photo" file.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			jsonError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid image")
		return
	}

	if err := h.Items.SetPhoto(r.Context(), id, photo.DataURI()); err != nil {
		h.writeError(w, r, "failed to save photo", err)
		return
	}

	Logger(r.Context()).Info("photo uploaded", "user", actor(r.Context()), "item", id,
		"width", photo.Width, "height", photo.Height, "bytes", len(photo.Data))
	h.respondItem(w, r, id)
}

// History handles GET /api/items/{id}/exits.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	exits, err := h.Exits.ListByItem(r.Context(), id)
	if err != nil {
		Logger(r.Context()).Error("failed to get item exits", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item exits")
		return
	}
	jsonResponse(w, http.StatusOK, exits)
}

// respondItem replies with the current state of an item.
func (h *ItemsHandler) respondItem(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.Items.Get(r.Context(), id)
	if err != nil || item == nil {
		Logger(r.Context()).Error("failed to reload item", "item", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to reload item")
		return
	}
	jsonResponse(w, http.StatusOK, newItemView(item))
}

// writeError maps repository errors on a single item to a response.
func (h *ItemsHandler) writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	Logger(r.Context()).Error(message, "error", err)
	jsonError(w, http.StatusInternalServerError, message)
}
