package api

import (
	"io"
	"net/http"
	"time"

	"github.com/erazemk/repuestos/internal/importer"
	"github.com/erazemk/repuestos/internal/model"
	"github.com/erazemk/repuestos/internal/sheet"
	"github.com/erazemk/repuestos/internal/store"
)

const workbookContentType = sheet.ContentType

// ImportHandler handles spreadsheet import and export.
type ImportHandler struct {
	Items          store.ItemRepository
	MaxUploadBytes int64
	Now            func() time.Time
}

type importResponse struct {
	Accepted []model.NewItem     `json:"accepted"`
	Errors   []importer.RowError `json:"errors"`
	Imported int                 `json:"imported"`
}

// Preview handles POST /api/import/preview: the workbook is parsed and
// validated but nothing is stored.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	res, ok := h.parse(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, importResponse{Accepted: res.Accepted, Errors: res.Errors})
}

// Import handles POST /api/import: valid rows are inserted in one batch and
// invalid rows are reported.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	res, ok := h.parse(w, r)
	if !ok {
		return
	}

	imported := 0
	if len(res.Accepted) > 0 {
		items, err := h.Items.InsertBulk(r.Context(), res.Accepted)
		if err != nil {
			Logger(r.Context()).Error("failed to import items", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to import items")
			return
		}
		imported = len(items)
	}

	Logger(r.Context()).Info("items imported", "user", actor(r.Context()),
		"imported", imported, "rejected", len(res.Errors))
	jsonResponse(w, http.StatusOK, importResponse{
		Accepted: res.Accepted,
		Errors:   res.Errors,
		Imported: imported,
	})
}

// parse reads the multipart "file" workbook and runs the import pipeline.
func (h *ImportHandler) parse(w http.ResponseWriter, r *http.Request) (importer.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
		} else {
			jsonError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return importer.Result{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "workbook file required")
		return importer.Result{}, false
	}
	defer file.Close()

	rows, err := sheet.ReadRows(file)
	if err != nil {
		Logger(r.Context()).Warn("unreadable workbook", "file", header.Filename, "error", err)
		jsonError(w, http.StatusBadRequest, "could not read workbook")
		return importer.Result{}, false
	}

	return importer.Parse(rows), true
}

// Template handles GET /api/import/template.
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	workbookResponse(w, sheet.TemplateFilename, sheet.WriteTemplate)
}

// ZeroStock handles GET /api/export/zero-stock.
func (h *ImportHandler) ZeroStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context())
	if err != nil {
		Logger(r.Context()).Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export items")
		return
	}

	workbookResponse(w, sheet.ZeroStockFilename(h.Now()), func(out io.Writer) error {
		return sheet.WriteZeroStock(out, items)
	})
}
