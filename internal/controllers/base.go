package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/compress"
	"github.com/drstein77/inventory/internal/middleware"
	"github.com/drstein77/inventory/internal/models"
	"github.com/drstein77/inventory/internal/storage"
)

const exportFileName = "items.csv"

// Storage interface for catalog operations
type Storage interface {
	Items() []models.Item
	Lines() []string
	Filter(minPrice float64, category *catalog.Category) []models.Item
	Counts() catalog.Counts
	Scaled(factor float64) []models.Item
	Summary() models.ProcessResponse
	ApplyDiscount(ctx context.Context, category catalog.Category, percentage float64) (int, error)
	Add(ctx context.Context, items ...models.Item) error
	Ping(ctx context.Context) error
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	storage        Storage
	log            Log
	maxArchiveSize int64
}

// NewBaseController creates a new BaseController instance
func NewBaseController(storage Storage, log Log) *BaseController {
	return &BaseController{
		storage:        storage,
		log:            log,
		maxArchiveSize: compress.DefaultMaxArchiveSize,
	}
}

// SetMaxArchiveSize bounds the import body and the CSV inside it.
func (h *BaseController) SetMaxArchiveSize(n int64) {
	if n > 0 {
		h.maxArchiveSize = n
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/api/v0/ping", h.ping)

	r.Route("/api/v0/items", func(r chi.Router) {
		r.Get("/", h.getItems)
		r.Post("/", h.postItem)
		r.Get("/lines", h.getLines)
		r.Get("/scaled", h.getScaled)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ArchiveTypeMiddleware)
			r.Get("/export", h.exportItems)
			r.Post("/import", h.importItems)
		})
	})

	r.Post("/api/v0/discounts", h.postDiscount)
	r.Get("/api/v0/categories/counts", h.getCounts)

	return r
}

func (h *BaseController) getItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("min_price") == "" && query.Get("category") == "" {
		h.writeJSON(w, http.StatusOK, h.storage.Items())
		return
	}

	// Without min_price every non-negative price passes.
	minPrice := -1.0
	if raw := query.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid min_price: %v", err), http.StatusBadRequest)
			return
		}
		minPrice = v
	}

	var category *catalog.Category
	if raw := query.Get("category"); raw != "" {
		c, err := catalog.ParseCategory(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category = &c
	}

	h.writeJSON(w, http.StatusOK, h.storage.Filter(minPrice, category))
}

func (h *BaseController) postItem(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req models.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("decode item: %w", err))
		return
	}
	item, err := req.Item()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.storage.Add(r.Context(), item); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *BaseController) getLines(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range h.storage.Lines() {
		fmt.Fprintln(w, line)
	}
}

func (h *BaseController) getScaled(w http.ResponseWriter, r *http.Request) {
	factor, err := strconv.ParseFloat(r.URL.Query().Get("factor"), 64)
	if err != nil || math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		http.Error(w, "factor must be a finite non-negative number", http.StatusBadRequest)
		return
	}

	items := h.storage.Scaled(factor)
	for _, item := range items {
		if math.IsInf(item.Price, 0) {
			h.writeError(w, fmt.Errorf("%w: %s overflows when scaled by %v", catalog.ErrInvalidPrice, item.Name, factor))
			return
		}
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *BaseController) postDiscount(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req models.DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("decode discount: %w", err))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	n, err := h.storage.ApplyDiscount(r.Context(), *req.Category, *req.Percentage)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.DiscountResponse{
		Category:   *req.Category,
		Percentage: *req.Percentage,
		Discounted: n,
	})
}

func (h *BaseController) getCounts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.NewCategoryCounts(h.storage.Counts()))
}

func (h *BaseController) exportItems(w http.ResponseWriter, r *http.Request) {
	kind := middleware.ArchiveType(r.Context())

	var buf bytes.Buffer
	if err := compress.WriteItems(kind, &buf, exportFileName, h.storage.Items()); err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", compress.ContentType(kind))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=items.%s", kind))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error("Failed to write export", zap.Error(err))
	}
}

func (h *BaseController) importItems(w http.ResponseWriter, r *http.Request) {
	kind := middleware.ArchiveType(r.Context())
	body := http.MaxBytesReader(w, r.Body, h.maxArchiveSize)
	defer body.Close()

	items, err := compress.ReadItems(kind, body, h.maxArchiveSize)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.Is(err, compress.ErrArchiveTooLarge) || errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("failed to import items: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.storage.Add(r.Context(), items...); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.storage.Summary())
}

func (h *BaseController) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil && !errors.Is(err, storage.ErrNoKeeper) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeJSON encodes v before touching the response, so an encoding failure
// still reaches the client as a 500.
func (h *BaseController) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.writeError(w, fmt.Errorf("encode response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps validation failures to 400 and everything else to 500.
func (h *BaseController) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, catalog.ErrInvalidDiscount),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, models.ErrMissingField),
		errors.Is(err, compress.ErrUnsupportedArchive),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		status = http.StatusBadRequest
	default:
		h.log.Error("Request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}
