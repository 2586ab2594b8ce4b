package items

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/svclab/itemsvc/internal/cache"
	"github.com/svclab/itemsvc/internal/errs"
	"github.com/svclab/itemsvc/internal/httputil"
	"github.com/svclab/itemsvc/internal/observability"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	listCacheKey = "items:list"
)

// Handler serves the item CRUD endpoints.
type Handler struct {
	store  *Store
	cache  *cache.Cache
	logger *observability.Logger
}

// NewHandler creates an item handler. The cache may be nil, in which
// case the listing is always served from the store.
func NewHandler(store *Store, c *cache.Cache, logger *observability.Logger) *Handler {
	return &Handler{store: store, cache: c, logger: logger}
}

// Register attaches the item routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/items", h.List)
	mux.HandleFunc("POST /api/v1/items", h.Create)
	mux.HandleFunc("GET /api/v1/items/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/items/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/items/{id}", h.Delete)
}

// List returns one page of items. The default page is cached; other
// pages go straight to the store.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := paginationParams(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	cacheable := h.cache != nil && page == defaultPage && pageSize == defaultPageSize
	if cacheable {
		var cached PaginatedItems
		hit, err := h.cache.GetJSON(r.Context(), listCacheKey, &cached)
		if err != nil {
			h.logger.Warn("item list cache read failed", zap.Error(err))
		} else if hit {
			httputil.WriteJSON(w, http.StatusOK, cached)
			return
		}
	}

	list, total := h.store.List(page, pageSize)
	result := NewPaginatedItems(list, total, page, pageSize)

	if cacheable {
		if err := h.cache.SetJSON(r.Context(), listCacheKey, result); err != nil {
			h.logger.Warn("item list cache write failed", zap.Error(err))
		}
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// Create stores a new item.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item := h.store.Create(req)
	h.invalidateList(r)
	httputil.WriteJSON(w, http.StatusCreated, item)
}

// Get returns a single item by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, item)
}

// Update applies a partial update to an item.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.store.Update(r.PathValue("id"), req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	h.invalidateList(r)
	httputil.WriteJSON(w, http.StatusOK, item)
}

// Delete removes an item.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Delete(id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	h.invalidateList(r)
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Item '%s' deleted", id),
	})
}

// invalidateList drops the cached default page after any mutation.
func (h *Handler) invalidateList(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(r.Context(), listCacheKey); err != nil {
		h.logger.Warn("item list cache invalidation failed", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errs.BadRequest("invalid JSON in request body")
	}
	return nil
}

// paginationParams parses and validates page and page_size query params.
func paginationParams(r *http.Request) (page, pageSize int, err error) {
	page, err = queryInt(r, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, errs.Validation("page must be at least 1")
	}

	pageSize, err = queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return 0, 0, errs.Validation(fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
	}

	return page, pageSize, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}
