package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// GET v1/products?search=&category=&max_price=&sort= (200 OK, 400 Bad request)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/categories (200 OK)
// POST v1/catalog/reload?category= (204 No content, 502 Bad gateway)

type CatalogHandler struct {
	catalog port.CatalogBrowser
	cmds    port.StorefrontCommands
}

func RegisterCatalog(
	mux *http.ServeMux,
	catalog port.CatalogBrowser,
	cmds port.StorefrontCommands,
) {
	h := CatalogHandler{catalog, cmds}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
	mux.HandleFunc("POST /v1/catalog/reload", h.PostReload)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	criteria, err := parseCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()}, log)
		return
	}

	ps := h.catalog.View(criteria)
	writeJSON(w, http.StatusOK, toProductsView(ps), log)
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	p, err := h.cmds.ViewDetails(id)
	if err != nil {
		writeError(w, err, log)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p), log)
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	cs := h.catalog.Categories()
	if cs == nil {
		cs = []string{}
	}
	writeJSON(w, http.StatusOK, Categories{cs}, log)
}

func (h CatalogHandler) PostReload(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.PostReload"
	log := slog.With("op", op)

	category := r.URL.Query().Get("category")
	if err := h.catalog.Reload(r.Context(), category); err != nil {
		writeError(w, err, log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	c := domain.DefaultCriteria()

	c.Search = q.Get("search")
	if category := q.Get("category"); category != "" {
		c.Category = category
	}
	c.SortBy = domain.ParseSortOrder(q.Get("sort"))

	if s := q.Get("max_price"); s != "" {
		maxPrice, err := decimal.NewFromString(s)
		if err != nil {
			return domain.FilterCriteria{}, errors.New("invalid max_price")
		}
		c.MaxPrice = maxPrice
	}
	return c, nil
}

func pathID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid id"}, log)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode response", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error, log *slog.Logger) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAction):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrStaleResponse):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNetwork),
		errors.Is(err, domain.ErrDecode):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Info("request rejected", "err", err)
	}

	writeJSON(w, status, errorResponse{http.StatusText(status)}, log)
}
