package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"id", "quantity"?} (200 OK, 400, 404)
// PATCH v1/cart/items/{id} JSON {"action": "increase"|"decrease"} (200 OK, 400, 404)
// DELETE v1/cart/items/{id} (200 OK, 404)
// DELETE v1/cart (200 OK)
// POST v1/cart/backup (204 No content)
// POST v1/cart/restore (200 OK)
// POST v1/cart/checkout (201 Created, 409 Conflict)

type CartHandler struct {
	cmds port.StorefrontCommands
}

func RegisterCart(mux *http.ServeMux, cmds port.StorefrontCommands) {
	h := CartHandler{cmds}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("POST /v1/cart/backup", h.PostBackup)
	mux.HandleFunc("POST /v1/cart/restore", h.PostRestore)
	mux.HandleFunc("POST /v1/cart/checkout", h.PostCheckout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	writeJSON(w, http.StatusOK, toCart(h.cmds.Summary()), log)
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	if err := h.cmds.ClearCart(r.Context()); err != nil {
		writeError(w, err, log)
		return
	}
	writeJSON(w, http.StatusOK, toCart(h.cmds.Summary()), log)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid JSON data"}, log)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	var err error
	if req.Quantity == nil {
		err = h.cmds.AddToCart(r.Context(), req.ID)
	} else {
		err = h.cmds.AddToCartFromDetail(r.Context(), req.ID, *req.Quantity)
	}
	if err != nil {
		writeError(w, err, log)
		return
	}

	writeJSON(w, http.StatusOK, toCart(h.cmds.Summary()), log)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	var req ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid JSON data"}, log)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.cmds.ChangeQuantity(r.Context(), id, req.Action); err != nil {
		writeError(w, err, log)
		return
	}
	writeJSON(w, http.StatusOK, toCart(h.cmds.Summary()), log)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	id, ok := pathID(w, r, log)
	if !ok {
		return
	}

	if err := h.cmds.RemoveFromCart(r.Context(), id); err != nil {
		writeError(w, err, log)
		return
	}
	writeJSON(w, http.StatusOK, toCart(h.cmds.Summary()), log)
}

func (h CartHandler) PostBackup(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostBackup"
	log := slog.With("op", op)

	if err := h.cmds.BackupCart(r.Context()); err != nil {
		writeError(w, err, log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) PostRestore(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostRestore"
	log := slog.With("op", op)

	restored, err := h.cmds.RestoreCart(r.Context())
	if err != nil {
		writeError(w, err, log)
		return
	}

	writeJSON(w, http.StatusOK, RestoreResponse{
		Restored: restored,
		Cart:     toCart(h.cmds.Summary()),
	}, log)
}

func (h CartHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCheckout"
	log := slog.With("op", op)

	order, err := h.cmds.Checkout(r.Context())
	if err != nil {
		writeError(w, err, log)
		return
	}

	log.Info("order placed", "nItems", len(order.Items))
	writeJSON(w, http.StatusCreated, toOrder(order), log)
}

type NotificationsDrainer interface {
	Drain() []domain.Notification
}

// GET v1/notifications (200 OK)

func RegisterNotifications(mux *http.ServeMux, d NotificationsDrainer) {
	mux.HandleFunc("GET /v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		log := slog.With("op", "GetNotifications")

		ns := d.Drain()
		vs := make([]Notification, len(ns))
		for i, n := range ns {
			vs[i] = Notification{Level: string(n.Level), Message: n.Message}
		}
		writeJSON(w, http.StatusOK, vs, log)
	})
}
