package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"order-manager/internal/domain"
	"order-manager/internal/orders/service"
)

// OrderHandler is the thin HTTP edge: it validates shapes and pagination and
// delegates everything else to the service. Internal failures surface as a
// generic 500, the cause stays in the logs.
type OrderHandler struct {
	service service.OrderServiceInterface
	logger  *zap.Logger
}

func New(svc service.OrderServiceInterface, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: logger}
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateBulkOrders)
		r.Get("/", h.ListOrders)
		r.Get("/{orderID}", h.GetOrderByID)
	})
}

func (h *OrderHandler) CreateBulkOrders(w http.ResponseWriter, r *http.Request) {
	var inputs []domain.OrderInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_body", "request body must be a JSON array of orders")
		return
	}
	for _, in := range inputs {
		if in.Name == "" {
			writeProblem(w, http.StatusBadRequest, "invalid_order", "every order needs a name")
			return
		}
	}

	res, err := h.service.CreateBulkOrders(r.Context(), inputs)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "internal_error", "failed to dispatch orders")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := positiveIntParam(q.Get("page"), 1)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_query", "page must be a positive integer")
		return
	}
	limit, err := positiveIntParam(q.Get("limit"), 10)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid_query", "limit must be a positive integer")
		return
	}

	var statusID *int
	if raw := q.Get("statusId"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !domain.ValidStatus(n) {
			writeProblem(w, http.StatusBadRequest, "invalid_query", "statusId must be a known status")
			return
		}
		statusID = &n
	}

	pageRes, err := h.service.ListOrders(r.Context(), statusID, page, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, pageRes)
}

func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")

	order, found, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "internal_error", "failed to get order")
		return
	}
	if !found {
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func positiveIntParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
