package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/application"
	"github.com/dmehra2102/Order-Checkout-Service/internal/checkout/domain"
	"github.com/dmehra2102/Order-Checkout-Service/pkg/metrics"
)

// Handler exposes the checkout workflows over HTTP. It owns the
// request/response shaping and the mapping of domain errors onto
// status codes; all business rules live in the application service.
type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
	metrics *metrics.ServerMetrics
}

// NewHandler accepts nil metrics; instrumentation is then skipped.
func NewHandler(log *slog.Logger, service *application.Service, m *metrics.ServerMetrics) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("checkout-http"),
		metrics: m,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api/payment", func(r chi.Router) {
		r.Post("/create-checkout-session", h.instrument("create_checkout", h.createCheckout))
		r.Get("/success", h.instrument("success", h.success))
		r.Get("/cancel", h.instrument("cancel", h.cancel))
		r.Get("/orderbyid", h.instrument("get_order", h.getOrderByID))
		r.Get("/orders", h.instrument("get_orders", h.getOrdersForUser))
		r.Delete("/order", h.instrument("delete_order", h.deleteOrderByID))
		r.Delete("/orders", h.instrument("delete_orders", h.deleteAllOrders))
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		h.metrics.Requests.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		h.metrics.Latency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

type checkoutItem struct {
	Name      string    `json:"name"`
	ItemPrice float64   `json:"itemPrice"`
	ProductID uuid.UUID `json:"productId"`
}

type createCheckoutReq struct {
	Username string         `json:"username"`
	Items    []checkoutItem `json:"items"`
}

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateCheckout")
	defer span.End()

	var req createCheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	items := make([]domain.CreateOrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		price, err := domain.NewPrice(item.ItemPrice)
		if err != nil {
			http.Error(w, "price sent is invalid", http.StatusUnprocessableEntity)
			return
		}
		items = append(items, domain.CreateOrderItemRequest{
			ProductID:   item.ProductID,
			ProductName: domain.NewProductName(item.Name),
			Price:       price,
		})
	}

	session, err := h.service.CreateOrder(ctx, domain.NewCreateOrderRequest(domain.NewUserName(req.Username), items))
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"checkoutUrl": session.RedirectURL})
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ReconcileCheckoutStatus")
	defer span.End()

	sessionID := domain.SessionID(r.URL.Query().Get("session_id"))
	order, err := h.service.ReconcileCheckoutStatus(ctx, sessionID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CancelOrder")
	defer span.End()

	sessionID := domain.SessionID(r.URL.Query().Get("session_id"))
	deleted, err := h.service.CancelOrder(ctx, sessionID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"orderId": deleted.String()})
}

func (h *Handler) getOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindOrderByID")
	defer span.End()

	id, err := uuid.Parse(r.URL.Query().Get("order_id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	order, err := h.service.FindOrderByID(ctx, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) getOrdersForUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "FindOrdersByUsername")
	defer span.End()

	username := domain.NewUserName(r.URL.Query().Get("username"))
	orders, err := h.service.FindOrdersByUsername(ctx, username)
	if err != nil {
		h.respondError(w, err)
		return
	}
	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}
	respondJSON(w, http.StatusOK, responses)
}

func (h *Handler) deleteOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteOrder")
	defer span.End()

	id, err := uuid.Parse(r.URL.Query().Get("order_id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	deleted, err := h.service.DeleteOrder(ctx, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"orderId": deleted.String()})
}

func (h *Handler) deleteAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteAllOrders")
	defer span.End()

	if err := h.service.DeleteAllOrders(ctx); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrPriceNotPositive),
		errors.Is(err, domain.ErrPriceUnrepresentable),
		errors.Is(err, domain.ErrPriceOverflow):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrInvalidSessionID):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrStatusPending):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Error("request failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
