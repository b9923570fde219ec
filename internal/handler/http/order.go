package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	// Create creates pending order
	Create(ctx context.Context, price int64, planID int) (models.Order, error)
	// Status returns order status
	Status(ctx context.Context, id string) models.Status
	// OrderCDK returns code issued for order
	OrderCDK(ctx context.Context, orderID string) (string, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	Price  decimal.Decimal `json:"price"`
	PlanID int             `json:"plan_id"`
}

type orderResponse struct {
	UUID      string       `json:"uuid"`
	Timestamp int64        `json:"timestamp"`
	Price     int64        `json:"price"`
	PlanID    int          `json:"plan_id"`
	Plan      *models.Plan `json:"plan,omitempty"`
	AfdOrder  string       `json:"afd_order"`
	CDK       string       `json:"cdk"`
	Status    string       `json:"status"`
}

// CreateOrder creates new order
// 200 - заказ создан;
// 400 - неверный формат запроса или суммы;
// 500 - внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		price, err := toCents(req.Price)
		if err != nil {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}

		order, err := oh.svc.Create(r.Context(), price, req.PlanID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidAmount):
				http.Error(w, "invalid price", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp := orderResponse{
			UUID:      order.ID,
			Timestamp: order.CreatedAt.Unix(),
			Price:     order.Price,
			PlanID:    order.PlanID,
			Plan:      order.Plan,
			AfdOrder:  order.ExternalReference,
			CDK:       order.CDK,
			Status:    string(order.Status),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// GetOrderStatus returns order status as text: Pending, Completed, Failed or NotFound
func (oh *OrderHandler) GetOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "order_uuid")

		status := oh.svc.Status(r.Context(), id)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(status))
	}
}

// GetOrderCDK returns code issued for order as text, empty body if there is none
// 200 - успешная обработка запроса;
// 500 - внутренняя ошибка сервера.
func (oh *OrderHandler) GetOrderCDK() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "order_uuid")

		code, err := oh.svc.OrderCDK(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(code))
	}
}
