package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rookgm/chinpay/internal/middleware"
	"github.com/rookgm/chinpay/internal/models"
)

type AdminService interface {
	// Login checks admin password and returns session token
	Login(ctx context.Context, password string) (string, error)
	// CDKDetails returns code record
	CDKDetails(ctx context.Context, code string) (*models.CDK, error)
	// OrderDetails returns persisted order record
	OrderDetails(ctx context.Context, orderID string) (*models.Order, error)
}

// AdminHandler represents HTTP handler for admin requests
type AdminHandler struct {
	svc AdminService
}

// NewAdminHandler creates new AdminHandler instance
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login authenticates admin and sets auth cookie
// 200 - успешная аутентификация;
// 400 - неверный формат запроса;
// 401 - неверный пароль;
// 500 - внутренняя ошибка сервера.
func (ah *AdminHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		token, err := ah.svc.Login(r.Context(), req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.AuthCookieName,
			Value:    token,
			Path:     "/api/admin",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
		w.WriteHeader(http.StatusOK)
	}
}

type cdkDetailsRequest struct {
	CDK string `json:"cdk"`
}

type cdkDetailsResponse struct {
	CDK       string  `json:"cdk"`
	PlanID    int     `json:"plan_id"`
	OrderID   string  `json:"order_id"`
	UsedBy    *string `json:"used_by"`
	UsedAt    *string `json:"used_at"`
	CreatedAt string  `json:"created_at"`
}

// CDKDetails returns code record
// 200 - успешная обработка запроса;
// 204 - код не найден;
// 400 - неверный формат запроса;
// 401 - администратор не аутентифицирован;
// 500 - внутренняя ошибка сервера.
func (ah *AdminHandler) CDKDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cdkDetailsRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		cdk, err := ah.svc.CDKDetails(r.Context(), req.CDK)
		if err != nil {
			writeDetailsError(w, err)
			return
		}

		resp := cdkDetailsResponse{
			CDK:       cdk.Code,
			PlanID:    cdk.PlanID,
			OrderID:   cdk.OrderID,
			UsedBy:    cdk.UsedBy,
			CreatedAt: cdk.CreatedAt.Format(time.RFC3339),
		}
		if cdk.UsedAt != nil {
			usedAt := cdk.UsedAt.Format(time.RFC3339)
			resp.UsedAt = &usedAt
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type orderDetailsRequest struct {
	OrderID string `json:"order_id"`
}

// OrderDetails returns persisted order record
// 200 - успешная обработка запроса;
// 204 - заказ не найден;
// 400 - неверный формат запроса;
// 401 - администратор не аутентифицирован;
// 500 - внутренняя ошибка сервера.
func (ah *AdminHandler) OrderDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderDetailsRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := ah.svc.OrderDetails(r.Context(), req.OrderID)
		if err != nil {
			writeDetailsError(w, err)
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

func writeDetailsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, models.ErrInvalidRequest):
		http.Error(w, "bad request", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
