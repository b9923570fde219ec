package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WebhookService interface {
	// Confirm applies payment confirmation
	Confirm(ctx context.Context, c models.Confirmation) (models.ConfirmOutcome, error)
}

// WebhookHandler receives payment notifications from afdian
type WebhookHandler struct {
	svc WebhookService
}

// NewWebhookHandler creates new WebhookHandler instance
func NewWebhookHandler(svc WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

type webhookRequest struct {
	EC   int         `json:"ec"`
	EM   string      `json:"em"`
	Data webhookData `json:"data"`
}

type webhookData struct {
	Type  string   `json:"type"`
	Order afdOrder `json:"order"`
}

type afdOrder struct {
	OutTradeNo    string      `json:"out_trade_no"`
	CustomOrderID string      `json:"custom_order_id"`
	UserID        string      `json:"user_id"`
	PlanID        string      `json:"plan_id"`
	Month         int         `json:"month"`
	TotalAmount   string      `json:"total_amount"`
	ShowAmount    string      `json:"show_amount"`
	Status        int         `json:"status"`
	Remark        string      `json:"remark"`
	Discount      string      `json:"discount"`
	SkuDetail     []skuDetail `json:"sku_detail"`
}

type skuDetail struct {
	SkuID string `json:"sku_id"`
	Count int    `json:"count"`
	Name  string `json:"name"`
}

type webhookResponse struct {
	EC int    `json:"ec"`
	EM string `json:"em"`
}

// Webhook handles payment notification
// 200 - уведомление принято, {"ec":200};
// 400 - неверный формат запроса;
// 500 - не удалось сохранить заказ, провайдер повторит уведомление.
func (wh *WebhookHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order := req.Data.Order
		logger.Log.Info("webhook triggered",
			zap.String("type", req.Data.Type),
			zap.String("trade_no", order.OutTradeNo),
			zap.String("order", order.CustomOrderID))

		// notifications without our order id (e.g. test pings) are acknowledged
		if order.CustomOrderID == "" {
			writeWebhookResponse(w)
			return
		}

		amount, err := decimal.NewFromString(order.TotalAmount)
		if err != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		cents, err := centsOf(amount)
		if err != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}

		_, err = wh.svc.Confirm(r.Context(), models.Confirmation{
			Reference: order.CustomOrderID,
			TradeNo:   order.OutTradeNo,
			Amount:    cents,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeWebhookResponse(w)
	}
}

func writeWebhookResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(webhookResponse{EC: http.StatusOK}); err != nil {
		return
	}
}
