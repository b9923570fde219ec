package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/rookgm/chinpay/internal/models"
)

type CDKService interface {
	// Redeem claims code for claimant
	Redeem(ctx context.Context, code, claimant string) (models.Plan, error)
}

// CDKHandler represents HTTP handler for code redemption
type CDKHandler struct {
	svc CDKService
}

// NewCDKHandler creates new CDKHandler instance
func NewCDKHandler(svc CDKService) *CDKHandler {
	return &CDKHandler{svc: svc}
}

type useCDKRequest struct {
	CDK  string `json:"cdk"`
	User string `json:"user"`
}

// UseCDK redeems code and returns plan it grants
// 200 - код активирован;
// 400 - неверный формат запроса;
// 409 - код уже использован или не существует;
// 429 - слишком много попыток;
// 500 - внутренняя ошибка сервера.
func (ch *CDKHandler) UseCDK() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req useCDKRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		plan, err := ch.svc.Redeem(r.Context(), req.CDK, req.User)
		if err != nil {
			var limited models.RateLimitedError
			switch {
			case errors.Is(err, models.ErrInvalidRequest):
				http.Error(w, "bad request", http.StatusBadRequest)
			case errors.Is(err, models.ErrCDKUsedOrUnknown):
				http.Error(w, models.ErrCDKUsedOrUnknown.Error(), http.StatusConflict)
			case errors.As(err, &limited):
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(plan); err != nil {
			return
		}
	}
}
