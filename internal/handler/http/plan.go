package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rookgm/chinpay/internal/models"
)

type PlanService interface {
	// Plans returns all plans
	Plans() []models.Plan
}

// PlanHandler serves plan catalog
type PlanHandler struct {
	svc PlanService
}

// NewPlanHandler creates new PlanHandler instance
func NewPlanHandler(svc PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// GetPlans returns all plans
func (ph *PlanHandler) GetPlans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(ph.svc.Plans()); err != nil {
			return
		}
	}
}
