package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/chinpay/internal/handler/http/mocks"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookBody(customOrderID, totalAmount string) string {
	return `{
		"ec": 200,
		"em": "ok",
		"data": {
			"type": "order",
			"order": {
				"out_trade_no": "202405011200001",
				"custom_order_id": "` + customOrderID + `",
				"user_id": "u1",
				"plan_id": "p1",
				"month": 1,
				"total_amount": "` + totalAmount + `",
				"show_amount": "` + totalAmount + `",
				"status": 2,
				"remark": "",
				"discount": "0.00",
				"sku_detail": [{"sku_id": "s1", "count": 1, "name": "basic"}]
			}
		}
	}`
}

func TestWebhookHandler_Webhook(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockWebhookService
		wantStatusCode int
		wantAck        bool
	}{
		{
			name: "confirmation_return_200",
			body: webhookBody("order-1", "10.00"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), models.Confirmation{
					Reference: "order-1",
					TradeNo:   "202405011200001",
					Amount:    1000,
				}).Return(models.OutcomeCompleted, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantAck:        true,
		},
		{
			name: "ignored_confirmation_return_200",
			body: webhookBody("unknown", "5.5"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), models.Confirmation{
					Reference: "unknown",
					TradeNo:   "202405011200001",
					Amount:    550,
				}).Return(models.OutcomeIgnored, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantAck:        true,
		},
		{
			name: "no_custom_order_id_return_200",
			body: webhookBody("", "10.00"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantAck:        true,
		},
		{
			name: "malformed_body_return_400",
			body: `{"data": `,
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "bad_amount_return_400",
			body: webhookBody("order-1", "ten"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "amount_overflowing_cents_return_400",
			body: webhookBody("order-1", "184467440737095526.16"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "persistence_failure_return_500",
			body: webhookBody("order-1", "10.00"),
			setup: func(t *testing.T) *mocks.MockWebhookService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockWebhookService(ctrl)
				svcMock.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(models.OutcomeIgnored, errors.New("disk full"))
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler := NewWebhookHandler(tt.setup(t))
			h := handler.Webhook()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantAck {
				var got webhookResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, 200, got.EC)
			}
		})
	}
}
