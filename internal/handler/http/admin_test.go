package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rookgm/chinpay/internal/handler/http/mocks"
	"github.com/rookgm/chinpay/internal/middleware"
	"github.com/rookgm/chinpay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockAdminService
		wantStatusCode int
		wantCookie     string
	}{
		{
			name: "valid_password_return_200",
			body: `{"password": "s3cret"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().Login(gomock.Any(), "s3cret").Return("token", nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     "token",
		},
		{
			name: "wrong_password_return_401",
			body: `{"password": "nope"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().Login(gomock.Any(), "nope").Return("", models.ErrInvalidCredentials)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "malformed_body_return_400",
			body: `{`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().Login(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			NewAdminHandler(tt.setup(t)).Login()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantCookie != "" {
				cookies := res.Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, middleware.AuthCookieName, cookies[0].Name)
				assert.Equal(t, tt.wantCookie, cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)
			}
		})
	}
}

func TestAdminHandler_CDKDetails(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	usedBy := "alice"
	usedAt := createdAt.Add(time.Hour)

	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockAdminService
		wantStatusCode int
		wantBody       *cdkDetailsResponse
	}{
		{
			name: "used_code_return_200",
			body: `{"cdk": "abc"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().CDKDetails(gomock.Any(), "abc").Return(&models.CDK{
					Code:      "abc",
					PlanID:    1,
					OrderID:   "order-1",
					UsedBy:    &usedBy,
					UsedAt:    &usedAt,
					CreatedAt: createdAt,
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &cdkDetailsResponse{
				CDK:       "abc",
				PlanID:    1,
				OrderID:   "order-1",
				UsedBy:    &usedBy,
				UsedAt:    ptr("2024-05-01T13:00:00Z"),
				CreatedAt: "2024-05-01T12:00:00Z",
			},
		},
		{
			name: "not_found_return_204",
			body: `{"cdk": "abc"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().CDKDetails(gomock.Any(), "abc").Return(nil, models.ErrDataNotFound)
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "internal_error_return_500",
			body: `{"cdk": "abc"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().CDKDetails(gomock.Any(), "abc").Return(nil, errors.New("boom"))
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/cdk_details", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			NewAdminHandler(tt.setup(t)).CDKDetails()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got cdkDetailsResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, *tt.wantBody, got)
			}
		})
	}
}

func TestAdminHandler_OrderDetails(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockAdminService
		wantStatusCode int
		wantStatus     string
	}{
		{
			name: "failed_order_return_200",
			body: `{"order_id": "order-1"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().OrderDetails(gomock.Any(), "order-1").Return(&models.Order{
					ID:                "order-1",
					Price:             1000,
					PlanID:            1,
					ExternalReference: "trade-1",
					Status:            models.StatusFailed,
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     "Failed",
		},
		{
			name: "empty_id_return_400",
			body: `{"order_id": ""}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().OrderDetails(gomock.Any(), "").Return(nil, models.ErrInvalidRequest)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not_found_return_204",
			body: `{"order_id": "order-2"}`,
			setup: func(t *testing.T) *mocks.MockAdminService {
				ctrl := gomock.NewController(t)
				svcMock := mocks.NewMockAdminService(ctrl)
				svcMock.EXPECT().OrderDetails(gomock.Any(), "order-2").Return(nil, models.ErrDataNotFound)
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/order_details", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			NewAdminHandler(tt.setup(t)).OrderDetails()(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantStatus != "" {
				var got orderResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				assert.Equal(t, tt.wantStatus, got.Status)
				assert.Equal(t, "trade-1", got.AfdOrder)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
