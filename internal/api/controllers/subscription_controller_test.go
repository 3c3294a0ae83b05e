package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalis/internal/models/response_models"
	"vitalis/pkg/middleware"
	"vitalis/pkg/utils"
)

type stubSubscriptionService struct {
	mutateResp *response_models.SubscriptionResponse
	mutateErr  error

	snapshotResp *response_models.SubscriptionResponse
	snapshotErr  error
}

func (s stubSubscriptionService) Mutate(_ context.Context, _, _, _ string) (*response_models.SubscriptionResponse, error) {
	return s.mutateResp, s.mutateErr
}

func (s stubSubscriptionService) GetSnapshot(_ context.Context, _ string) (*response_models.SubscriptionResponse, error) {
	return s.snapshotResp, s.snapshotErr
}

func newSubscriptionRouter(svc stubSubscriptionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORSMiddleware())
	r.HandleMethodNotAllowed = true
	ctrl := NewSubscriptionController(svc, false)
	r.POST("/update-subscription", ctrl.UpdateSubscription)
	r.GET("/subscription/:userId", ctrl.GetSubscription)
	return r
}

func postMutation(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/update-subscription", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateSubscriptionOptionsPreflight(t *testing.T) {
	r := newSubscriptionRouter(stubSubscriptionService{})
	req := httptest.NewRequest(http.MethodOptions, "/update-subscription", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateSubscriptionRejectsNonPost(t *testing.T) {
	r := newSubscriptionRouter(stubSubscriptionService{})
	req := httptest.NewRequest(http.MethodGet, "/update-subscription", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUpdateSubscriptionMalformedBody(t *testing.T) {
	r := newSubscriptionRouter(stubSubscriptionService{})
	w := postMutation(r, `{"userId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request payload", decodeBody(t, w)["error"])
}

func TestUpdateSubscriptionValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"missing user", utils.ErrUserIDRequired},
		{"bad action", utils.ErrInvalidAction},
		{"missing price", utils.ErrPriceIDRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSubscriptionRouter(stubSubscriptionService{mutateErr: tc.err})
			w := postMutation(r, `{"userId":"u1","action":"upgrade"}`)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.err.Error(), decodeBody(t, w)["error"])
		})
	}
}

func TestUpdateSubscriptionNotFound(t *testing.T) {
	for _, err := range []error{utils.ErrUserNotFound, utils.ErrCustomerNotLinked, utils.ErrSubscriptionNotFound} {
		r := newSubscriptionRouter(stubSubscriptionService{mutateErr: err})
		w := postMutation(r, `{"userId":"u1","action":"cancel"}`)
		assert.Equal(t, http.StatusNotFound, w.Code, err.Error())
	}
}

func TestUpdateSubscriptionUpstreamFailure(t *testing.T) {
	r := newSubscriptionRouter(stubSubscriptionService{mutateErr: utils.ErrUpstream})
	w := postMutation(r, `{"userId":"u1","action":"cancel"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUpdateSubscriptionSuccessEnvelope(t *testing.T) {
	subID := "sub_1"
	r := newSubscriptionRouter(stubSubscriptionService{
		mutateResp: &response_models.SubscriptionResponse{
			SubscriptionID:    &subID,
			Status:            "active",
			CancelAtPeriodEnd: true,
		},
	})

	w := postMutation(r, `{"userId":"u1","action":"cancel"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Subscription cancel completed successfully", body["message"])

	sub, ok := body["subscription"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sub_1", sub["subscriptionId"])
	assert.Equal(t, true, sub["cancelAtPeriodEnd"])
	assert.Equal(t, "active", sub["status"])
}

func TestGetSubscriptionSnapshot(t *testing.T) {
	subID := "sub_1"
	r := newSubscriptionRouter(stubSubscriptionService{
		snapshotResp: &response_models.SubscriptionResponse{SubscriptionID: &subID, Status: "active"},
	})

	req := httptest.NewRequest(http.MethodGet, "/subscription/u1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	sub, ok := decodeBody(t, w)["subscription"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sub_1", sub["subscriptionId"])
}

func TestGetSubscriptionSnapshotNotFound(t *testing.T) {
	r := newSubscriptionRouter(stubSubscriptionService{snapshotErr: utils.ErrSubscriptionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/subscription/u1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
