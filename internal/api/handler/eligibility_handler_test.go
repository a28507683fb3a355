package handler

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEligibilityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewEligibilityHandler(logger)

	router := gin.New()
	router.POST("/api/v1/eligibility", h.Evaluate)
	return router
}

func TestEligibilityHandler_Evaluate(t *testing.T) {
	t.Run("Approved", func(t *testing.T) {
		router := setupEligibilityRouter()

		w := performRequest(router, http.MethodPost, "/api/v1/eligibility", map[string]any{
			"monthly_salary":  8500,
			"tenure_months":   24,
			"avg_balance_3m":  2100,
			"overdraft_count": 0,
			"existing_loans":  0,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Data)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["approved"])
		assert.Equal(t, float64(93), data["credit_score"])
		assert.Equal(t, float64(3000), data["credit_limit"])
		assert.Equal(t, 0.04, data["interest_rate"])
		assert.NotContains(t, data, "decline_reason")
	})

	t.Run("Declined", func(t *testing.T) {
		router := setupEligibilityRouter()

		w := performRequest(router, http.MethodPost, "/api/v1/eligibility", map[string]any{
			"monthly_salary":  3500,
			"tenure_months":   36,
			"avg_balance_3m":  2000,
			"overdraft_count": 0,
			"existing_loans":  0,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, false, data["approved"])
		assert.Equal(t, "SALARY_TOO_LOW", data["decline_reason"])
		assert.NotContains(t, data, "credit_limit")
	})

	t.Run("MissingSalary", func(t *testing.T) {
		router := setupEligibilityRouter()

		w := performRequest(router, http.MethodPost, "/api/v1/eligibility", map[string]any{
			"tenure_months": 24,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		router := setupEligibilityRouter()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/eligibility", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
