package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medadvance/loan-ledger/internal/domain/loan"
)

// MockLoanService is a mock implementation of service.LoanService
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, amount, interest, total, monthlyPayment int64, pharmacy loan.Pharmacy) (*loan.Loan, error) {
	args := m.Called(ctx, amount, interest, total, monthlyPayment, pharmacy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) GetAllLoans(ctx context.Context) ([]*loan.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*loan.Loan), args.Error(1)
}

func (m *MockLoanService) GetLoanByID(ctx context.Context, id string) (*loan.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) MarkPaymentAsPaid(ctx context.Context, loanID string, monthIndex int) (*loan.Loan, error) {
	args := m.Called(ctx, loanID, monthIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanService) DeleteLoan(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanService) GetLoanStats(ctx context.Context) (*loan.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Stats), args.Error(1)
}

func setupLoanRouter(svc *MockLoanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewLoanHandler(logger, svc)

	router := gin.New()
	loans := router.Group("/api/v1/loans")
	{
		loans.POST("", h.Create)
		loans.GET("", h.GetAll)
		loans.GET("/stats", h.GetStats)
		loans.GET("/:id", h.GetByID)
		loans.POST("/:id/payments/:index/pay", h.PayInstallment)
		loans.DELETE("/:id", h.Delete)
	}
	return router
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func validCreateBody() map[string]any {
	return map[string]any{
		"amount":         3000,
		"interest":       150,
		"total":          3150,
		"monthlyPayment": 1050,
		"pharmacy": map[string]any{
			"id":   "ph_001",
			"name": "Pharmacie Centrale",
			"city": "Casablanca",
		},
	}
}

func TestLoanHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		created, err := loan.New(3000, 150, 3150, 1050, loan.Pharmacy{ID: "ph_001", Name: "Pharmacie Centrale", City: "Casablanca"})
		require.NoError(t, err)
		svc.On("CreateLoan", mock.Anything, int64(3000), int64(150), int64(3150), int64(1050),
			mock.AnythingOfType("loan.Pharmacy")).Return(created, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/loans", validCreateBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Data)
		data := resp.Data.(map[string]any)
		assert.Equal(t, created.ID, data["id"])
		assert.Equal(t, "active", data["status"])
		assert.Len(t, data["payments"], loan.InstallmentCount)
		svc.AssertExpectations(t)
	})

	t.Run("ActiveLoanConflict", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, loan.ErrActiveLoanExists{LoanID: "loan_1_abc"})

		w := performRequest(router, http.MethodPost, "/api/v1/loans", validCreateBody())

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ACTIVE_LOAN_EXISTS", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "loan_1_abc")
	})

	t.Run("DomainValidationError", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, loan.ErrEmptyPharmacyName)

		w := performRequest(router, http.MethodPost, "/api/v1/loans", validCreateBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		w := performRequest(router, http.MethodPost, "/api/v1/loans", map[string]any{"amount": 3000})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ServiceFailure", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("CreateLoan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("storage down"))

		w := performRequest(router, http.MethodPost, "/api/v1/loans", validCreateBody())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
	})
}

func TestLoanHandler_GetAll(t *testing.T) {
	svc := new(MockLoanService)
	router := setupLoanRouter(svc)

	l, err := loan.New(1000, 50, 1050, 350, loan.Pharmacy{Name: "Pharmacie Centrale"})
	require.NoError(t, err)
	svc.On("GetAllLoans", mock.Anything).Return([]*loan.Loan{l}, nil)

	w := performRequest(router, http.MethodGet, "/api/v1/loans", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	loans := data["loans"].([]any)
	require.Len(t, loans, 1)
	assert.Equal(t, l.ID, loans[0].(map[string]any)["id"])
}

func TestLoanHandler_GetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		l, err := loan.New(1000, 50, 1050, 350, loan.Pharmacy{Name: "Pharmacie Centrale"})
		require.NoError(t, err)
		svc.On("GetLoanByID", mock.Anything, l.ID).Return(l, nil)

		w := performRequest(router, http.MethodGet, "/api/v1/loans/"+l.ID, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, l.ID, data["id"])
		assert.Equal(t, l.CreatedDate.Format(time.RFC3339), data["createdDate"])
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("GetLoanByID", mock.Anything, "loan_0_missing").
			Return(nil, loan.ErrLoanNotFound{LoanID: "loan_0_missing"})

		w := performRequest(router, http.MethodGet, "/api/v1/loans/loan_0_missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}

func TestLoanHandler_PayInstallment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		l, err := loan.New(1500, 75, 1575, 525, loan.Pharmacy{Name: "Pharmacie Centrale"})
		require.NoError(t, err)
		require.NoError(t, l.MarkInstallmentPaid(0, time.Now().UTC()))
		svc.On("MarkPaymentAsPaid", mock.Anything, l.ID, 0).Return(l, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/loans/"+l.ID+"/payments/0/pay", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		payments := data["payments"].([]any)
		first := payments[0].(map[string]any)
		assert.Equal(t, true, first["paid"])
		assert.NotEmpty(t, first["paidDate"])
	})

	t.Run("NonNumericIndex", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		w := performRequest(router, http.MethodPost, "/api/v1/loans/loan_1_abc/payments/first/pay", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "MarkPaymentAsPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("IndexOutOfRange", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("MarkPaymentAsPaid", mock.Anything, "loan_1_abc", 7).
			Return(nil, loan.ErrInvalidInstallment{LoanID: "loan_1_abc", Index: 7})

		w := performRequest(router, http.MethodPost, "/api/v1/loans/loan_1_abc/payments/7/pay", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "invalid installment index")
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("MarkPaymentAsPaid", mock.Anything, "loan_0_missing", 0).
			Return(nil, loan.ErrLoanNotFound{LoanID: "loan_0_missing"})

		w := performRequest(router, http.MethodPost, "/api/v1/loans/loan_0_missing/payments/0/pay", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLoanHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("DeleteLoan", mock.Anything, "loan_1_abc").Return(true, nil)

		w := performRequest(router, http.MethodDelete, "/api/v1/loans/loan_1_abc", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("ServiceFailure", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("DeleteLoan", mock.Anything, "loan_1_abc").Return(false, errors.New("storage down"))

		w := performRequest(router, http.MethodDelete, "/api/v1/loans/loan_1_abc", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLoanHandler_GetStats(t *testing.T) {
	t.Run("Summary", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("GetLoanStats", mock.Anything).Return(&loan.Stats{
			TotalLoans:       2,
			ActiveLoans:      1,
			CompletedLoans:   1,
			TotalBorrowed:    3900,
			TotalOutstanding: 2100,
		}, nil)

		w := performRequest(router, http.MethodGet, "/api/v1/loans/stats", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(2), data["totalLoans"])
		assert.Equal(t, float64(2100), data["totalOutstanding"])
	})

	t.Run("UnreadableLedgerOmitsStats", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		svc.On("GetLoanStats", mock.Anything).Return(nil, nil)

		w := performRequest(router, http.MethodGet, "/api/v1/loans/stats", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Nil(t, resp.Data)
		assert.Nil(t, resp.Error)
	})
}
