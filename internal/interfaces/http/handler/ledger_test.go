package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/interfaces/http/dto"
	"github.com/ledgerpos/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRecorder captures inputs and returns canned results per operation
type stubRecorder struct {
	saleInput    *ledger.RecordSaleInput
	saleResult   *ledger.SaleResult
	saleErr      error
	paymentInput *ledger.RecordPaymentInput
	adjustInput  *ledger.RecordStockAdjustmentInput
}

func (s *stubRecorder) RecordSale(ctx context.Context, input ledger.RecordSaleInput) (*ledger.SaleResult, error) {
	s.saleInput = &input
	if s.saleErr != nil {
		return nil, s.saleErr
	}
	if s.saleResult != nil {
		return s.saleResult, nil
	}
	return &ledger.SaleResult{SaleID: uuid.New(), TotalAmount: decimal.NewFromInt(50)}, nil
}

func (s *stubRecorder) RecordPurchase(ctx context.Context, input ledger.RecordPurchaseInput) (*ledger.PurchaseResult, error) {
	return &ledger.PurchaseResult{PurchaseID: uuid.New()}, nil
}

func (s *stubRecorder) RecordCustomerPayment(ctx context.Context, input ledger.RecordPaymentInput) (*ledger.PaymentResult, error) {
	s.paymentInput = &input
	return &ledger.PaymentResult{PaymentID: uuid.New(), Amount: input.Amount, BalanceAfter: decimal.Zero}, nil
}

func (s *stubRecorder) RecordSupplierPayment(ctx context.Context, input ledger.RecordPaymentInput) (*ledger.PaymentResult, error) {
	s.paymentInput = &input
	return &ledger.PaymentResult{PaymentID: uuid.New(), Amount: input.Amount, BalanceAfter: decimal.Zero}, nil
}

func (s *stubRecorder) RecordCustomerReturn(ctx context.Context, input ledger.RecordCustomerReturnInput) (*ledger.ReturnResult, error) {
	return &ledger.ReturnResult{ReturnID: uuid.New()}, nil
}

func (s *stubRecorder) RecordSupplierReturn(ctx context.Context, input ledger.RecordSupplierReturnInput) (*ledger.ReturnResult, error) {
	return &ledger.ReturnResult{ReturnID: uuid.New()}, nil
}

func (s *stubRecorder) RecordStockAdjustment(ctx context.Context, input ledger.RecordStockAdjustmentInput) (*ledger.AdjustmentResult, error) {
	s.adjustInput = &input
	return &ledger.AdjustmentResult{AdjustmentID: uuid.New()}, nil
}

func (s *stubRecorder) SendBalanceReminder(ctx context.Context, tenantID, customerID uuid.UUID) (*ledger.ReminderResult, error) {
	return &ledger.ReminderResult{CustomerID: customerID, Balance: decimal.NewFromInt(60)}, nil
}

func newLedgerTestRouter(recorder Recorder) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Tenant(middleware.TenantConfig{}))
	NewLedgerHandler(recorder).RegisterRoutes(&r.RouterGroup)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ledgerHeaders(tenantID uuid.UUID) map[string]string {
	return map[string]string{
		middleware.TenantIDHeader: tenantID.String(),
		"X-Actor":                 "kwame",
		IdempotencyKeyHeader:      "req-001",
	}
}

func TestLedgerHandler_RecordSale(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	saleBody := gin.H{
		"payment_type": "CASH",
		"paid_amount":  "56",
		"lines": []gin.H{
			{"item_id": itemID.String(), "quantity": "2", "unit_price": "28"},
		},
	}

	t.Run("fresh sale returns 201 and forwards input", func(t *testing.T) {
		recorder := &stubRecorder{}
		r := newLedgerTestRouter(recorder)

		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, ledgerHeaders(tenantID))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, recorder.saleInput)
		assert.Equal(t, tenantID, recorder.saleInput.TenantID)
		assert.Equal(t, "kwame", recorder.saleInput.Actor)
		assert.Equal(t, "req-001", recorder.saleInput.IdempotencyKey)
		require.Len(t, recorder.saleInput.Lines, 1)
		assert.Equal(t, itemID, recorder.saleInput.Lines[0].ItemID)
		assert.True(t, recorder.saleInput.Lines[0].Quantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("replayed sale returns 200", func(t *testing.T) {
		recorder := &stubRecorder{saleResult: &ledger.SaleResult{SaleID: uuid.New(), Replayed: true}}
		r := newLedgerTestRouter(recorder)

		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, ledgerHeaders(tenantID))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing idempotency key returns 400", func(t *testing.T) {
		r := newLedgerTestRouter(&stubRecorder{})

		headers := ledgerHeaders(tenantID)
		delete(headers, IdempotencyKeyHeader)
		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, headers)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing actor returns 400", func(t *testing.T) {
		r := newLedgerTestRouter(&stubRecorder{})

		headers := ledgerHeaders(tenantID)
		delete(headers, "X-Actor")
		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, headers)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid payment type fails validation", func(t *testing.T) {
		r := newLedgerTestRouter(&stubRecorder{})

		w := doJSON(t, r, http.MethodPost, "/sales", gin.H{
			"payment_type": "BARTER",
			"lines":        []gin.H{{"item_id": itemID.String()}},
		}, ledgerHeaders(tenantID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("insufficient stock maps to 422", func(t *testing.T) {
		recorder := &stubRecorder{saleErr: &inventory.InsufficientStockError{
			ItemID:          itemID,
			CurrentQuantity: decimal.NewFromInt(1),
			RequestedDelta:  decimal.NewFromInt(-2),
		}}
		r := newLedgerTestRouter(recorder)

		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, ledgerHeaders(tenantID))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	})

	t.Run("duplicate request maps to 409", func(t *testing.T) {
		recorder := &stubRecorder{saleErr: shared.ErrDuplicateRequest}
		r := newLedgerTestRouter(recorder)

		w := doJSON(t, r, http.MethodPost, "/sales", saleBody, ledgerHeaders(tenantID))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLedgerHandler_RecordCustomerPayment(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	recorder := &stubRecorder{}
	r := newLedgerTestRouter(recorder)

	w := doJSON(t, r, http.MethodPost, "/customers/"+customerID.String()+"/payments", gin.H{
		"amount": "25",
		"method": "MOMO",
	}, ledgerHeaders(tenantID))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, recorder.paymentInput)
	assert.Equal(t, customerID, recorder.paymentInput.CounterpartyID)
	assert.True(t, recorder.paymentInput.Amount.Equal(decimal.NewFromInt(25)))

	t.Run("invalid method fails validation", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/customers/"+customerID.String()+"/payments", gin.H{
			"amount": "25",
			"method": "CHEQUE",
		}, ledgerHeaders(tenantID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed counterparty id fails", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/customers/abc/payments", gin.H{
			"amount": "25",
			"method": "CASH",
		}, ledgerHeaders(tenantID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLedgerHandler_RecordStockAdjustment(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()
	recorder := &stubRecorder{}
	r := newLedgerTestRouter(recorder)

	w := doJSON(t, r, http.MethodPost, "/stock-adjustments", gin.H{
		"item_id":  itemID.String(),
		"type":     "DECREASE",
		"quantity": "3",
		"reason":   "breakage",
	}, ledgerHeaders(tenantID))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, recorder.adjustInput)
	assert.Equal(t, inventory.AdjustmentTypeDecrease, recorder.adjustInput.Type)
	assert.Equal(t, "breakage", recorder.adjustInput.Reason)

	t.Run("missing reason fails validation", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/stock-adjustments", gin.H{
			"item_id":  itemID.String(),
			"type":     "DECREASE",
			"quantity": "3",
		}, ledgerHeaders(tenantID))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLedgerHandler_SendBalanceReminder(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()
	r := newLedgerTestRouter(&stubRecorder{})

	w := doJSON(t, r, http.MethodPost, "/customers/"+customerID.String()+"/reminders", nil, map[string]string{
		middleware.TenantIDHeader: tenantID.String(),
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
}
