package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/ledgerpos/backend/internal/interfaces/http/dto"
)

// Recorder is the slice of the transaction coordinator the ledger handler
// depends on
type Recorder interface {
	RecordSale(ctx context.Context, input ledger.RecordSaleInput) (*ledger.SaleResult, error)
	RecordPurchase(ctx context.Context, input ledger.RecordPurchaseInput) (*ledger.PurchaseResult, error)
	RecordCustomerPayment(ctx context.Context, input ledger.RecordPaymentInput) (*ledger.PaymentResult, error)
	RecordSupplierPayment(ctx context.Context, input ledger.RecordPaymentInput) (*ledger.PaymentResult, error)
	RecordCustomerReturn(ctx context.Context, input ledger.RecordCustomerReturnInput) (*ledger.ReturnResult, error)
	RecordSupplierReturn(ctx context.Context, input ledger.RecordSupplierReturnInput) (*ledger.ReturnResult, error)
	RecordStockAdjustment(ctx context.Context, input ledger.RecordStockAdjustmentInput) (*ledger.AdjustmentResult, error)
	SendBalanceReminder(ctx context.Context, tenantID, customerID uuid.UUID) (*ledger.ReminderResult, error)
}

// LedgerHandler exposes the transactional Record operations
type LedgerHandler struct {
	BaseHandler
	recorder Recorder
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(recorder Recorder) *LedgerHandler {
	return &LedgerHandler{recorder: recorder}
}

// RegisterRoutes registers the ledger routes on the given group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sales", h.RecordSale)
	rg.POST("/purchases", h.RecordPurchase)
	rg.POST("/customers/:id/payments", h.RecordCustomerPayment)
	rg.POST("/suppliers/:id/payments", h.RecordSupplierPayment)
	rg.POST("/sales/:id/returns", h.RecordCustomerReturn)
	rg.POST("/purchases/:id/returns", h.RecordSupplierReturn)
	rg.POST("/stock-adjustments", h.RecordStockAdjustment)
	rg.POST("/customers/:id/reminders", h.SendBalanceReminder)
}

// writeContext gathers the tenant, actor and idempotency key every Record
// operation needs. The idempotency key is mandatory so every write is
// retry-safe by construction.
func (h *LedgerHandler) writeContext(c *gin.Context) (tenantID uuid.UUID, actor, key string, ok bool) {
	tenantID, ok = h.tenantID(c)
	if !ok {
		return uuid.Nil, "", "", false
	}
	actor, ok = h.actor(c)
	if !ok {
		return uuid.Nil, "", "", false
	}
	key = c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		h.BadRequest(c, "Missing "+IdempotencyKeyHeader+" header")
		return uuid.Nil, "", "", false
	}
	return tenantID, actor, key, true
}

// respondRecorded sends 201 for a fresh write and 200 for an idempotent replay
func (h *LedgerHandler) respondRecorded(c *gin.Context, replayed bool, data any) {
	if replayed {
		h.Success(c, data)
		return
	}
	h.Created(c, data)
}

// SaleLineRequest is one line of a sale request
type SaleLineRequest struct {
	ItemID    string          `json:"item_id" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// RecordSaleRequest is the request body for POST /sales
type RecordSaleRequest struct {
	CustomerID  *string           `json:"customer_id" binding:"omitempty,uuid"`
	PaymentType string            `json:"payment_type" binding:"required,oneof=CASH CREDIT"`
	PaidAmount  decimal.Decimal   `json:"paid_amount"`
	Lines       []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordSale handles POST /sales
func (h *LedgerHandler) RecordSale(c *gin.Context) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	input := ledger.RecordSaleInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		PaymentType:    trade.PaymentType(req.PaymentType),
		PaidAmount:     req.PaidAmount,
	}
	if req.CustomerID != nil {
		customerID := uuid.MustParse(*req.CustomerID)
		input.CustomerID = &customerID
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, trade.SaleLineInput{
			ItemID:    uuid.MustParse(line.ItemID),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	result, err := h.recorder.RecordSale(c.Request.Context(), input)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// PurchaseLineRequest is one line of a purchase request
type PurchaseLineRequest struct {
	ItemID   string          `json:"item_id" binding:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// RecordPurchaseRequest is the request body for POST /purchases
type RecordPurchaseRequest struct {
	SupplierID  string                `json:"supplier_id" binding:"required,uuid"`
	PaymentType string                `json:"payment_type" binding:"required,oneof=CASH CREDIT"`
	PaidAmount  decimal.Decimal       `json:"paid_amount"`
	Lines       []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RecordPurchase handles POST /purchases
func (h *LedgerHandler) RecordPurchase(c *gin.Context) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	input := ledger.RecordPurchaseInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		SupplierID:     uuid.MustParse(req.SupplierID),
		PaymentType:    trade.PaymentType(req.PaymentType),
		PaidAmount:     req.PaidAmount,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, trade.PurchaseLineInput{
			ItemID:   uuid.MustParse(line.ItemID),
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
		})
	}

	result, err := h.recorder.RecordPurchase(c.Request.Context(), input)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// RecordPaymentRequest is the request body for payment routes
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required,oneof=CASH MOMO BANK"`
}

func (h *LedgerHandler) recordPayment(c *gin.Context, record func(context.Context, ledger.RecordPaymentInput) (*ledger.PaymentResult, error)) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	counterpartyID, ok := bindID(c)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := record(c.Request.Context(), ledger.RecordPaymentInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		CounterpartyID: counterpartyID,
		Amount:         req.Amount,
		Method:         trade.PaymentMethod(req.Method),
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// RecordCustomerPayment handles POST /customers/:id/payments
func (h *LedgerHandler) RecordCustomerPayment(c *gin.Context) {
	h.recordPayment(c, h.recorder.RecordCustomerPayment)
}

// RecordSupplierPayment handles POST /suppliers/:id/payments
func (h *LedgerHandler) RecordSupplierPayment(c *gin.Context) {
	h.recordPayment(c, h.recorder.RecordSupplierPayment)
}

// RecordReturnRequest is the request body for return routes. LineID references
// the original sale or purchase line being returned.
type RecordReturnRequest struct {
	LineID     string          `json:"line_id" binding:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	ReturnType string          `json:"return_type" binding:"required,oneof=CASH CREDIT EXCHANGE"`
	Amount     decimal.Decimal `json:"amount"`
}

// RecordCustomerReturn handles POST /sales/:id/returns
func (h *LedgerHandler) RecordCustomerReturn(c *gin.Context) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	saleID, ok := bindID(c)
	if !ok {
		return
	}
	var req RecordReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.recorder.RecordCustomerReturn(c.Request.Context(), ledger.RecordCustomerReturnInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		SaleID:         saleID,
		SaleLineID:     uuid.MustParse(req.LineID),
		Quantity:       req.Quantity,
		ReturnType:     trade.ReturnType(req.ReturnType),
		Amount:         req.Amount,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// RecordSupplierReturn handles POST /purchases/:id/returns
func (h *LedgerHandler) RecordSupplierReturn(c *gin.Context) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	purchaseID, ok := bindID(c)
	if !ok {
		return
	}
	var req RecordReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.recorder.RecordSupplierReturn(c.Request.Context(), ledger.RecordSupplierReturnInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		PurchaseID:     purchaseID,
		PurchaseLineID: uuid.MustParse(req.LineID),
		Quantity:       req.Quantity,
		ReturnType:     trade.ReturnType(req.ReturnType),
		Amount:         req.Amount,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// RecordStockAdjustmentRequest is the request body for POST /stock-adjustments
type RecordStockAdjustmentRequest struct {
	ItemID   string          `json:"item_id" binding:"required,uuid"`
	Type     string          `json:"type" binding:"required,oneof=INCREASE DECREASE"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason" binding:"required,max=512"`
}

// RecordStockAdjustment handles POST /stock-adjustments
func (h *LedgerHandler) RecordStockAdjustment(c *gin.Context) {
	tenantID, actor, key, ok := h.writeContext(c)
	if !ok {
		return
	}
	var req RecordStockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	result, err := h.recorder.RecordStockAdjustment(c.Request.Context(), ledger.RecordStockAdjustmentInput{
		TenantID:       tenantID,
		Actor:          actor,
		IdempotencyKey: key,
		ItemID:         uuid.MustParse(req.ItemID),
		Type:           inventory.AdjustmentType(req.Type),
		Quantity:       req.Quantity,
		Reason:         req.Reason,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.respondRecorded(c, result.Replayed, result)
}

// SendBalanceReminder handles POST /customers/:id/reminders
func (h *LedgerHandler) SendBalanceReminder(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	customerID, ok := bindID(c)
	if !ok {
		return
	}

	result, err := h.recorder.SendBalanceReminder(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(result))
}
