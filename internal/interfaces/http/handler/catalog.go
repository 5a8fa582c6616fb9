package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpos/backend/internal/application/catalog"
	"github.com/ledgerpos/backend/internal/domain/audit"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/tenant"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"github.com/ledgerpos/backend/internal/interfaces/http/dto"
)

// Catalog is the slice of the catalog service the handler depends on
type Catalog interface {
	CreateTenant(ctx context.Context, input catalog.CreateTenantInput) (*tenant.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	CreateItem(ctx context.Context, tenantID uuid.UUID, input catalog.CreateItemInput) (*inventory.Item, error)
	GetItem(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error)
	ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error)
	ListStockAdjustments(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockAdjustment, error)
	CreateCustomer(ctx context.Context, tenantID uuid.UUID, input catalog.CreatePartnerInput) (*partner.Customer, error)
	GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error)
	ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error)
	CreateSupplier(ctx context.Context, tenantID uuid.UUID, input catalog.CreatePartnerInput) (*partner.Supplier, error)
	GetSupplier(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error)
	GetSale(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error)
	ListSales(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error)
	GetPurchase(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error)
	ListPurchases(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error)
	ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]audit.Log, error)
}

// CatalogHandler exposes master-data and read routes
type CatalogHandler struct {
	BaseHandler
	service Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service Catalog) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes on the given group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tenants", h.CreateTenant)
	rg.GET("/tenants/:id", h.GetTenant)
	rg.POST("/items", h.CreateItem)
	rg.GET("/items", h.ListItems)
	rg.GET("/items/:id", h.GetItem)
	rg.GET("/items/:id/adjustments", h.ListStockAdjustments)
	rg.POST("/customers", h.CreateCustomer)
	rg.GET("/customers", h.ListCustomers)
	rg.GET("/customers/:id", h.GetCustomer)
	rg.POST("/suppliers", h.CreateSupplier)
	rg.GET("/suppliers", h.ListSuppliers)
	rg.GET("/suppliers/:id", h.GetSupplier)
	rg.GET("/sales", h.ListSales)
	rg.GET("/sales/:id", h.GetSale)
	rg.GET("/purchases", h.ListPurchases)
	rg.GET("/purchases/:id", h.GetPurchase)
	rg.GET("/audit-logs", h.ListAuditLogs)
}

// TenantResponse is the wire shape of a tenant
type TenantResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	Currency           string    `json:"currency"`
	AllowBackorder     bool      `json:"allow_backorder"`
	EnforceCreditLimit bool      `json:"enforce_credit_limit"`
	CreatedAt          time.Time `json:"created_at"`
}

func toTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		Status:             string(t.Status),
		Currency:           string(t.Config.Currency),
		AllowBackorder:     t.Config.AllowBackorder,
		EnforceCreditLimit: t.Config.EnforceCreditLimit,
		CreatedAt:          t.CreatedAt,
	}
}

// CreateTenantRequest is the request body for POST /tenants
type CreateTenantRequest struct {
	Code               string `json:"code" binding:"required,max=50"`
	Name               string `json:"name" binding:"required,max=200"`
	Currency           string `json:"currency" binding:"omitempty,len=3"`
	AllowBackorder     bool   `json:"allow_backorder"`
	EnforceCreditLimit bool   `json:"enforce_credit_limit"`
}

// CreateTenant handles POST /tenants
func (h *CatalogHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	created, err := h.service.CreateTenant(c.Request.Context(), catalog.CreateTenantInput{
		Code:             req.Code,
		Name:             req.Name,
		Currency:         req.Currency,
		AllowBackorder:   req.AllowBackorder,
		EnforceCreditMax: req.EnforceCreditLimit,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, toTenantResponse(created))
}

// GetTenant handles GET /tenants/:id
func (h *CatalogHandler) GetTenant(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	t, err := h.service.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toTenantResponse(t))
}

// ItemResponse is the wire shape of an item
type ItemResponse struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Manufacturer   string           `json:"manufacturer,omitempty"`
	OnHandQuantity decimal.Decimal  `json:"on_hand_quantity"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price,omitempty"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty"`
	PromoPrice     *decimal.Decimal `json:"promo_price,omitempty"`
	Version        int              `json:"version"`
}

func toItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:             item.ID,
		SKU:            item.SKU,
		Name:           item.Name,
		Manufacturer:   item.Manufacturer,
		OnHandQuantity: item.OnHandQuantity,
		CostPrice:      item.CostPrice,
		SellingPrice:   item.SellingPrice,
		RetailPrice:    item.RetailPrice,
		WholesalePrice: item.WholesalePrice,
		PromoPrice:     item.PromoPrice,
		Version:        item.Version,
	}
}

// CreateItemRequest is the request body for POST /items
type CreateItemRequest struct {
	SKU            string           `json:"sku" binding:"required,max=50"`
	Name           string           `json:"name" binding:"required,max=200"`
	Manufacturer   string           `json:"manufacturer" binding:"omitempty,max=200"`
	CostPrice      decimal.Decimal  `json:"cost_price"`
	SellingPrice   decimal.Decimal  `json:"selling_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	PromoPrice     *decimal.Decimal `json:"promo_price"`
}

// CreateItem handles POST /items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), tenantID, catalog.CreateItemInput{
		SKU:            req.SKU,
		Name:           req.Name,
		Manufacturer:   req.Manufacturer,
		CostPrice:      req.CostPrice,
		SellingPrice:   req.SellingPrice,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		PromoPrice:     req.PromoPrice,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, toItemResponse(item))
}

// GetItem handles GET /items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}
	item, err := h.service.GetItem(c.Request.Context(), tenantID, id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toItemResponse(item))
}

// ListItems handles GET /items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListItems(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// StockAdjustmentResponse is the wire shape of a stock adjustment
type StockAdjustmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reason         string          `json:"reason"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	AdjustedAt     time.Time       `json:"adjusted_at"`
}

// ListStockAdjustments handles GET /items/:id/adjustments
func (h *CatalogHandler) ListStockAdjustments(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	itemID, ok := bindID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	adjustments, err := h.service.ListStockAdjustments(c.Request.Context(), tenantID, itemID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]StockAdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		out = append(out, StockAdjustmentResponse{
			ID:             a.ID,
			ItemID:         a.ItemID,
			Type:           string(a.Type),
			Quantity:       a.Quantity,
			Reason:         a.Reason,
			QuantityBefore: a.QuantityBefore,
			QuantityAfter:  a.QuantityAfter,
			AdjustedAt:     a.AdjustedAt,
		})
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// PartnerResponse is the wire shape of a customer or supplier
type PartnerResponse struct {
	ID          uuid.UUID        `json:"id"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone,omitempty"`
	Status      string           `json:"status"`
	Balance     decimal.Decimal  `json:"balance"`
	CreditLimit *decimal.Decimal `json:"credit_limit,omitempty"`
	Version     int              `json:"version"`
}

func toCustomerResponse(c *partner.Customer) PartnerResponse {
	limit := c.CreditLimit
	return PartnerResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Phone:       c.Phone,
		Status:      string(c.Status),
		Balance:     c.Balance,
		CreditLimit: &limit,
		Version:     c.Version,
	}
}

func toSupplierResponse(s *partner.Supplier) PartnerResponse {
	return PartnerResponse{
		ID:      s.ID,
		Code:    s.Code,
		Name:    s.Name,
		Phone:   s.Phone,
		Status:  string(s.Status),
		Balance: s.Balance,
		Version: s.Version,
	}
}

// CreatePartnerRequest is the request body for customer and supplier creation
type CreatePartnerRequest struct {
	Code        string           `json:"code" binding:"required,max=50"`
	Name        string           `json:"name" binding:"required,max=200"`
	Phone       string           `json:"phone" binding:"omitempty,max=50"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// CreateCustomer handles POST /customers
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), tenantID, catalog.CreatePartnerInput{
		Code:        req.Code,
		Name:        req.Name,
		Phone:       req.Phone,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, toCustomerResponse(customer))
}

// GetCustomer handles GET /customers/:id
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), tenantID, id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(customer))
}

// ListCustomers handles GET /customers
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	customers, err := h.service.ListCustomers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]PartnerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, toCustomerResponse(&customers[i]))
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// CreateSupplier handles POST /suppliers
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	supplier, err := h.service.CreateSupplier(c.Request.Context(), tenantID, catalog.CreatePartnerInput{
		Code:  req.Code,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Created(c, toSupplierResponse(supplier))
}

// GetSupplier handles GET /suppliers/:id
func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}
	supplier, err := h.service.GetSupplier(c.Request.Context(), tenantID, id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// ListSuppliers handles GET /suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	suppliers, err := h.service.ListSuppliers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]PartnerResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, toSupplierResponse(&suppliers[i]))
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// SaleLineResponse is the wire shape of a sale line
type SaleLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse is the wire shape of a sale
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"`
	CustomerID  *uuid.UUID         `json:"customer_id,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	PaidAmount  decimal.Decimal    `json:"paid_amount"`
	PaymentType string             `json:"payment_type"`
	SoldAt      time.Time          `json:"sold_at"`
	Lines       []SaleLineResponse `json:"lines,omitempty"`
}

func toSaleResponse(s *trade.Sale) SaleResponse {
	resp := SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		TotalAmount: s.TotalAmount,
		PaidAmount:  s.PaidAmount,
		PaymentType: string(s.PaymentType),
		SoldAt:      s.SoldAt,
	}
	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return resp
}

// GetSale handles GET /sales/:id
func (h *CatalogHandler) GetSale(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}
	sale, err := h.service.GetSale(c.Request.Context(), tenantID, id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toSaleResponse(sale))
}

// ListSales handles GET /sales
func (h *CatalogHandler) ListSales(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	sales, err := h.service.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, toSaleResponse(&sales[i]))
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// PurchaseLineResponse is the wire shape of a purchase line
type PurchaseLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PurchaseResponse is the wire shape of a purchase
type PurchaseResponse struct {
	ID          uuid.UUID              `json:"id"`
	SupplierID  uuid.UUID              `json:"supplier_id"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	PaidAmount  decimal.Decimal        `json:"paid_amount"`
	PaymentType string                 `json:"payment_type"`
	PurchasedAt time.Time              `json:"purchased_at"`
	Lines       []PurchaseLineResponse `json:"lines,omitempty"`
}

func toPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		TotalAmount: p.TotalAmount,
		PaidAmount:  p.PaidAmount,
		PaymentType: string(p.PaymentType),
		PurchasedAt: p.PurchasedAt,
	}
	for _, line := range p.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: line.LineTotal,
		})
	}
	return resp
}

// GetPurchase handles GET /purchases/:id
func (h *CatalogHandler) GetPurchase(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := bindID(c)
	if !ok {
		return
	}
	purchase, err := h.service.GetPurchase(c.Request.Context(), tenantID, id)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	h.Success(c, toPurchaseResponse(purchase))
}

// ListPurchases handles GET /purchases
func (h *CatalogHandler) ListPurchases(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	purchases, err := h.service.ListPurchases(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, toPurchaseResponse(&purchases[i]))
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}

// AuditLogResponse is the wire shape of an audit entry
type AuditLogResponse struct {
	ID          uuid.UUID `json:"id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	ReferenceID uuid.UUID `json:"reference_id"`
	Entities    string    `json:"entities"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ListAuditLogs handles GET /audit-logs
func (h *CatalogHandler) ListAuditLogs(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if actor := c.Query("actor"); actor != "" {
		filter.Filters["actor"] = actor
	}
	logs, err := h.service.ListAuditLogs(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.DomainError(c, err)
		return
	}
	out := make([]AuditLogResponse, 0, len(logs))
	for _, entry := range logs {
		out = append(out, AuditLogResponse{
			ID:          entry.ID,
			Actor:       entry.Actor,
			Action:      string(entry.Action),
			ReferenceID: entry.ReferenceID,
			Entities:    entry.Entities,
			OccurredAt:  entry.OccurredAt,
		})
	}
	h.SuccessWithMeta(c, out, int64(len(out)), filter.Page, filter.PageSize)
}
