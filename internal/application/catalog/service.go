// Package catalog manages the master data the ledger operates on: tenants,
// items, customers and suppliers. Unlike the transaction coordinator it has no
// retry loop; catalog writes are single-aggregate and a concurrency conflict
// is surfaced to the caller as-is.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/domain/audit"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/ledgerpos/backend/internal/domain/tenant"
	"github.com/ledgerpos/backend/internal/domain/trade"
)

// Service exposes master-data operations backed by the same unit of work the
// transaction coordinator uses, so catalog writes share its atomicity rules.
type Service struct {
	uow    ledger.UnitOfWork
	logger *zap.Logger
}

// NewService creates a new catalog service
func NewService(uow ledger.UnitOfWork, logger *zap.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateTenantInput carries the fields for registering a tenant
type CreateTenantInput struct {
	Code             string
	Name             string
	Currency         string
	AllowBackorder   bool
	EnforceCreditMax bool
}

// CreateTenant registers a new tenant. The code must be unique.
func (s *Service) CreateTenant(ctx context.Context, input CreateTenantInput) (*tenant.Tenant, error) {
	t, err := tenant.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Currency != "" {
		t.Config.Currency = valueobject.Currency(input.Currency)
	}
	if input.AllowBackorder {
		t.EnableBackorder()
	}
	if input.EnforceCreditMax {
		t.EnableCreditLimit()
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		existing, err := repos.Tenants.FindByCode(ctx, t.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}
		return repos.Tenants.Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("code", t.Code),
	)
	return t, nil
}

// GetTenant loads a tenant by ID
func (s *Service) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var out *tenant.Tenant
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		t, err := repos.Tenants.FindByID(ctx, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

// CreateItemInput carries the fields for registering an item
type CreateItemInput struct {
	SKU            string
	Name           string
	Manufacturer   string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	RetailPrice    *decimal.Decimal
	WholesalePrice *decimal.Decimal
	PromoPrice     *decimal.Decimal
}

// CreateItem registers a new item with zero on-hand quantity. The SKU must be
// unique within the tenant.
func (s *Service) CreateItem(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*inventory.Item, error) {
	item, err := inventory.NewItem(tenantID, input.SKU, input.Name, input.CostPrice, input.SellingPrice)
	if err != nil {
		return nil, err
	}
	if input.Manufacturer != "" {
		item.SetManufacturer(input.Manufacturer)
	}
	if err := item.SetTieredPrices(input.RetailPrice, input.WholesalePrice, input.PromoPrice); err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		if err := s.requireActiveTenant(ctx, repos, tenantID); err != nil {
			return err
		}
		existing, err := repos.Items.FindBySKU(ctx, tenantID, item.SKU)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}
		return repos.Items.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem loads an item by ID within a tenant
func (s *Service) GetItem(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	var out *inventory.Item
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		item, err := repos.Items.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		out = item
		return nil
	})
	return out, err
}

// ListItems returns a page of the tenant's items
func (s *Service) ListItems(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var out []inventory.Item
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		items, err := repos.Items.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = items
		return nil
	})
	return out, err
}

// ListStockAdjustments returns the adjustment history of one item
func (s *Service) ListStockAdjustments(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var out []inventory.StockAdjustment
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		adjustments, err := repos.StockAdjustments.FindByItem(ctx, tenantID, itemID, filter)
		if err != nil {
			return err
		}
		out = adjustments
		return nil
	})
	return out, err
}

// CreatePartnerInput carries the fields shared by customer and supplier creation
type CreatePartnerInput struct {
	Code        string
	Name        string
	Phone       string
	CreditLimit *decimal.Decimal
}

// CreateCustomer registers a new customer. The code must be unique within the
// tenant; the credit limit only binds when the tenant enforces it.
func (s *Service) CreateCustomer(ctx context.Context, tenantID uuid.UUID, input CreatePartnerInput) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(tenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		customer.SetPhone(input.Phone)
	}
	if input.CreditLimit != nil {
		if err := customer.SetCreditLimit(*input.CreditLimit); err != nil {
			return nil, err
		}
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		if err := s.requireActiveTenant(ctx, repos, tenantID); err != nil {
			return err
		}
		existing, err := repos.Customers.FindByCode(ctx, tenantID, customer.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}
		return repos.Customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer loads a customer by ID within a tenant
func (s *Service) GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var out *partner.Customer
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		customer, err := repos.Customers.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		out = customer
		return nil
	})
	return out, err
}

// ListCustomers returns a page of the tenant's customers
func (s *Service) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		customers, err := repos.Customers.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = customers
		return nil
	})
	return out, err
}

// CreateSupplier registers a new supplier. The code must be unique within the tenant.
func (s *Service) CreateSupplier(ctx context.Context, tenantID uuid.UUID, input CreatePartnerInput) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(tenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		supplier.SetPhone(input.Phone)
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		if err := s.requireActiveTenant(ctx, repos, tenantID); err != nil {
			return err
		}
		existing, err := repos.Suppliers.FindByCode(ctx, tenantID, supplier.Code)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}
		return repos.Suppliers.Save(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier loads a supplier by ID within a tenant
func (s *Service) GetSupplier(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var out *partner.Supplier
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		supplier, err := repos.Suppliers.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		out = supplier
		return nil
	})
	return out, err
}

// ListSuppliers returns a page of the tenant's suppliers
func (s *Service) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var out []partner.Supplier
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		suppliers, err := repos.Suppliers.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = suppliers
		return nil
	})
	return out, err
}

// GetSale loads a sale with its lines
func (s *Service) GetSale(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var out *trade.Sale
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		sale, err := repos.Sales.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		out = sale
		return nil
	})
	return out, err
}

// ListSales returns a page of the tenant's sales
func (s *Service) ListSales(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, error) {
	var out []trade.Sale
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		sales, err := repos.Sales.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = sales
		return nil
	})
	return out, err
}

// GetPurchase loads a purchase with its lines
func (s *Service) GetPurchase(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var out *trade.Purchase
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		purchase, err := repos.Purchases.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		out = purchase
		return nil
	})
	return out, err
}

// ListPurchases returns a page of the tenant's purchases
func (s *Service) ListPurchases(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, error) {
	var out []trade.Purchase
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		purchases, err := repos.Purchases.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = purchases
		return nil
	})
	return out, err
}

// ListAuditLogs returns a page of the tenant's audit trail
func (s *Service) ListAuditLogs(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	var out []audit.Log
	err := s.uow.Execute(ctx, func(ctx context.Context, repos ledger.Repos) error {
		logs, err := repos.AuditLogs.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		out = logs
		return nil
	})
	return out, err
}

func (s *Service) requireActiveTenant(ctx context.Context, repos ledger.Repos, tenantID uuid.UUID) error {
	t, err := repos.Tenants.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !t.IsActive() {
		return shared.NewDomainError("TENANT_NOT_ACTIVE", "Tenant cannot record transactions in its current status")
	}
	return nil
}
