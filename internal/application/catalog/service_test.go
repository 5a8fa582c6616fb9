package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/shared/valueobject"
	"github.com/ledgerpos/backend/internal/domain/tenant"
)

type memTenantRepo struct {
	byID map[uuid.UUID]*tenant.Tenant
}

func (r *memTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if t, ok := r.byID[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTenantRepo) FindByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	for _, t := range r.byID {
		if t.Code == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTenantRepo) Save(ctx context.Context, t *tenant.Tenant) error {
	copied := *t
	r.byID[t.ID] = &copied
	return nil
}

type memItemRepo struct {
	byID map[uuid.UUID]*inventory.Item
}

func (r *memItemRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Item, error) {
	if item, ok := r.byID[id]; ok && item.TenantID == tenantID {
		copied := *item
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*inventory.Item, error) {
	for _, item := range r.byID {
		if item.TenantID == tenantID && item.SKU == sku {
			copied := *item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, item := range r.byID {
		if item.TenantID == tenantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memItemRepo) Save(ctx context.Context, item *inventory.Item) error {
	copied := *item
	r.byID[item.ID] = &copied
	return nil
}

type memCustomerRepo struct {
	byID map[uuid.UUID]*partner.Customer
}

func (r *memCustomerRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := r.byID[id]; ok && c.TenantID == tenantID {
		copied := *c
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	for _, c := range r.byID {
		if c.TenantID == tenantID && c.Code == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.byID {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) Save(ctx context.Context, c *partner.Customer) error {
	copied := *c
	r.byID[c.ID] = &copied
	return nil
}

// memUnitOfWork hands the same repo set to every callback; catalog operations
// are single-aggregate so transactionality is not under test here.
type memUnitOfWork struct {
	repos ledger.Repos
}

func (u *memUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos ledger.Repos) error) error {
	return fn(ctx, u.repos)
}

func newTestService(t *testing.T) (*Service, *memTenantRepo, *memItemRepo, *memCustomerRepo) {
	t.Helper()
	tenants := &memTenantRepo{byID: make(map[uuid.UUID]*tenant.Tenant)}
	items := &memItemRepo{byID: make(map[uuid.UUID]*inventory.Item)}
	customers := &memCustomerRepo{byID: make(map[uuid.UUID]*partner.Customer)}
	uow := &memUnitOfWork{repos: ledger.Repos{
		Tenants:   tenants,
		Items:     items,
		Customers: customers,
	}}
	return NewService(uow, zap.NewNop()), tenants, items, customers
}

func seedTenant(t *testing.T, repo *memTenantRepo) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant("SHOP-1", "Adjei Trading")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), tn))
	return tn
}

func TestService_CreateTenant(t *testing.T) {
	t.Run("creates active tenant with config", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)

		created, err := svc.CreateTenant(context.Background(), CreateTenantInput{
			Code:           "shop-1",
			Name:           "Adjei Trading",
			Currency:       "GHS",
			AllowBackorder: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "SHOP-1", created.Code)
		assert.True(t, created.IsActive())
		assert.True(t, created.Config.AllowBackorder)

		stored, err := tenants.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, valueobject.GHS, stored.Config.Currency)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		seedTenant(t, tenants)

		_, err := svc.CreateTenant(context.Background(), CreateTenantInput{Code: "SHOP-1", Name: "Other"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestService_CreateItem(t *testing.T) {
	t.Run("creates item with zero stock", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		tn := seedTenant(t, tenants)

		item, err := svc.CreateItem(context.Background(), tn.ID, CreateItemInput{
			SKU:          "milo-400g",
			Name:         "Milo 400g",
			CostPrice:    decimal.NewFromInt(20),
			SellingPrice: decimal.NewFromInt(28),
		})
		require.NoError(t, err)
		assert.Equal(t, "MILO-400G", item.SKU)
		assert.True(t, item.OnHandQuantity.IsZero())
	})

	t.Run("rejects duplicate sku", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		tn := seedTenant(t, tenants)

		input := CreateItemInput{
			SKU:          "MILO-400G",
			Name:         "Milo 400g",
			CostPrice:    decimal.NewFromInt(20),
			SellingPrice: decimal.NewFromInt(28),
		}
		_, err := svc.CreateItem(context.Background(), tn.ID, input)
		require.NoError(t, err)

		_, err = svc.CreateItem(context.Background(), tn.ID, input)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects suspended tenant", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		tn := seedTenant(t, tenants)
		stored := tenants.byID[tn.ID]
		require.NoError(t, stored.Suspend())

		_, err := svc.CreateItem(context.Background(), tn.ID, CreateItemInput{
			SKU:          "MILO-400G",
			Name:         "Milo 400g",
			CostPrice:    decimal.NewFromInt(20),
			SellingPrice: decimal.NewFromInt(28),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_NOT_ACTIVE", domainErr.Code)
	})
}

func TestService_CreateCustomer(t *testing.T) {
	t.Run("creates customer with credit limit", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		tn := seedTenant(t, tenants)

		limit := decimal.NewFromInt(500)
		customer, err := svc.CreateCustomer(context.Background(), tn.ID, CreatePartnerInput{
			Code:        "cust-1",
			Name:        "Ama Mensah",
			Phone:       "+233201234567",
			CreditLimit: &limit,
		})
		require.NoError(t, err)
		assert.Equal(t, "CUST-1", customer.Code)
		assert.True(t, customer.CreditLimit.Equal(limit))
		assert.True(t, customer.Balance.IsZero())
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, tenants, _, _ := newTestService(t)
		tn := seedTenant(t, tenants)

		input := CreatePartnerInput{Code: "CUST-1", Name: "Ama Mensah"}
		_, err := svc.CreateCustomer(context.Background(), tn.ID, input)
		require.NoError(t, err)

		_, err = svc.CreateCustomer(context.Background(), tn.ID, input)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestService_ListItems(t *testing.T) {
	svc, tenants, items, _ := newTestService(t)
	tn := seedTenant(t, tenants)

	item, err := inventory.NewItem(tn.ID, "MILO-400G", "Milo 400g", decimal.NewFromInt(20), decimal.NewFromInt(28))
	require.NoError(t, err)
	require.NoError(t, items.Save(context.Background(), item))

	other, err := inventory.NewItem(uuid.New(), "OTHER", "Other tenant item", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, items.Save(context.Background(), other))

	listed, err := svc.ListItems(context.Background(), tn.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "MILO-400G", listed[0].SKU)
}

func TestService_GetCustomer_NotFound(t *testing.T) {
	svc, tenants, _, _ := newTestService(t)
	tn := seedTenant(t, tenants)

	_, err := svc.GetCustomer(context.Background(), tn.ID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
