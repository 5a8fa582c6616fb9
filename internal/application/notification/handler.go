package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// CustomerDirectory resolves customers for outbound messages. The partner
// repository satisfies it.
type CustomerDirectory interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error)
}

// BalanceReminderHandler subscribes to balance reminder events and sends the
// customer an SMS with their outstanding balance. Delivery is at-most-once per
// event: the idempotency store drops duplicates from event redelivery.
type BalanceReminderHandler struct {
	directory CustomerDirectory
	notifier  Notifier
	store     shared.IdempotencyStore
	cfg       shared.IdempotencyConfig
	logger    *zap.Logger
}

// NewBalanceReminderHandler creates a new balance reminder handler
func NewBalanceReminderHandler(directory CustomerDirectory, notifier Notifier, store shared.IdempotencyStore, cfg shared.IdempotencyConfig, logger *zap.Logger) *BalanceReminderHandler {
	return &BalanceReminderHandler{
		directory: directory,
		notifier:  notifier,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *BalanceReminderHandler) EventTypes() []string {
	return []string{trade.EventTypeBalanceReminder}
}

// Handle sends the reminder SMS for a balance reminder event
func (h *BalanceReminderHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	reminder, ok := event.(*trade.BalanceReminderEvent)
	if !ok {
		return nil
	}

	if h.cfg.Enabled {
		fresh, err := h.store.MarkProcessed(ctx, event.EventID().String(), h.cfg.TTL)
		if err != nil {
			// A store outage degrades to at-least-once delivery.
			h.logger.Warn("idempotency store unavailable, proceeding without dedupe",
				zap.Error(err), zap.String("event_id", event.EventID().String()))
		} else if !fresh {
			h.logger.Debug("skipping already processed event",
				zap.String("event_id", event.EventID().String()))
			return nil
		}
	}

	customer, err := h.directory.FindByIDForTenant(ctx, reminder.TenantID(), reminder.CustomerID)
	if err != nil {
		return err
	}
	if customer.Phone == "" {
		h.logger.Warn("customer has no phone number, reminder dropped",
			zap.String("customer_id", customer.ID.String()))
		return nil
	}

	message := fmt.Sprintf("Hello %s, you have an outstanding balance of %s %s. Please arrange payment.",
		customer.Name, reminder.Balance.Currency(), reminder.Balance.Amount().StringFixed(2))
	if err := h.notifier.Send(ctx, customer.Phone, message); err != nil {
		return fmt.Errorf("send balance reminder: %w", err)
	}

	h.logger.Info("balance reminder sent",
		zap.String("tenant_id", reminder.TenantID().String()),
		zap.String("customer_id", customer.ID.String()),
	)
	return nil
}
