package notification

import "context"

// Notifier delivers a short text message to a phone number. The SMS gateway
// client in the infrastructure layer is the production implementation.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}
