// Package notify contains outbound messaging clients.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerpos/backend/internal/application/notification"
	"github.com/ledgerpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize caps the gateway response we read (64KB)
const maxResponseSize = 64 * 1024

// ErrGatewayNotConfigured indicates the SMS gateway URL is missing
var ErrGatewayNotConfigured = errors.New("notify: sms gateway not configured")

// SMSClient delivers text messages through an HTTP SMS gateway
type SMSClient struct {
	gatewayURL string
	apiKey     string
	senderID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSMSClient creates a new SMS gateway client
func NewSMSClient(cfg config.NotifyConfig, logger *zap.Logger) (*SMSClient, error) {
	if cfg.GatewayURL == "" {
		return nil, ErrGatewayNotConfigured
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &SMSClient{
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		senderID:   cfg.SenderID,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

type smsResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// Send posts one message to the gateway
func (c *SMSClient) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(smsRequest{
		To:      phone,
		From:    c.senderID,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read sms gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed smsResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return fmt.Errorf("sms gateway rejected message: %s", parsed.Error)
	}

	c.logger.Debug("sms delivered to gateway",
		zap.String("phone", phone),
		zap.String("message_id", parsed.MessageID),
	)
	return nil
}

// Ensure SMSClient implements notification.Notifier
var _ notification.Notifier = (*SMSClient)(nil)
