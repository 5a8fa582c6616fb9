package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*SMSClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSMSClient(config.NotifyConfig{
		GatewayURL: server.URL,
		APIKey:     "test-key",
		SenderID:   "LedgerPOS",
		Timeout:    2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestNewSMSClient_RequiresGatewayURL(t *testing.T) {
	_, err := NewSMSClient(config.NotifyConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestSMSClient_Send(t *testing.T) {
	t.Run("posts message with auth header", func(t *testing.T) {
		var got smsRequest
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(smsResponse{Status: "queued", MessageID: "msg-1"})
		})

		err := client.Send(context.Background(), "+233201234567", "Hello Ama")
		require.NoError(t, err)
		assert.Equal(t, "+233201234567", got.To)
		assert.Equal(t, "LedgerPOS", got.From)
		assert.Equal(t, "Hello Ama", got.Message)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid recipient", http.StatusBadRequest)
		})

		err := client.Send(context.Background(), "bad", "Hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
	})

	t.Run("gateway-level rejection is an error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(smsResponse{Status: "failed", Error: "insufficient credits"})
		})

		err := client.Send(context.Background(), "+233201234567", "Hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient credits")
	})

	t.Run("cancelled context aborts the request", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Error(t, client.Send(ctx, "+233201234567", "Hello"))
	})
}
