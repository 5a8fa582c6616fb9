package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func accessLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "request completed" {
			return entry
		}
	}
	t.Fatal("no access log entry recorded")
	return observer.LoggedEntry{}
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "req-42"); c.Next() })
	r.Use(GinMiddleware(log))

	var ctxLogger *zap.Logger
	r.GET("/items", func(c *gin.Context) {
		ctxLogger = FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/items?search=milo", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("logs status, latency and request id", func(t *testing.T) {
		entry := accessLog(t, recorded)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)

		fields := map[string]zapcore.Field{}
		for _, f := range entry.Context {
			fields[f.Key] = f
		}
		assert.Equal(t, "req-42", fields["request_id"].String)
		assert.Equal(t, int64(http.StatusOK), fields["status"].Integer)
		assert.Contains(t, fields, "latency")
		assert.Contains(t, fields, "client_ip")
		assert.Equal(t, "search=milo", fields["query"].String)
	})

	t.Run("plants the request logger into the context", func(t *testing.T) {
		require.NotNil(t, ctxLogger)
		assert.NotEqual(t, zap.NewNop(), ctxLogger)
	})
}

func TestGinMiddleware_StatusLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs info", http.StatusCreated, zapcore.InfoLevel},
		{"4xx logs warn", http.StatusConflict, zapcore.WarnLevel},
		{"5xx logs error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			r := gin.New()
			r.Use(GinMiddleware(zap.New(core)))
			r.GET("/", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.level, accessLog(t, recorded).Level)
		})
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	assert.NotPanics(t, func() { r.ServeHTTP(w, req) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Message)
}
