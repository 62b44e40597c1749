package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentLedger, Handler: NewTextHandler(&buf, slog.LevelDebug)})

	l.Info("hello", FieldAmount, "10.50")
	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "amount=10.50")

	buf.Reset()
	l.WithComponent(ComponentHTTP).Warn("again")
	assert.Contains(t, buf.String(), "component=http")
	assert.NotContains(t, buf.String(), "component=ledger")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Component: ComponentHTTP, Handler: NewTextHandler(&buf, slog.LevelInfo)})

	h := RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(NewContext(req.Context(), base))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=req-1")
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentTrace, Handler: NewTextHandler(&buf, slog.LevelInfo)}))
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)

	sl.LogHTTPEnd(context.Background(), req, http.StatusServiceUnavailable, 3, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("disk full"), OpAppend, nil)
	assert.Contains(t, buf.String(), "error=\"disk full\"")
	assert.Contains(t, buf.String(), "operation=append")
}
