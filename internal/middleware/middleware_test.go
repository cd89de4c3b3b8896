package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var seenID string
	var ctxLoggerEnabled bool
	h := RequestID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		ctxLoggerEnabled = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seenID)
	require.NoError(t, err)
	assert.Equal(t, seenID, rr.Header().Get(RequestIDHeader))
	assert.True(t, ctxLoggerEnabled)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var done map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &done))
	assert.Equal(t, "request completed", done["message"])
	assert.Equal(t, "warn", done["level"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), done["status"])
	assert.Equal(t, seenID, done["request_id"])
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc-123", GetRequestID(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
