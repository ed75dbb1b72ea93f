package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesLevelAndServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "portal-service", Config{Level: "warn"})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "portal-service", entry["service"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "svc", Config{Level: "loud"})

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, "svc", Config{Level: "info"})

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Get("/api/v1/round3/answers/{year}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/round3/answers/2", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "/api/v1/round3/answers/{year}", entry["route"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}
