package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healsync/dispatch/pkg/application/apperrors"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
)

type failingAdvisor struct{}

func (failingAdvisor) Advise(context.Context, risk.AdvisoryRequest) (string, error) {
	return "", errors.New("model offline")
}

func TestNew_DisabledUsesStatic(t *testing.T) {
	advisor := New(DefaultConfig(), nil)
	_, ok := advisor.(StaticGenerator)
	require.True(t, ok, "expected static generator when disabled")

	text, err := advisor.Advise(context.Background(), risk.AdvisoryRequest{Severity: risk.SeverityElevated})
	require.NoError(t, err)
	assert.Equal(t, risk.StaticAdvisory(risk.SeverityElevated), text)
}

func TestFallbackGenerator(t *testing.T) {
	g := NewFallbackGenerator(failingAdvisor{}, nil)

	text, err := g.Advise(context.Background(), risk.AdvisoryRequest{Severity: risk.SeverityCritical})
	require.NoError(t, err)
	assert.Equal(t, risk.StaticAdvisory(risk.SeverityCritical), text)

	text, err = NewFallbackGenerator(nil, nil).Advise(context.Background(), risk.AdvisoryRequest{Severity: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, risk.NoAdvisory, text)
}

func TestHTTPGenerator_Success(t *testing.T) {
	var received risk.AdvisoryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]string{"advisory": "Open overflow wards"})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.URL = server.URL

	text, err := New(cfg, nil).Advise(context.Background(), risk.AdvisoryRequest{
		Severity:     risk.SeverityCritical,
		CPSScore:     82.5,
		DiseaseStats: map[string]int64{"dengue": 220},
	})
	require.NoError(t, err)
	assert.Equal(t, "Open overflow wards", text)
	assert.Equal(t, risk.SeverityCritical, received.Severity)
	assert.Equal(t, int64(220), received.DiseaseStats["dengue"])
}

func TestHTTPGenerator_CircuitOpens(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var observed []int
	g := NewHTTPGenerator(Config{
		URL:              server.URL,
		Timeout:          time.Second,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		OnStateChange:    func(_ string, state int) { observed = append(observed, state) },
	}, nil)
	req := risk.AdvisoryRequest{Severity: risk.SeverityElevated}

	for i := 0; i < 2; i++ {
		_, err := g.Advise(context.Background(), req)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())
	assert.Equal(t, []int{int(gobreaker.StateOpen)}, observed)

	_, err := g.Advise(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open circuit should not reach the server")
}

func TestHTTPGenerator_EmptyAdvisory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"advisory":""}`))
	}))
	defer server.Close()

	g := NewHTTPGenerator(Config{URL: server.URL, Timeout: time.Second}, nil)
	_, err := g.Advise(context.Background(), risk.AdvisoryRequest{Severity: risk.SeverityCritical})
	assert.Error(t, err)
}
