package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/healsync/dispatch/pkg/application/apperrors"
	"github.com/healsync/dispatch/pkg/domain/services/risk"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
)

type advisoryResponse struct {
	Advisory string `json:"advisory"`
}

// HTTPGenerator posts advisory requests to a remote text generator behind a circuit breaker
type HTTPGenerator struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.Logger
}

var _ risk.Advisor = (*HTTPGenerator)(nil)

// NewHTTPGenerator creates a new HTTPGenerator
func NewHTTPGenerator(cfg Config, logger *logging.Logger) *HTTPGenerator {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("advisory-http")

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "advisory",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, int(to))
			}
		},
	}

	return &HTTPGenerator{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

// State returns the circuit breaker state
func (g *HTTPGenerator) State() gobreaker.State {
	return g.breaker.State()
}

// Advise requests advisory text from the remote generator
func (g *HTTPGenerator) Advise(ctx context.Context, req risk.AdvisoryRequest) (string, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("advisory generator: %w: %v", apperrors.ErrUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (g *HTTPGenerator) post(ctx context.Context, req risk.AdvisoryRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal advisory request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded advisoryResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if decoded.Advisory == "" {
		return "", fmt.Errorf("advisory response was empty")
	}
	return decoded.Advisory, nil
}
