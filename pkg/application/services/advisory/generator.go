// Package advisory supplies the advisory text attached to alerting city crisis
// assessments. The remote generator is optional and disabled by default.
package advisory

import (
	"context"
	"time"

	"github.com/healsync/dispatch/pkg/domain/services/risk"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
)

// Config controls which generator is built
type Config struct {
	Enabled          bool          `yaml:"enabled"`
	URL              string        `yaml:"url"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	// OnStateChange observes circuit breaker transitions as gobreaker state numbers
	OnStateChange func(name string, state int) `yaml:"-"`
}

// DefaultConfig returns a disabled configuration
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// StaticGenerator returns the built-in advisory for each severity
type StaticGenerator struct{}

var _ risk.Advisor = StaticGenerator{}

// Advise returns the static advisory text
func (StaticGenerator) Advise(_ context.Context, req risk.AdvisoryRequest) (string, error) {
	return risk.StaticAdvisory(req.Severity), nil
}

// FallbackGenerator tries a primary generator and falls back to static text on failure
type FallbackGenerator struct {
	primary risk.Advisor
	logger  *logging.Logger
}

var _ risk.Advisor = (*FallbackGenerator)(nil)

// NewFallbackGenerator wraps primary so that its failures never surface to callers
func NewFallbackGenerator(primary risk.Advisor, logger *logging.Logger) *FallbackGenerator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FallbackGenerator{primary: primary, logger: logger.WithComponent("advisory")}
}

// Advise returns the primary's advisory or the static text when it fails
func (g *FallbackGenerator) Advise(ctx context.Context, req risk.AdvisoryRequest) (string, error) {
	if g.primary != nil {
		text, err := g.primary.Advise(ctx, req)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			g.logger.WithContext(ctx).Warn("Advisory generator failed, using static advisory",
				"severity", req.Severity,
				"error", err.Error(),
			)
		}
	}
	return risk.StaticAdvisory(req.Severity), nil
}

// New builds the advisor described by cfg. A disabled or URL-less config yields the static generator.
func New(cfg Config, logger *logging.Logger) risk.Advisor {
	if !cfg.Enabled || cfg.URL == "" {
		return StaticGenerator{}
	}
	return NewFallbackGenerator(NewHTTPGenerator(cfg, logger), logger)
}
