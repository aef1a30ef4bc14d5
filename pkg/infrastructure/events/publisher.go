package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/healsync/dispatch/pkg/infrastructure/logging"
)

// Publisher delivers events to one transport
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event Event) error
	Close() error
}

// StorePublisher appends events to an EventStore under their stream ID
type StorePublisher struct {
	store EventStore
}

var _ Publisher = (*StorePublisher)(nil)

// NewStorePublisher creates a new StorePublisher
func NewStorePublisher(store EventStore) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Name() string { return "memory" }

func (p *StorePublisher) Publish(_ context.Context, event Event) error {
	if err := p.store.AppendEvent(event.StreamID(), event); err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.Type(), err)
	}
	return nil
}

func (p *StorePublisher) Close() error { return nil }

// MultiPublisher fans every event out to all configured transports.
// A failing transport does not stop delivery to the others.
type MultiPublisher struct {
	publishers []Publisher
	logger     *logging.Logger
}

var _ Publisher = (*MultiPublisher)(nil)

// NewMultiPublisher creates a new MultiPublisher
func NewMultiPublisher(logger *logging.Logger, publishers ...Publisher) *MultiPublisher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MultiPublisher{publishers: publishers, logger: logger.WithComponent("publisher")}
}

func (m *MultiPublisher) Name() string { return "multi" }

// Publish delivers to every transport and joins their errors
func (m *MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m.publishers {
		err := p.Publish(ctx, event)
		m.logger.Publish(ctx, p.Name(), event.Type(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// PublishAll publishes events in order and returns the joined errors
func (m *MultiPublisher) PublishAll(ctx context.Context, events []Event) error {
	var errs []error
	for _, e := range events {
		if err := m.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of configured transports
func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}
	return errors.Join(errs...)
}
