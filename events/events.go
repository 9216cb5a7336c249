// Package events publishes a message for every converted ReSpecTh file so
// that downstream simulation runners can pick up new dictionaries.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// ConversionEvent describes the outcome of one file conversion.
type ConversionEvent struct {
	RunID          string    `json:"run_id"`
	File           string    `json:"file"`
	ExperimentType string    `json:"experiment_type,omitempty"`
	Model          string    `json:"model,omitempty"`
	Status         string    `json:"status"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	Message        string    `json:"message,omitempty"`
	Dictionary     string    `json:"dictionary,omitempty"`
	Profiles       []string  `json:"profiles,omitempty"`
	Simulations    int       `json:"simulations,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher sends conversion events.
type Publisher interface {
	Publish(ctx context.Context, ev ConversionEvent) error
	Close() error
}

// CloseTimeout bounds how long Close waits for pending events to drain.
const CloseTimeout = 5 * time.Second

// ErrCloseTimeout is returned when the connection does not close within
// CloseTimeout.
var ErrCloseTimeout = errors.New("timed out waiting for NATS connection to close")

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	closed  chan struct{}
}

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	closed := make(chan struct{})
	conn, err := nats.Connect(url,
		nats.Name("respecthconv"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.Timeout(2*time.Second),
		nats.DrainTimeout(CloseTimeout),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", "url", conn.ConnectedUrl(), "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject, logger: logger, closed: closed}, nil
}

// Publish marshals ev and publishes it.
func (p *NATSPublisher) Publish(ctx context.Context, ev ConversionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	p.logger.Debug("Published conversion event", "subject", p.subject, "file", ev.File, "status", ev.Status)
	return nil
}

// Close drains pending messages and returns once the connection is closed.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("drain NATS connection: %w", err)
	}
	if err := awaitClosed(p.closed, CloseTimeout); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// awaitClosed blocks until closed is closed or timeout elapses.
func awaitClosed(closed <-chan struct{}, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-closed:
		return nil
	case <-timer.C:
		return ErrCloseTimeout
	}
}

// Noop discards every event.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, ConversionEvent) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []ConversionEvent
	closed bool
}

// Publish appends ev.
func (r *Recorder) Publish(ctx context.Context, ev ConversionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []ConversionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConversionEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
