package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/erazemk/musemate/internal/metrics"
	"github.com/erazemk/musemate/internal/store"
)

// Saver writes store snapshots to a backend. With a zero interval every
// snapshot is written as soon as it arrives; otherwise snapshots arriving
// within the interval are coalesced into one write of the latest.
//
// A payload identical to the last one written is not written again.
type Saver struct {
	backend  Backend
	interval time.Duration
	metrics  *metrics.Metrics

	// writeMu serialises writes so an older snapshot never lands after a
	// newer one.
	writeMu  sync.Mutex
	lastHash [blake2b.Size256]byte
	written  bool

	mu      sync.Mutex
	pending *store.State
	timer   *time.Timer
	closed  bool
}

// SaverOption configures a Saver.
type SaverOption func(*Saver)

// WithMetrics records writes, skips and failures on m.
func WithMetrics(m *metrics.Metrics) SaverOption {
	return func(s *Saver) { s.metrics = m }
}

// NewSaver creates a saver writing to backend.
func NewSaver(backend Backend, interval time.Duration, opts ...SaverOption) *Saver {
	s := &Saver{backend: backend, interval: interval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hook is a store.Hook that hands every new snapshot to the saver.
func (s *Saver) Hook(op string, state store.State) {
	s.Notify(state)
}

// Notify records a new snapshot. Errors are logged and counted, never
// returned.
func (s *Saver) Notify(state store.State) {
	s.mu.Lock()
	if s.interval <= 0 || s.closed {
		s.pending = nil
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.mu.Unlock()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		_ = s.write(context.Background(), state)
		return
	}

	s.pending = &state
	if s.timer == nil {
		s.timer = time.AfterFunc(s.interval, s.fire)
	}
	s.mu.Unlock()
}

func (s *Saver) fire() {
	_ = s.Flush(context.Background())
}

// Flush writes the pending snapshot, if any, immediately.
func (s *Saver) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	state := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if state == nil {
		return nil
	}

	if err := s.write(ctx, *state); err != nil {
		// Keep it for the next flush unless a newer snapshot arrived.
		s.mu.Lock()
		if s.pending == nil {
			s.pending = state
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Close flushes the pending snapshot. Snapshots arriving afterwards are
// written synchronously.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

// write must be called with writeMu held.
func (s *Saver) write(ctx context.Context, state store.State) error {
	data, err := Encode(state)
	if err != nil {
		s.countFailure()
		slog.Error("failed to encode state", "error", err)
		return err
	}

	hash := blake2b.Sum256(data)
	if s.written && hash == s.lastHash {
		if s.metrics != nil {
			s.metrics.WritesSkipped.Inc()
		}
		return nil
	}

	if err := s.backend.Save(ctx, Key, data); err != nil {
		s.countFailure()
		slog.Error("failed to save state", "error", err)
		return err
	}

	s.lastHash = hash
	s.written = true
	if s.metrics != nil {
		s.metrics.Writes.Inc()
		s.metrics.WriteBytes.Observe(float64(len(data)))
	}
	return nil
}

func (s *Saver) countFailure() {
	if s.metrics != nil {
		s.metrics.WriteFailures.Inc()
	}
}
