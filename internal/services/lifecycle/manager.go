package lifecycle

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// StopFunc releases one component during shutdown.
type StopFunc func(ctx context.Context) error

// Manager runs registered StopFuncs in reverse registration order when
// the process shuts down. Registration after Shutdown started is a
// no-op.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	names    []string
	stops    []StopFunc
	draining bool
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a named stop callback. Components registered last are
// stopped first, so the HTTP server drains before its stores close.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draining {
		m.logger.Warn("late lifecycle registration ignored", zap.String("component", name))
		return
	}
	m.names = append(m.names, name)
	m.stops = append(m.stops, stop)
}

// Notify derives a context that is cancelled on SIGTERM or SIGINT. The
// returned stop func restores default signal handling.
func (m *Manager) Notify(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
}

// Shutdown stops every registered component under the configured
// timeout and joins their errors.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	m.draining = true
	names := m.names
	stops := m.stops
	m.mu.Unlock()

	var errs []error
	for i := len(stops) - 1; i >= 0; i-- {
		if err := stops[i](ctx); err != nil {
			m.logger.Error("component stop failed", zap.String("component", names[i]), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", names[i]))
	}
	return errors.Join(errs...)
}
