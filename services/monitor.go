package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dmonteiro/curio/core"
)

// SessionMonitorConfig contains configuration for the session monitor
type SessionMonitorConfig struct {
	// Interval is the fixed polling period.
	Interval time.Duration
	// RefreshThreshold triggers a refresh when the session is within this
	// much of its expiry.
	RefreshThreshold time.Duration
}

// DefaultSessionMonitorConfig returns default configuration
func DefaultSessionMonitorConfig() *SessionMonitorConfig {
	return &SessionMonitorConfig{
		Interval:         60 * time.Second,
		RefreshThreshold: 5 * time.Minute,
	}
}

// SessionMonitor polls session expiry on a fixed interval. Each tick does
// at most one expiry check and, if needed, one refresh call. A tick that
// finds the previous tick's work still in flight skips; it does not queue.
//
// On detected expiry the monitor invokes the configured callback so the
// host can re-authenticate gracefully; it never forces a reload.
type SessionMonitor struct {
	gateway   core.AuthGateway
	config    *SessionMonitorConfig
	log       *zap.Logger
	onExpired func()

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	busy    atomic.Bool

	// Stats
	ticks     int64
	skipped   int64
	refreshes int64
}

// NewSessionMonitor creates a new session monitor. onExpired may be nil.
func NewSessionMonitor(gateway core.AuthGateway, config *SessionMonitorConfig, log *zap.Logger, onExpired func()) *SessionMonitor {
	if config == nil {
		config = DefaultSessionMonitorConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionMonitor{
		gateway:   gateway,
		config:    config,
		log:       log,
		onExpired: onExpired,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the monitor loop.
func (m *SessionMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return core.ErrOperationInFlight
	}
	m.running = true
	m.mu.Unlock()

	m.log.Info("starting session monitor",
		zap.Duration("interval", m.config.Interval),
		zap.Duration("refresh_threshold", m.config.RefreshThreshold))

	m.wg.Add(1)
	go m.loop(ctx)
	return nil
}

// Stop stops the monitor and waits for the loop to exit.
func (m *SessionMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
	m.wg.Wait()
	m.log.Info("session monitor stopped")
}

func (m *SessionMonitor) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick performs one expiry check. Exported so hosts (and tests) can force
// a check outside the timer, e.g. when page visibility is regained.
func (m *SessionMonitor) Tick(ctx context.Context) {
	if !m.busy.CompareAndSwap(false, true) {
		atomic.AddInt64(&m.skipped, 1)
		m.log.Debug("previous expiry check still in flight, skipping tick")
		return
	}
	defer m.busy.Store(false)
	atomic.AddInt64(&m.ticks, 1)

	data, err := m.gateway.GetSession(ctx)
	if err != nil {
		if core.Classify(err) == core.KindAuth {
			m.expire()
			return
		}
		m.log.Warn("session check failed", zap.Error(err))
		return
	}
	if data == nil || data.Session == nil {
		return
	}

	now := time.Now()
	if data.Session.Expired(now) {
		m.expire()
		return
	}

	if time.Until(data.Session.ExpiresAt) <= m.config.RefreshThreshold {
		if _, err := m.gateway.Refresh(ctx); err != nil {
			m.log.Warn("session refresh failed", zap.Error(err))
			if core.Classify(err) == core.KindAuth {
				m.expire()
			}
			return
		}
		atomic.AddInt64(&m.refreshes, 1)
		m.log.Debug("session refreshed")
	}
}

func (m *SessionMonitor) expire() {
	m.log.Info("session expired, handing off to re-authentication")
	if m.onExpired != nil {
		m.onExpired()
	}
}

// SessionMonitorStats contains monitor statistics
type SessionMonitorStats struct {
	Ticks     int64 `json:"ticks"`
	Skipped   int64 `json:"skipped"`
	Refreshes int64 `json:"refreshes"`
}

// Stats returns monitor statistics
func (m *SessionMonitor) Stats() SessionMonitorStats {
	return SessionMonitorStats{
		Ticks:     atomic.LoadInt64(&m.ticks),
		Skipped:   atomic.LoadInt64(&m.skipped),
		Refreshes: atomic.LoadInt64(&m.refreshes),
	}
}
