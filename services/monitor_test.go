package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmonteiro/curio/core"
)

func TestMonitorRefreshesNearExpiry(t *testing.T) {
	gateway := NewFakeGateway()
	user := &core.User{ID: "u1", Email: "u1@example.com"}
	gateway.ForceSession(user, time.Now().Add(2*time.Minute))

	m := NewSessionMonitor(gateway, &SessionMonitorConfig{
		Interval:         time.Minute,
		RefreshThreshold: 5 * time.Minute,
	}, nil, nil)

	m.Tick(context.Background())

	assert.Equal(t, 1, gateway.RefreshCalls)
	assert.Equal(t, int64(1), m.Stats().Refreshes)
}

func TestMonitorLeavesHealthySessionAlone(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Hour))

	m := NewSessionMonitor(gateway, &SessionMonitorConfig{
		Interval:         time.Minute,
		RefreshThreshold: 5 * time.Minute,
	}, nil, nil)

	m.Tick(context.Background())

	assert.Zero(t, gateway.RefreshCalls)
	assert.Equal(t, int64(1), m.Stats().Ticks)
}

func TestMonitorExpiredSessionHandsOff(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(-time.Minute))

	var expired atomic.Bool
	m := NewSessionMonitor(gateway, nil, nil, func() { expired.Store(true) })

	m.Tick(context.Background())

	assert.True(t, expired.Load(), "expired session must trigger the re-auth handoff")
	assert.Zero(t, gateway.RefreshCalls)
}

func TestMonitorAuthErrorHandsOff(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Hour))
	gateway.SetSessionError(core.ErrSessionExpired)

	var expired atomic.Bool
	m := NewSessionMonitor(gateway, nil, nil, func() { expired.Store(true) })

	m.Tick(context.Background())

	assert.True(t, expired.Load())
}

func TestMonitorNetworkErrorDoesNotExpire(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Hour))
	gateway.SetSessionError(errors.New("connection refused"))

	var expired atomic.Bool
	m := NewSessionMonitor(gateway, nil, nil, func() { expired.Store(true) })

	m.Tick(context.Background())

	// A flaky network is not a logout.
	assert.False(t, expired.Load())
}

func TestMonitorRefreshAuthFailureHandsOff(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Minute))
	gateway.SetRefreshError(core.ErrSessionNotFound)

	var expired atomic.Bool
	m := NewSessionMonitor(gateway, &SessionMonitorConfig{
		Interval:         time.Minute,
		RefreshThreshold: 5 * time.Minute,
	}, nil, func() { expired.Store(true) })

	m.Tick(context.Background())

	assert.True(t, expired.Load())
	assert.Zero(t, m.Stats().Refreshes)
}

func TestMonitorSkipsWhenBusy(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Hour))

	m := NewSessionMonitor(gateway, nil, nil, nil)
	m.busy.Store(true)

	m.Tick(context.Background())

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Zero(t, stats.Ticks, "a skipped check does not count as a tick")
}

func TestMonitorStartStop(t *testing.T) {
	gateway := NewFakeGateway()
	gateway.ForceSession(&core.User{ID: "u1", Email: "u1@example.com"}, time.Now().Add(time.Hour))

	m := NewSessionMonitor(gateway, &SessionMonitorConfig{
		Interval:         10 * time.Millisecond,
		RefreshThreshold: time.Minute,
	}, nil, nil)

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()), "double start must be rejected")

	time.Sleep(60 * time.Millisecond)
	m.Stop()

	assert.GreaterOrEqual(t, m.Stats().Ticks, int64(1))

	// Stop is idempotent.
	m.Stop()
}
