package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmonteiro/curio/core"
)

func TestSessionCreateAndVerify(t *testing.T) {
	storage := NewFakeStorage()
	cache := NewFakeCache()
	sm := NewSessionManager(SessionConfig{MaxAge: time.Hour}, storage, cache)

	ctx := context.Background()
	result, err := sm.Create(ctx, "u1", "127.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.NotEmpty(t, result.Session.ID)

	session, err := sm.Verify(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, result.Session.ID, session.ID)
}

func TestSessionVerifyRejectsBadTokens(t *testing.T) {
	sm := NewSessionManager(SessionConfig{}, NewFakeStorage(), nil)
	ctx := context.Background()

	_, err := sm.Verify(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidToken)

	_, err = sm.Verify(ctx, "never-issued")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionVerifyExpired(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(SessionConfig{MaxAge: -time.Minute}, storage, nil)
	ctx := context.Background()

	result, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)

	_, err = sm.Verify(ctx, result.Token)
	assert.ErrorIs(t, err, core.ErrSessionExpired)

	// The expired row is gone, so a second attempt no longer finds it.
	_, err = sm.Verify(ctx, result.Token)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionVerifyUsesCache(t *testing.T) {
	storage := NewFakeStorage()
	cache := NewFakeCache()
	sm := NewSessionManager(SessionConfig{MaxAge: time.Hour}, storage, cache)
	ctx := context.Background()

	result, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)

	_, err = sm.Verify(ctx, result.Token)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cache.Hits(), 1)
}

func TestSessionRefreshExtendsExpiry(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(SessionConfig{MaxAge: time.Hour}, storage, NewFakeCache())
	ctx := context.Background()

	result, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)
	before := result.Session.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	refreshed, err := sm.Refresh(ctx, result.Token)
	require.NoError(t, err)

	assert.True(t, refreshed.ExpiresAt.After(before))
	assert.Equal(t, result.Session.ID, refreshed.ID)
}

func TestSessionDestroy(t *testing.T) {
	storage := NewFakeStorage()
	cache := NewFakeCache()
	sm := NewSessionManager(SessionConfig{MaxAge: time.Hour}, storage, cache)
	ctx := context.Background()

	result, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)

	require.NoError(t, sm.Destroy(ctx, result.Token))
	assert.Zero(t, cache.Len())

	_, err = sm.Verify(ctx, result.Token)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSessionDestroyAllUserSessions(t *testing.T) {
	storage := NewFakeStorage()
	sm := NewSessionManager(SessionConfig{MaxAge: time.Hour}, storage, nil)
	ctx := context.Background()

	first, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)
	second, err := sm.Create(ctx, "u1", "", "")
	require.NoError(t, err)
	other, err := sm.Create(ctx, "u2", "", "")
	require.NoError(t, err)

	require.NoError(t, sm.DestroyAllUserSessions(ctx, "u1"))

	_, err = sm.Verify(ctx, first.Token)
	assert.Error(t, err)
	_, err = sm.Verify(ctx, second.Token)
	assert.Error(t, err)
	_, err = sm.Verify(ctx, other.Token)
	assert.NoError(t, err, "another user's session survives")
}
