package services

import (
	"context"
	"time"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/pkg/crypto"
)

type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// SessionManager creates, verifies, refreshes, and destroys opaque-token
// sessions. The cache is optional and purely an optimization; storage is
// authoritative.
type SessionManager struct {
	config  SessionConfig
	storage core.SessionStorage
	cache   core.Cache // optional, can be nil if caching is disabled
}

func NewSessionManager(config SessionConfig, storage core.SessionStorage, cache core.Cache) *SessionManager {
	if config.MaxAge == 0 {
		config.MaxAge = DefaultSessionConfig().MaxAge
	}
	return &SessionManager{config: config, storage: storage, cache: cache}
}

type CreateSessionResult struct {
	Session *core.Session `json:"session"`
	Token   string        `json:"token"`
}

func (sm *SessionManager) Create(ctx context.Context, userID, ipAddress, userAgent string) (*CreateSessionResult, error) {
	pair, err := crypto.GenerateHashedToken(0)
	if err != nil {
		return nil, err
	}

	sessionID, err := crypto.NanoID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &core.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: pair.Hash,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(sm.config.MaxAge),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	// We don't fail the request if caching fails
	if sm.cache != nil {
		_ = sm.cache.Set(pair.Hash, session)
	}

	return &CreateSessionResult{Session: session, Token: pair.Token}, nil
}

func (sm *SessionManager) Verify(ctx context.Context, token string) (*core.Session, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	// Try cache first if caching is enabled
	if sm.cache != nil {
		if session, err := sm.cache.Get(tokenHash); err == nil && session != nil {
			if session.Expired(time.Now()) {
				_ = sm.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
		// Cache miss - fall through to storage
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return nil, core.ErrSessionNotFound
	}

	valid, err := crypto.VerifyToken(token, session.TokenHash)
	if err != nil || !valid {
		return nil, core.ErrInvalidToken
	}

	if session.Expired(time.Now()) {
		_ = sm.storage.DeleteSessionByID(ctx, session.ID)
		return nil, core.ErrSessionExpired
	}

	if sm.cache != nil {
		_ = sm.cache.Set(tokenHash, session)
	}

	return session, nil
}

// Refresh extends a live session by the configured max age. An expired or
// unknown token cannot be refreshed.
func (sm *SessionManager) Refresh(ctx context.Context, token string) (*core.Session, error) {
	session, err := sm.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.ExpiresAt = now.Add(sm.config.MaxAge)
	session.UpdatedAt = now

	if err := sm.storage.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	if sm.cache != nil {
		_ = sm.cache.Set(session.TokenHash, session)
	}

	return session, nil
}

func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	tokenHash := crypto.HashToken(token)

	// Invalidate cache if available
	if sm.cache != nil {
		_ = sm.cache.Delete(tokenHash)
	}

	return sm.storage.DeleteSessionByHash(ctx, tokenHash)
}

func (sm *SessionManager) DestroyAllUserSessions(ctx context.Context, userID string) error {
	if sm.cache != nil {
		_ = sm.cache.Clear()
	}

	_, err := sm.storage.DeleteUserSessions(ctx, userID)
	return err
}
