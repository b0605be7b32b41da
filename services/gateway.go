package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmonteiro/curio/core"
)

// ClientGateway adapts the token-passing AuthProvider into the client-side
// AuthGateway shape: it holds the single current session the way a hosted
// backend's SDK does, and notifies subscribers on state changes.
type ClientGateway struct {
	provider core.AuthProvider

	mu      sync.RWMutex
	token   string
	current *core.SessionData
	subs    map[int]func(*core.User)
	nextSub int
}

var _ core.AuthGateway = (*ClientGateway)(nil)

func NewClientGateway(provider core.AuthProvider) *ClientGateway {
	return &ClientGateway{
		provider: provider,
		subs:     make(map[int]func(*core.User)),
	}
}

func (g *ClientGateway) SignUp(ctx context.Context, input core.SignUpInput) (*core.AuthResult, error) {
	result, err := g.provider.SignUp(ctx, input, "", "")
	if err != nil {
		return nil, err
	}
	g.adopt(result.Token, &core.SessionData{User: result.User, Session: result.Session})
	return result, nil
}

func (g *ClientGateway) SignIn(ctx context.Context, input core.SignInInput) (*core.AuthResult, error) {
	result, err := g.provider.SignIn(ctx, input, "", "")
	if err != nil {
		return nil, err
	}
	g.adopt(result.Token, &core.SessionData{User: result.User, Session: result.Session})
	return result, nil
}

func (g *ClientGateway) SignOut(ctx context.Context) error {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" {
		return nil
	}
	// The local state is cleared even if the backend call fails; holding a
	// dead token helps nobody.
	err := g.provider.SignOut(ctx, token)
	g.adopt("", nil)
	return err
}

// CurrentUser returns the in-memory user, or nil when signed out. A
// session past its expiry is treated as absent without a network call.
func (g *ClientGateway) CurrentUser(ctx context.Context) (*core.User, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current == nil || g.current.Session == nil {
		return nil, nil
	}
	if g.current.Session.Expired(time.Now()) {
		return nil, nil
	}
	return g.current.User, nil
}

// GetSession revalidates the held token against the backend and returns
// the fresh session data, or (nil, nil) when signed out.
func (g *ClientGateway) GetSession(ctx context.Context) (*core.SessionData, error) {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" {
		return nil, nil
	}

	data, err := g.provider.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	// Only adopt if the token is still the one we asked about; a slower
	// response must not clobber a newer sign-in.
	if g.token == token {
		g.current = data
	}
	g.mu.Unlock()

	return data, nil
}

func (g *ClientGateway) Refresh(ctx context.Context) (*core.SessionData, error) {
	g.mu.RLock()
	token := g.token
	g.mu.RUnlock()

	if token == "" {
		return nil, core.ErrNotSignedIn
	}

	data, err := g.provider.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if g.token == token {
		g.current = data
	}
	g.mu.Unlock()

	return data, nil
}

// OnAuthStateChange registers a callback fired with the new user on
// sign-in and nil on sign-out. The returned function unsubscribes.
func (g *ClientGateway) OnAuthStateChange(fn func(*core.User)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// adopt swaps the current session and notifies subscribers outside the
// lock.
func (g *ClientGateway) adopt(token string, data *core.SessionData) {
	g.mu.Lock()
	g.token = token
	g.current = data

	var user *core.User
	if data != nil {
		user = data.User
	}
	subs := make([]func(*core.User), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}
