package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmonteiro/curio/core"
)

func newTestGateway() *ClientGateway {
	svc, _ := newTestAuthService()
	return NewClientGateway(svc)
}

func TestGatewaySignUpAdoptsSession(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()

	_, err := g.SignUp(ctx, core.SignUpInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)

	user, err := g.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u@example.com", user.Email)

	data, err := g.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, user.ID, data.Session.UserID)
}

func TestGatewaySignOutClearsState(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()

	_, err := g.SignUp(ctx, core.SignUpInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)

	require.NoError(t, g.SignOut(ctx))

	user, err := g.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	data, err := g.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, data, "signed out means no session, not an error")

	_, err = g.Refresh(ctx)
	assert.ErrorIs(t, err, core.ErrNotSignedIn)
}

func TestGatewaySignOutIsIdempotent(t *testing.T) {
	g := newTestGateway()
	assert.NoError(t, g.SignOut(context.Background()))
}

func TestGatewayExpiredSessionTreatedAsAbsent(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()

	_, err := g.SignUp(ctx, core.SignUpInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)

	g.mu.Lock()
	g.current.Session.ExpiresAt = time.Now().Add(-time.Minute)
	g.mu.Unlock()

	// No network call happens here; the in-memory expiry is enough.
	user, err := g.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGatewayNotifiesSubscribers(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()

	var events []*core.User
	unsubscribe := g.OnAuthStateChange(func(u *core.User) {
		events = append(events, u)
	})

	_, err := g.SignUp(ctx, core.SignUpInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)
	require.NoError(t, g.SignOut(ctx))

	require.Len(t, events, 2)
	require.NotNil(t, events[0])
	assert.Equal(t, "u@example.com", events[0].Email)
	assert.Nil(t, events[1], "sign-out notifies with nil")

	unsubscribe()
	_, err = g.SignIn(ctx, core.SignInInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)
	assert.Len(t, events, 2, "no notifications after unsubscribe")
}

func TestGatewayRefreshUpdatesHeldSession(t *testing.T) {
	g := newTestGateway()
	ctx := context.Background()

	result, err := g.SignUp(ctx, core.SignUpInput{Email: "u@example.com", Password: "long-enough-pass"})
	require.NoError(t, err)
	before := result.Session.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	data, err := g.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, data.Session.ExpiresAt.After(before))
}
