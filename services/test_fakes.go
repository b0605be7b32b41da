package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmonteiro/curio/core"
)

// FakeStorage is a test-only fake implementing core.StorageAdapter.
// It stores everything in maps and exposes error fields for behavior
// injection.
type FakeStorage struct {
	mu       sync.RWMutex
	users    map[string]*core.User
	accounts map[string]*core.Account
	sessions map[string]*core.Session
	tools    []*core.Tool
	nextID   int

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	toolErr   error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		users:    make(map[string]*core.User),
		accounts: make(map[string]*core.Account),
		sessions: make(map[string]*core.Session),
	}
}

// UserStorage implementation
func (f *FakeStorage) CreateUser(ctx context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.users[u.ID]; exists {
		return core.ErrUserExists
	}
	f.users[u.ID] = u
	return nil
}

func (f *FakeStorage) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeStorage) UpdateUser(ctx context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[u.ID]; !exists {
		return core.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *FakeStorage) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[id]; !exists {
		return core.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *FakeStorage) ListUsers(ctx context.Context) ([]*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var users []*core.User
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

// AccountStorage implementation
func (f *FakeStorage) CreateAccount(ctx context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *FakeStorage) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*core.Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var accounts []*core.Account
	for _, a := range f.accounts {
		if a.UserID == userID && a.ProviderID == providerID {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (f *FakeStorage) UpdateAccount(ctx context.Context, a *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[a.ID]; !exists {
		return errors.New("account not found")
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *FakeStorage) DeleteAccount(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[id]; !exists {
		return errors.New("account not found")
	}
	delete(f.accounts, id)
	return nil
}

// SessionStorage implementation
func (f *FakeStorage) CreateSession(ctx context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeStorage) GetSessionByID(ctx context.Context, id string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, core.ErrSessionNotFound
}

func (f *FakeStorage) GetUserSessions(ctx context.Context, userID string) ([]*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var sessions []*core.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (f *FakeStorage) UpdateSession(ctx context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.sessions[s.TokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeStorage) DeleteSessionByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, k)
			return nil
		}
	}
	return core.ErrSessionNotFound
}

func (f *FakeStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return core.ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for k, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

func (f *FakeStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	count := 0
	for k, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

// ToolStorage implementation
func (f *FakeStorage) ListPublicTools(ctx context.Context) ([]*core.Tool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.toolErr != nil {
		return nil, f.toolErr
	}
	var tools []*core.Tool
	for _, t := range f.tools {
		if t.IsSystem() || t.IsAdminTool {
			tools = append(tools, t)
		}
	}
	return tools, nil
}

func (f *FakeStorage) GetUserTools(ctx context.Context, userID string) ([]*core.Tool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.toolErr != nil {
		return nil, f.toolErr
	}
	var tools []*core.Tool
	for _, t := range f.tools {
		if t.OwnerUserID == userID {
			tools = append(tools, t)
		}
	}
	return tools, nil
}

func (f *FakeStorage) GetTool(ctx context.Context, id string) (*core.Tool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.toolErr != nil {
		return nil, f.toolErr
	}
	for _, t := range f.tools {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, core.ErrToolNotFound
}

func (f *FakeStorage) AddTool(ctx context.Context, t *core.Tool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toolErr != nil {
		return f.toolErr
	}
	if t.ID == "" {
		f.nextID++
		t.ID = fmt.Sprintf("tool-%d", f.nextID)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	stored := *t
	f.tools = append(f.tools, &stored)
	return nil
}

func (f *FakeStorage) UpdateTool(ctx context.Context, t *core.Tool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toolErr != nil {
		return f.toolErr
	}
	for i, existing := range f.tools {
		if existing.ID == t.ID {
			t.UpdatedAt = time.Now()
			stored := *t
			f.tools[i] = &stored
			return nil
		}
	}
	return core.ErrToolNotFound
}

func (f *FakeStorage) DeleteTool(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toolErr != nil {
		return f.toolErr
	}
	for i, t := range f.tools {
		if t.ID == id {
			f.tools = append(f.tools[:i], f.tools[i+1:]...)
			return nil
		}
	}
	return core.ErrToolNotFound
}

func (f *FakeStorage) ListAllTools(ctx context.Context) ([]*core.Tool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]*core.Tool(nil), f.tools...), nil
}

func (f *FakeStorage) SetAdminFlag(ctx context.Context, id string, admin bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toolErr != nil {
		return f.toolErr
	}
	for _, t := range f.tools {
		if t.ID == id {
			t.IsAdminTool = admin
			return nil
		}
	}
	return core.ErrToolNotFound
}

// Test helper methods
func (f *FakeStorage) SeedTool(t core.Tool) *core.Tool {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := t
	f.tools = append(f.tools, &stored)
	return &stored
}

func (f *FakeStorage) SetToolError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toolErr = err
}

func (f *FakeStorage) SetCreateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

func (f *FakeStorage) SetGetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

var _ core.StorageAdapter = (*FakeStorage)(nil)

// FakeCache is a test-only fake implementing core.Cache.
type FakeCache struct {
	mu     sync.RWMutex
	cache  map[string]*core.Session
	getErr error
	setErr error
	hits   int
	misses int
}

func NewFakeCache() *FakeCache {
	return &FakeCache{cache: make(map[string]*core.Session)}
}

func (f *FakeCache) Get(tokenHash string) (*core.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.cache[tokenHash]
	if !ok {
		f.misses++
		return nil, core.ErrCacheNotFound
	}
	f.hits++
	return s, nil
}

func (f *FakeCache) Set(tokenHash string, session *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.cache[tokenHash] = session
	return nil
}

func (f *FakeCache) Delete(tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, tokenHash)
	return nil
}

func (f *FakeCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]*core.Session)
	return nil
}

func (f *FakeCache) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

func (f *FakeCache) Hits() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.hits
}

func (f *FakeCache) SetSetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

var _ core.Cache = (*FakeCache)(nil)

// FakeGateway is a test-only fake implementing core.AuthGateway. Users
// are pre-registered with Register; SignIn matches on email and the
// shared test password.
type FakeGateway struct {
	mu        sync.Mutex
	users     map[string]*core.User // by email
	current   *core.User
	expiresAt time.Time
	subs      map[int]func(*core.User)
	nextSub   int

	signInErr  error
	sessionErr error
	refreshErr error

	RefreshCalls int
}

const fakePassword = "correct-horse-battery"

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		users: make(map[string]*core.User),
		subs:  make(map[int]func(*core.User)),
	}
}

func (f *FakeGateway) Register(u *core.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Email] = u
}

// ForceSession puts the gateway in a signed-in state without firing
// notifications, simulating a session restored from a previous run.
func (f *FakeGateway) ForceSession(u *core.User, expiresAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = u
	f.expiresAt = expiresAt
}

func (f *FakeGateway) SetSignInError(err error)  { f.mu.Lock(); f.signInErr = err; f.mu.Unlock() }
func (f *FakeGateway) SetSessionError(err error) { f.mu.Lock(); f.sessionErr = err; f.mu.Unlock() }
func (f *FakeGateway) SetRefreshError(err error) { f.mu.Lock(); f.refreshErr = err; f.mu.Unlock() }

func (f *FakeGateway) SignUp(ctx context.Context, input core.SignUpInput) (*core.AuthResult, error) {
	f.mu.Lock()
	if _, exists := f.users[input.Email]; exists {
		f.mu.Unlock()
		return nil, core.ErrUserExists
	}
	u := &core.User{ID: "user-" + input.Email, Email: input.Email, Name: input.Name}
	f.users[input.Email] = u
	f.mu.Unlock()
	return f.adopt(u)
}

func (f *FakeGateway) SignIn(ctx context.Context, input core.SignInInput) (*core.AuthResult, error) {
	f.mu.Lock()
	if f.signInErr != nil {
		err := f.signInErr
		f.mu.Unlock()
		return nil, err
	}
	u, ok := f.users[input.Email]
	f.mu.Unlock()
	if !ok || input.Password != fakePassword {
		return nil, core.ErrInvalidCredentials
	}
	return f.adopt(u)
}

func (f *FakeGateway) adopt(u *core.User) (*core.AuthResult, error) {
	f.mu.Lock()
	f.current = u
	f.expiresAt = time.Now().Add(time.Hour)
	session := &core.Session{ID: "sess-" + u.ID, UserID: u.ID, ExpiresAt: f.expiresAt}
	subs := f.snapshotSubs()
	f.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
	return &core.AuthResult{User: u, Session: session, Token: "tok-" + u.ID}, nil
}

func (f *FakeGateway) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	subs := f.snapshotSubs()
	f.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
	return nil
}

func (f *FakeGateway) CurrentUser(ctx context.Context) (*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil || time.Now().After(f.expiresAt) {
		return nil, nil
	}
	return f.current, nil
}

func (f *FakeGateway) GetSession(ctx context.Context) (*core.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.current == nil {
		return nil, core.ErrNotSignedIn
	}
	return &core.SessionData{
		User:    f.current,
		Session: &core.Session{ID: "sess-" + f.current.ID, UserID: f.current.ID, ExpiresAt: f.expiresAt},
	}, nil
}

func (f *FakeGateway) Refresh(ctx context.Context) (*core.SessionData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if f.current == nil {
		return nil, core.ErrNotSignedIn
	}
	f.expiresAt = time.Now().Add(time.Hour)
	return &core.SessionData{
		User:    f.current,
		Session: &core.Session{ID: "sess-" + f.current.ID, UserID: f.current.ID, ExpiresAt: f.expiresAt},
	}, nil
}

func (f *FakeGateway) OnAuthStateChange(fn func(*core.User)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *FakeGateway) snapshotSubs() []func(*core.User) {
	out := make([]func(*core.User), 0, len(f.subs))
	for _, fn := range f.subs {
		out = append(out, fn)
	}
	return out
}

var _ core.AuthGateway = (*FakeGateway)(nil)
