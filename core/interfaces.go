package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// SessionStorage defines session-related database operations
type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	GetUserSessions(ctx context.Context, userID string) ([]*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSessionByID(ctx context.Context, id string) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// UserStorage defines user-related database operations
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*User, error)
}

// AccountStorage defines account-related database operations
type AccountStorage interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// ToolStorage defines tool-related database operations. Reads are
// owner-scoped: GetUserTools never returns another user's custom tools.
type ToolStorage interface {
	// ListPublicTools returns the globally visible slice of the
	// directory: the seeded catalog plus admin-flagged tools, in
	// insertion order.
	ListPublicTools(ctx context.Context) ([]*Tool, error)
	GetUserTools(ctx context.Context, userID string) ([]*Tool, error)
	GetTool(ctx context.Context, id string) (*Tool, error)
	AddTool(ctx context.Context, t *Tool) error
	UpdateTool(ctx context.Context, t *Tool) error
	DeleteTool(ctx context.Context, id string) error

	// Administrative surface
	ListAllTools(ctx context.Context) ([]*Tool, error)
	SetAdminFlag(ctx context.Context, id string, admin bool) error
}

type StorageAdapter interface {
	UserStorage
	AccountStorage
	SessionStorage
	ToolStorage
}

// ============================================
// CACHE PORT
// ============================================

// Cache defines session caching operations
type Cache interface {
	Get(tokenHash string) (*Session, error)
	Set(tokenHash string, session *Session) error
	Delete(tokenHash string) error
	Clear() error
}

// CacheWithStats extends Cache with statistics tracking
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// AUTH PORTS
// ============================================

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult contains the authenticated user and their session
type AuthResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw token (not the hash)
}

// AuthProvider is the stateless, token-passing authentication surface.
// HTTP adapters and the client gateway are built on top of it.
type AuthProvider interface {
	SignUp(ctx context.Context, input SignUpInput, ipAddress, userAgent string) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput, ipAddress, userAgent string) (*AuthResult, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionData, error)
	Refresh(ctx context.Context, token string) (*SessionData, error)
}

// AuthGateway is the client-side view of authentication: it tracks a
// single current session, the way a hosted-backend SDK does. Callers
// that need multi-user, token-passing semantics use AuthProvider instead.
type AuthGateway interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, input SignInInput) (*AuthResult, error)
	SignOut(ctx context.Context) error

	// CurrentUser returns (nil, nil) when nobody is signed in. A session
	// past its expiry is treated as absent.
	CurrentUser(ctx context.Context) (*User, error)
	GetSession(ctx context.Context) (*SessionData, error)
	Refresh(ctx context.Context) (*SessionData, error)

	// OnAuthStateChange registers a callback fired with the new user on
	// sign-in and nil on sign-out. The returned function unsubscribes.
	OnAuthStateChange(fn func(*User)) (unsubscribe func())
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(auth AuthProvider, tools ToolStorage, users UserStorage, basePath string) error
}
