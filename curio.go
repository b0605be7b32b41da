package curio

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/engine"
	"github.com/dmonteiro/curio/pkg/cache"
	"github.com/dmonteiro/curio/pkg/crypto"
	"github.com/dmonteiro/curio/services"
	"github.com/dmonteiro/curio/view"
)

// interfaces
type (
	StorageAdapter = core.StorageAdapter
	ToolStorage    = core.ToolStorage
	UserStorage    = core.UserStorage
	Cache          = core.Cache

	AuthProvider = core.AuthProvider
	AuthGateway  = core.AuthGateway
	HTTPAdapter  = core.HTTPAdapter

	Presenter = view.Presenter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	SessionConfig        = services.SessionConfig
	SessionMonitorConfig = services.SessionMonitorConfig
	CacheConfig          = core.CacheConfig
)

type (
	User        = core.User
	Account     = core.Account
	Session     = core.Session
	SessionData = core.SessionData
	Tool        = core.Tool
	ToolInput   = core.ToolInput
	FieldError  = core.FieldError
	Category    = core.Category
	Role        = core.Role
	CacheStats  = core.CacheStats
)

type (
	Filter      = engine.Filter
	VisibleSet  = engine.VisibleSet
	VisibleTool = engine.VisibleTool
	Span        = engine.Span
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	NewFilter            = engine.New
	DefaultSessionConfig = services.DefaultSessionConfig
	SeedTools            = core.SeedTools
	Translate            = core.Translate
	ValidateToolInput    = core.ValidateToolInput
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrEmailNotVerified   = core.ErrEmailNotVerified
)

var (
	ErrInvalidToken    = core.ErrInvalidToken
	ErrSessionNotFound = core.ErrSessionNotFound
	ErrSessionExpired  = core.ErrSessionExpired
	ErrNotSignedIn     = core.ErrNotSignedIn
	ErrCacheNotFound   = core.ErrCacheNotFound
)

var (
	ErrToolNotFound      = core.ErrToolNotFound
	ErrNotOwner          = core.ErrNotOwner
	ErrAdminOnly         = core.ErrAdminOnly
	ErrOperationInFlight = core.ErrOperationInFlight
)

var (
	ErrStorageRequired      = core.ErrStorageRequired
	ErrAuthProviderRequired = core.ErrAuthProviderRequired
	ErrSecretRequired       = core.ErrSecretRequired
	ErrSecretTooShort       = core.ErrSecretTooShort
	ErrPresenterRequired    = core.ErrPresenterRequired
)

// Config wires the server-side directory: storage, sessions, and an
// optional HTTP surface.
type Config struct {
	Secret string

	Database StorageAdapter

	// Optional config
	HTTP                 HTTPAdapter
	CacheAdapter         Cache
	SessionConfig        *SessionConfig
	PasswordHasher       PasswordHandler
	BasePath             string
	Logger               *zap.Logger
	RequireVerifiedEmail bool
}

// Curio is the assembled server-side directory.
type Curio struct {
	Auth     *services.AuthService
	Sessions *services.SessionManager
	Database StorageAdapter
	BasePath string
}

// New assembles the server side: auth over storage, session management,
// and route registration when an HTTP adapter is supplied.
func New(config Config) (*Curio, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		c := DefaultSessionConfig()
		sessionConfig = &c
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessionManager := services.NewSessionManager(*sessionConfig, config.Database, cacheAdapter)

	auth := services.NewAuthService(config.Database, sessionManager, passwordHasher, config.Logger)
	auth.RequireVerifiedEmail = config.RequireVerifiedEmail

	c := &Curio{
		Auth:     auth,
		Sessions: sessionManager,
		Database: config.Database,
		BasePath: basePath,
	}

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(auth, config.Database, config.Database, basePath); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ClientConfig wires the single-viewer client: a gateway over an auth
// provider, tool storage, and a presenter for the rendered directory.
type ClientConfig struct {
	Auth      AuthProvider
	Tools     ToolStorage
	Presenter Presenter

	// Optional config
	DebounceDelay   time.Duration // zero disables search debouncing
	MonitorConfig   *SessionMonitorConfig
	Notify          func(kind core.ErrorKind, message string)
	OnEditRequested func(toolID string)
	OnSessionLost   func()
	Logger          *zap.Logger
}

// Client is the assembled client side: the gateway holding the current
// session, the controller owning directory state, and the expiry monitor.
type Client struct {
	Gateway    *services.ClientGateway
	Controller *services.Controller
	Monitor    *services.SessionMonitor
}

// NewClient assembles the client side over any AuthProvider.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Auth == nil {
		return nil, ErrAuthProviderRequired
	}
	if config.Tools == nil {
		return nil, ErrStorageRequired
	}
	if config.Presenter == nil {
		return nil, ErrPresenterRequired
	}

	gateway := services.NewClientGateway(config.Auth)

	controller := services.NewController(services.ControllerConfig{
		Gateway:         gateway,
		Tools:           config.Tools,
		Presenter:       config.Presenter,
		DebounceDelay:   config.DebounceDelay,
		Notify:          config.Notify,
		OnEditRequested: config.OnEditRequested,
		Logger:          config.Logger,
	})

	monitor := services.NewSessionMonitor(gateway, config.MonitorConfig, config.Logger, config.OnSessionLost)

	return &Client{
		Gateway:    gateway,
		Controller: controller,
		Monitor:    monitor,
	}, nil
}
