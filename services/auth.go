package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/pkg/crypto"
)

// AuthService is the stateless, token-passing authentication surface over
// user/account/session storage. It backs both the HTTP adapter and the
// client-side gateway.
type AuthService struct {
	db             core.StorageAdapter
	passwordHasher crypto.PasswordHandler
	sessions       *SessionManager
	log            *zap.Logger

	// RequireVerifiedEmail gates sign-in on a confirmed email address,
	// the way hosted auth backends do by default.
	RequireVerifiedEmail bool
}

// Ensure AuthService implements AuthProvider
var _ core.AuthProvider = (*AuthService)(nil)

func NewAuthService(db core.StorageAdapter, sessions *SessionManager, passwordHasher crypto.PasswordHandler, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		db:             db,
		passwordHasher: passwordHasher,
		sessions:       sessions,
		log:            log,
	}
}

// SignUp registers a new user with email and password
func (s *AuthService) SignUp(ctx context.Context, input core.SignUpInput, ipAddress, userAgent string) (*core.AuthResult, error) {
	if err := core.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := core.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// Step 1: Check if user already exists
	existingUser, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, core.ErrUserExists
	}

	// Step 2: Hash the password
	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the user
	user := &core.User{
		ID:    uuid.NewString(),
		Email: input.Email,
		Name:  input.Name,
		Role:  core.RoleNone,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Step 4: Create a credential account for this user
	account := &core.Account{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		ProviderID: "credential",
		AccountID:  user.ID, // For credential provider, account ID = user ID
		Password:   &hashedPassword,
	}
	if err := s.db.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Step 5: Create a session for the new user
	sessionResult, err := s.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("user signed up",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return &core.AuthResult{
		User:    user,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// SignIn authenticates a user with email and password
func (s *AuthService) SignIn(ctx context.Context, input core.SignInInput, ipAddress, userAgent string) (*core.AuthResult, error) {
	// Step 1: Find the user by email
	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Step 2: Get the credential account for this user
	accounts, err := s.db.GetAccountByUserAndProvider(ctx, user.ID, "credential")
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if len(accounts) == 0 {
		return nil, core.ErrInvalidCredentials
	}

	account := accounts[0]
	if account.Password == nil {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Verify the password
	valid, err := s.passwordHasher.Verify(input.Password, *account.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 4: Enforce the confirmed-email gate, if enabled
	if s.RequireVerifiedEmail && !user.EmailVerified {
		return nil, core.ErrEmailNotVerified
	}

	// Step 5: Create a new session
	sessionResult, err := s.sessions.Create(ctx, user.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("user signed in", zap.String("user_id", user.ID))

	return &core.AuthResult{
		User:    user,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// SignOut invalidates the session behind the given token
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetSession retrieves session data by token
func (s *AuthService) GetSession(ctx context.Context, token string) (*core.SessionData, error) {
	session, err := s.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &core.SessionData{
		User:    user,
		Session: session,
	}, nil
}

// Refresh extends the session behind the given token
func (s *AuthService) Refresh(ctx context.Context, token string) (*core.SessionData, error) {
	session, err := s.sessions.Refresh(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &core.SessionData{
		User:    user,
		Session: session,
	}, nil
}
