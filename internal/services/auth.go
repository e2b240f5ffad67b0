package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/RoshaThankachan/EcoWaste/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when no authenticator accepts the
// presented username/password/role combination.
var ErrInvalidCredentials = errors.New("Invalid username or password")

// ErrUnauthenticated is returned when an operation requires a session
// (optionally with a specific role) and none qualifies.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrUsernameTaken is returned by Register for duplicate usernames.
var ErrUsernameTaken = errors.New("username already exists")

// UserRepository defines persistence operations for the roster. Create
// rejects duplicate usernames with store.ErrExists; Adjust and Mutate
// apply their edits atomically with respect to other roster writes.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Adjust(ctx context.Context, username string, delta int) (types.User, error)
	Mutate(ctx context.Context, username string, fn func(user *types.User)) (types.User, error)
}

// SessionRepository defines persistence operations for the session
// singleton.
type SessionRepository interface {
	Get(ctx context.Context) (types.Session, error)
	Put(ctx context.Context, session types.Session) error
	Delete(ctx context.Context) error
}

// Authenticator verifies a credential triple and, on success, returns
// the profile it identifies. Implementations are checked in order, so
// the insecure demo default can be swapped or removed without touching
// the session logic.
type Authenticator interface {
	Verify(ctx context.Context, username, password, role string) (types.User, bool, error)
}

// demoStartingPoints is the balance a freshly synthesized demo profile
// starts with.
const demoStartingPoints = 25

// DemoAuthenticator accepts the two fixed demo identities with
// plaintext comparison. Demo only; not a security boundary.
type DemoAuthenticator struct{}

type demoIdentity struct {
	password string
	fullName string
	email    string
}

var demoIdentities = map[string]demoIdentity{
	types.RoleResident: {
		password: "resident123",
		fullName: "John Doe",
		email:    "resident@example.com",
	},
	types.RoleAdmin: {
		password: "admin123",
		fullName: "System Administrator",
		email:    "admin@ecowaste.com",
	},
}

func (DemoAuthenticator) Verify(ctx context.Context, username, password, role string) (types.User, bool, error) {
	identity, ok := demoIdentities[role]
	// The demo username equals the role name.
	if !ok || username != role || password != identity.password {
		return types.User{}, false, nil
	}
	return types.User{
		Username: username,
		Role:     role,
		FullName: identity.fullName,
		Email:    identity.email,
		Points:   demoStartingPoints,
	}, true, nil
}

// RosterAuthenticator verifies credentials against stored roster
// profiles using bcrypt.
type RosterAuthenticator struct {
	users UserRepository
}

func NewRosterAuthenticator(users UserRepository) *RosterAuthenticator {
	return &RosterAuthenticator{users: users}
}

func (a *RosterAuthenticator) Verify(ctx context.Context, username, password, role string) (types.User, bool, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, false, nil
		}
		return types.User{}, false, err
	}
	if user.Role != role {
		return types.User{}, false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, false, nil
	}
	return user, true, nil
}

// AuthService encapsulates login, logout and session lookups.
type AuthService struct {
	users          UserRepository
	sessions       SessionRepository
	authenticators []Authenticator
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService. When no authenticators are
// given, the default chain is the demo identities followed by the
// roster.
func NewAuthService(users UserRepository, sessions SessionRepository, authenticators ...Authenticator) *AuthService {
	if len(authenticators) == 0 {
		authenticators = []Authenticator{
			DemoAuthenticator{},
			NewRosterAuthenticator(users),
		}
	}
	return &AuthService{
		users:          users,
		sessions:       sessions,
		authenticators: authenticators,
		logger:         slog.Default(),
	}
}

// Login verifies the credentials against the authenticator chain and
// establishes the session. A demo identity that has no roster profile
// yet gets a default one persisted first, so point awards have
// somewhere to land.
func (s *AuthService) Login(ctx context.Context, username, password, role string) (types.Session, error) {
	for _, authenticator := range s.authenticators {
		profile, ok, err := authenticator.Verify(ctx, username, password, role)
		if err != nil {
			return types.Session{}, err
		}
		if !ok {
			continue
		}

		user, err := s.ensureProfile(ctx, profile)
		if err != nil {
			return types.Session{}, err
		}

		session := types.Session{
			Username:  user.Username,
			Role:      user.Role,
			FullName:  user.FullName,
			Email:     user.Email,
			Points:    user.Points,
			CreatedAt: user.CreatedAt,
			LoginTime: time.Now(),
		}
		if err := s.sessions.Put(ctx, session); err != nil {
			return types.Session{}, err
		}
		return session, nil
	}
	return types.Session{}, ErrInvalidCredentials
}

// ensureProfile persists the verified profile if the roster does not
// know it yet, and otherwise returns the stored record. A concurrent
// login can win the create; the stored record is authoritative then.
func (s *AuthService) ensureProfile(ctx context.Context, profile types.User) (types.User, error) {
	stored, err := s.users.GetByUsername(ctx, profile.Username)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	profile.CreatedAt = time.Now()
	created, err := s.users.Create(ctx, profile)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, store.ErrExists) {
		return s.users.GetByUsername(ctx, profile.Username)
	}
	return types.User{}, err
}

// Logout clears the session record.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Delete(ctx)
}

// CurrentUser returns the session record, or store.ErrNotFound when
// nobody is logged in.
func (s *AuthService) CurrentUser(ctx context.Context) (types.Session, error) {
	return s.sessions.Get(ctx)
}

// RequireRole returns the session user if a session exists and, when
// role is non-empty, the roles match. Otherwise ErrUnauthenticated.
func (s *AuthService) RequireRole(ctx context.Context, role string) (types.Session, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Session{}, ErrUnauthenticated
		}
		return types.Session{}, err
	}
	if role != "" && session.Role != role {
		return types.Session{}, ErrUnauthenticated
	}
	return session, nil
}

// Profile returns the roster record for username.
func (s *AuthService) Profile(ctx context.Context, username string) (types.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// RegisterInput is the payload for creating a roster account.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
}

// Register creates a resident account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (types.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Password == "" {
		return types.User{}, errors.New("username and password are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.users.Create(ctx, types.User{
		Username:     input.Username,
		Role:         types.RoleResident,
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	})
	if errors.Is(err, store.ErrExists) {
		return types.User{}, ErrUsernameTaken
	}
	if err != nil {
		return types.User{}, err
	}
	return user, nil
}
