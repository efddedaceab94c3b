// Package session owns authentication state: the persisted credential, the
// login state machine derived from it, and route access gating.
package session

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
	"github.com/watisdis/pokedex-cli/pkg/logger"
)

// State is the session lifecycle state.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	AuthFailed
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case AuthFailed:
		return "auth_failed"
	default:
		return "unknown"
	}
}

// Route targets used by gating when access is denied.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// AuthGateway is the remote auth collaborator.
type AuthGateway interface {
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	GoogleLogin(ctx context.Context, providerToken string) (string, error)
}

// Session is the state machine governing login state and route access.
// All mutations funnel through it; observers receive state transitions.
type Session struct {
	mu        sync.Mutex
	gw        AuthGateway
	store     TokenStore
	validate  *validator.Validate
	state     State
	lastErr   error
	observers []func(State)
}

// New derives the initial state from the token store: a persisted credential
// means Authenticated. The token is not validated eagerly; an expired one is
// discovered on the first failed protected call.
func New(gw AuthGateway, store TokenStore) *Session {
	s := &Session{
		gw:       gw,
		store:    store,
		validate: validator.New(),
		state:    Anonymous,
	}
	if _, ok := store.Get(); ok {
		s.state = Authenticated
	}
	return s
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error carried by the last failed transition, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers an observer for state transitions (route guards, UI).
func (s *Session) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Login submits credentials. Empty or malformed fields are rejected locally
// without touching the network.
func (s *Session) Login(ctx context.Context, email, password string) error {
	req := models.LoginRequest{Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return s.fail(apierr.ValidationError("credentials", err.Error()))
	}

	s.transition(Authenticating, nil)
	token, err := s.gw.Login(ctx, req)
	if err != nil {
		return s.fail(err)
	}
	return s.establish(token)
}

// Register creates an account. It does not log the user in; the caller
// follows up with Login.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	req := models.RegisterRequest{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return apierr.ValidationError("registration", err.Error())
	}
	return s.gw.Register(ctx, req)
}

// LoginWithGoogle exchanges a pre-validated identity provider credential for
// a session token. The resulting token is persisted identically to Login.
func (s *Session) LoginWithGoogle(ctx context.Context, providerToken string) error {
	if providerToken == "" {
		return s.fail(apierr.ValidationError("googleToken", "required"))
	}

	s.transition(Authenticating, nil)
	token, err := s.gw.GoogleLogin(ctx, providerToken)
	if err != nil {
		return s.fail(err)
	}
	return s.establish(token)
}

// Logout clears the persisted credential and returns to Anonymous.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		logger.Warn("failed to clear token store", zap.Error(err))
	}
	s.transition(Anonymous, nil)
}

// HandleRemoteError inspects an error from any component's remote call and
// forces a logout when the credential was rejected. Returns true when the
// session was terminated.
func (s *Session) HandleRemoteError(err error) bool {
	if !apierr.Is(err, apierr.ErrUnauthorized) {
		return false
	}
	logger.Warn("credential rejected by remote call, forcing logout", zap.Error(err))
	if cerr := s.store.Clear(); cerr != nil {
		logger.Warn("failed to clear token store", zap.Error(cerr))
	}
	s.transition(Anonymous, err)
	return true
}

// GateProtected reports whether a protected view is reachable; when it is
// not, redirect carries the route to navigate to instead.
func (s *Session) GateProtected() (allowed bool, redirect string) {
	if s.State() == Authenticated {
		return true, ""
	}
	return false, LoginRoute
}

// GatePublicOnly reports whether a public-only view (login, register) is
// reachable.
func (s *Session) GatePublicOnly() (allowed bool, redirect string) {
	if s.State() == Authenticated {
		return false, HomeRoute
	}
	return true, ""
}

// Username extracts the username claim from the current credential, if any.
func (s *Session) Username() string {
	token, ok := s.store.Get()
	if !ok {
		return ""
	}
	var claims struct {
		Username string `json:"username"`
		jwt.RegisteredClaims
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Username
}

// establish persists the token and completes the Authenticating transition.
func (s *Session) establish(token string) error {
	if err := s.store.Set(token); err != nil {
		return s.fail(err)
	}
	s.transition(Authenticated, nil)
	logger.Info("session established")
	return nil
}

// fail records the error and moves to AuthFailed. A prior persisted token is
// left untouched.
func (s *Session) fail(err error) error {
	s.transition(AuthFailed, err)
	return err
}

func (s *Session) transition(to State, err error) {
	s.mu.Lock()
	s.state = to
	s.lastErr = err
	observers := make([]func(State), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(to)
	}
}
