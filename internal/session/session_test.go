package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/internal/session"
	"github.com/watisdis/pokedex-cli/pkg/apierr"
)

// MockAuthGateway is a mock implementation of AuthGateway
type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthGateway) Register(ctx context.Context, req models.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthGateway) GoogleLogin(ctx context.Context, providerToken string) (string, error) {
	args := m.Called(ctx, providerToken)
	return args.String(0), args.Error(1)
}

func TestSession_LoginSuccess(t *testing.T) {
	gw := new(MockAuthGateway)
	store := session.NewMemoryTokenStore()
	s := session.New(gw, store)
	ctx := context.Background()

	req := models.LoginRequest{Email: "ash@pallet.town", Password: "pikachu"}
	gw.On("Login", ctx, req).Return("session-token", nil).Once()

	var states []session.State
	s.Subscribe(func(st session.State) { states = append(states, st) })

	err := s.Login(ctx, "ash@pallet.town", "pikachu")
	require.NoError(t, err)

	assert.Equal(t, session.Authenticated, s.State())
	assert.Equal(t, []session.State{session.Authenticating, session.Authenticated}, states)

	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "session-token", token)

	gw.AssertExpectations(t)
}

func TestSession_LoginRemoteFailure(t *testing.T) {
	gw := new(MockAuthGateway)
	store := session.NewMemoryTokenStore()
	s := session.New(gw, store)
	ctx := context.Background()

	req := models.LoginRequest{Email: "ash@pallet.town", Password: "wrong"}
	gw.On("Login", ctx, req).Return("", apierr.ErrUnauthorized).Once()

	err := s.Login(ctx, "ash@pallet.town", "wrong")
	require.Error(t, err)

	assert.Equal(t, session.AuthFailed, s.State())
	assert.ErrorIs(t, s.LastError(), apierr.ErrUnauthorized)

	_, ok := store.Get()
	assert.False(t, ok)

	gw.AssertExpectations(t)
}

func TestSession_LoginLocalValidationSkipsNetwork(t *testing.T) {
	gw := new(MockAuthGateway)
	s := session.New(gw, session.NewMemoryTokenStore())
	ctx := context.Background()

	err := s.Login(ctx, "not-an-email", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrValidation)
	assert.Equal(t, session.AuthFailed, s.State())

	err = s.Login(ctx, "ash@pallet.town", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrValidation)

	gw.AssertNotCalled(t, "Login")
}

func TestSession_RegisterDoesNotLogIn(t *testing.T) {
	gw := new(MockAuthGateway)
	store := session.NewMemoryTokenStore()
	s := session.New(gw, store)
	ctx := context.Background()

	req := models.RegisterRequest{Username: "ash", Email: "ash@pallet.town", Password: "pikachu"}
	gw.On("Register", ctx, req).Return(nil).Once()

	err := s.Register(ctx, "ash", "ash@pallet.town", "pikachu")
	require.NoError(t, err)

	assert.Equal(t, session.Anonymous, s.State())
	_, ok := store.Get()
	assert.False(t, ok)

	gw.AssertExpectations(t)
}

func TestSession_RegisterValidation(t *testing.T) {
	gw := new(MockAuthGateway)
	s := session.New(gw, session.NewMemoryTokenStore())
	ctx := context.Background()

	// Password below the minimum length is rejected locally.
	err := s.Register(ctx, "ash", "ash@pallet.town", "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrValidation)

	gw.AssertNotCalled(t, "Register")
}

func TestSession_GoogleLogin(t *testing.T) {
	gw := new(MockAuthGateway)
	store := session.NewMemoryTokenStore()
	s := session.New(gw, store)
	ctx := context.Background()

	gw.On("GoogleLogin", ctx, "provider-credential").Return("session-token", nil).Once()

	err := s.LoginWithGoogle(ctx, "provider-credential")
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, s.State())

	token, ok := store.Get()
	assert.True(t, ok)
	assert.Equal(t, "session-token", token)

	gw.AssertExpectations(t)
}

func TestSession_GoogleLoginEmptyToken(t *testing.T) {
	gw := new(MockAuthGateway)
	s := session.New(gw, session.NewMemoryTokenStore())

	err := s.LoginWithGoogle(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierr.ErrValidation)

	gw.AssertNotCalled(t, "GoogleLogin")
}

func TestSession_InitialStateFromStore(t *testing.T) {
	store := session.NewMemoryTokenStore()
	require.NoError(t, store.Set("persisted-token"))

	s := session.New(new(MockAuthGateway), store)
	assert.Equal(t, session.Authenticated, s.State())

	s = session.New(new(MockAuthGateway), session.NewMemoryTokenStore())
	assert.Equal(t, session.Anonymous, s.State())
}

func TestSession_Logout(t *testing.T) {
	store := session.NewMemoryTokenStore()
	require.NoError(t, store.Set("persisted-token"))
	s := session.New(new(MockAuthGateway), store)

	s.Logout()

	assert.Equal(t, session.Anonymous, s.State())
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestSession_HandleRemoteError(t *testing.T) {
	store := session.NewMemoryTokenStore()
	require.NoError(t, store.Set("stale-token"))
	s := session.New(new(MockAuthGateway), store)

	// Non-credential failures leave the session alone.
	assert.False(t, s.HandleRemoteError(apierr.ErrNetwork))
	assert.False(t, s.HandleRemoteError(apierr.ErrNotFound))
	assert.False(t, s.HandleRemoteError(nil))
	assert.Equal(t, session.Authenticated, s.State())

	// A rejected credential forces a logout.
	assert.True(t, s.HandleRemoteError(apierr.ErrUnauthorized))
	assert.Equal(t, session.Anonymous, s.State())
	_, ok := store.Get()
	assert.False(t, ok)
}

func TestSession_RouteGating(t *testing.T) {
	store := session.NewMemoryTokenStore()
	s := session.New(new(MockAuthGateway), store)

	allowed, redirect := s.GateProtected()
	assert.False(t, allowed)
	assert.Equal(t, session.LoginRoute, redirect)

	allowed, _ = s.GatePublicOnly()
	assert.True(t, allowed)

	require.NoError(t, store.Set("tok"))
	s = session.New(new(MockAuthGateway), store)

	allowed, _ = s.GateProtected()
	assert.True(t, allowed)

	allowed, redirect = s.GatePublicOnly()
	assert.False(t, allowed)
	assert.Equal(t, session.HomeRoute, redirect)
}

func TestSession_Username(t *testing.T) {
	store := session.NewMemoryTokenStore()
	token := signedToken(t, jwt.MapClaims{
		"username": "ash",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, store.Set(token))

	s := session.New(new(MockAuthGateway), store)
	assert.Equal(t, "ash", s.Username())

	require.NoError(t, store.Clear())
	assert.Equal(t, "", s.Username())
}
