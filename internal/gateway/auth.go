package gateway

import (
	"context"
	"net/http"

	"github.com/watisdis/pokedex-cli/internal/models"
	"github.com/watisdis/pokedex-cli/pkg/httpclient"
)

// AuthGateway talks to the auth endpoints of the Pokédex service. Auth calls
// never carry a bearer token.
type AuthGateway struct {
	client  httpclient.Client
	baseURL string
}

// NewAuthGateway creates an auth gateway for the given service base URL.
func NewAuthGateway(client httpclient.Client, baseURL string) *AuthGateway {
	return &AuthGateway{client: client, baseURL: baseURL}
}

// Login exchanges credentials for an access token.
func (g *AuthGateway) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var out models.TokenResponse
	err := call(ctx, g.client, nil, "auth", "login",
		http.MethodPost, g.baseURL+"/auth/login", req, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Register creates a new account.
func (g *AuthGateway) Register(ctx context.Context, req models.RegisterRequest) error {
	return call(ctx, g.client, nil, "auth", "register",
		http.MethodPost, g.baseURL+"/auth/register", req, nil)
}

// GoogleLogin exchanges an identity provider credential for an access token.
func (g *AuthGateway) GoogleLogin(ctx context.Context, providerToken string) (string, error) {
	var out models.TokenResponse
	req := models.GoogleLoginRequest{GoogleToken: providerToken}
	err := call(ctx, g.client, nil, "auth", "google_login",
		http.MethodPost, g.baseURL+"/auth/google-login", req, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
