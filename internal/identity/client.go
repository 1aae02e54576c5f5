package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/portal-service/internal/config"
)

// ErrInvalidToken signals the provider rejected the token or returned no
// user. Non-fatal for the caller; the next candidate is tried.
var ErrInvalidToken = errors.New("identity: token rejected")

// ErrUnavailable signals the provider could not be reached or answered with a
// server error. Callers must surface this as an outage, not an auth failure.
var ErrUnavailable = errors.New("identity: provider unavailable")

// Identity is the subject resolved for a delegated token. It carries no
// application role; that is resolved separately from the data store.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Verifier resolves an opaque delegated token into an Identity.
type Verifier interface {
	Lookup(ctx context.Context, token string) (*Identity, error)
}

// Client calls the identity provider's get-user-by-token endpoint.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient builds a provider client. With an empty base URL delegated
// verification is disabled and every lookup is rejected.
func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

// Lookup resolves the token via GET /auth/v1/user. Provider rejections map to
// ErrInvalidToken, transport and server errors to ErrUnavailable.
func (c *Client) Lookup(ctx context.Context, token string) (*Identity, error) {
	if c.baseURL == "" {
		return nil, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}

	name := user.UserMetadata.Name
	if name == "" {
		name = user.UserMetadata.FullName
	}
	return &Identity{ID: user.ID, Email: user.Email, Name: name}, nil
}
