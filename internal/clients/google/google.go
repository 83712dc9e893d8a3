package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Identity is Google's view of the signed-in user, as returned by the
// userinfo endpoint.
type Identity struct {
	Subject       string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

type Client struct {
	oauth *oauth2.Config
	http  *http.Client
}

// New returns nil when the OAuth credentials are not configured, which
// disables the social login routes.
func New(clientID, clientSecret, redirectURL string) *Client {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: oauthgoogle.Endpoint,
		},
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL builds the consent URL carrying the CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// FetchIdentity exchanges the callback code and reads the userinfo profile.
func (c *Client) FetchIdentity(ctx context.Context, code string) (*Identity, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	identity := &Identity{}
	if err := json.NewDecoder(resp.Body).Decode(identity); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return identity, nil
}
