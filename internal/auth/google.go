package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUser is the portion of Google's userinfo response we care about.
type GoogleUser struct {
	Sub     string `json:"sub"`     // Google's stable subject ID for this account
	Email   string `json:"email"`   // may be unverified; we require verified below
	Name    string `json:"name"`    // display name
	Picture string `json:"picture"` // avatar URL
	// Google reports whether it has verified the address. Unverified
	// emails must not attach to existing accounts.
	EmailVerified bool `json:"email_verified"`
}

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization
// Code flow: redirect the user to Google, receive a short-lived code on the
// callback URL, exchange it server-to-server for the user's profile.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider. callbackURL must exactly
// match an authorized redirect URI of the OAuth client in the Google Cloud
// console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google authorization URL for the given CSRF state.
// The caller stores state in a short-lived cookie and verifies it on
// callback.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's Google profile:
// code → access token (server-to-server), then token → userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// config.Client attaches the bearer token to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get("https://openidconnect.googleapis.com/v1/userinfo")
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var gUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo response: %w", err)
	}

	if gUser.Sub == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty subject)")
	}
	if gUser.Email == "" || !gUser.EmailVerified {
		return nil, fmt.Errorf("auth: Google account has no verified email")
	}

	return &gUser, nil
}
