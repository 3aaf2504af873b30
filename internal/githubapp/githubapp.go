package githubapp

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

const (
	jwtExpirationMinutes = 10
	defaultAPIBaseURL    = "https://api.github.com"
	outboundTimeout      = 30 * time.Second
)

// New creates an Authenticator for the given App. The signing key must
// already be parsed; callers fail at startup on a bad key, not here.
func New(appID int, signingKey *rsa.PrivateKey, apiBaseURL string) *Authenticator {
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	return &Authenticator{
		appID:      appID,
		signingKey: signingKey,
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: outboundTimeout},
	}
}

// AppJWT generates a short-lived JWT asserting the App's identity.
// GitHub requires iss = App identifier, exp at most 10 minutes out.
func (a *Authenticator) AppJWT() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(jwtExpirationMinutes * time.Minute).Unix(),
		"iss": a.appID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", &AuthError{Op: "jwt signing", Err: err}
	}

	return signed, nil
}

// AppClient returns a go-github client authenticated as the App itself,
// usable only for App-level endpoints such as minting installation tokens.
func (a *Authenticator) AppClient(ctx context.Context) (*github.Client, error) {
	appJWT, err := a.AppJWT()
	if err != nil {
		return nil, err
	}
	return a.newClient(ctx, appJWT)
}

// InstallationClient exchanges the App credential for an installation access
// token and returns a client authenticated with it, scoped to that
// installation's repositories.
func (a *Authenticator) InstallationClient(ctx context.Context, installationID int64) (*github.Client, error) {
	appClient, err := a.AppClient(ctx)
	if err != nil {
		return nil, err
	}

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, &AuthError{Op: "installation token exchange", Err: err}
	}

	return a.newClient(ctx, token.GetToken())
}

// newClient builds a go-github client carrying the given bearer token,
// pointed at the configured API base URL.
func (a *Authenticator) newClient(ctx context.Context, token string) (*github.Client, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if a.apiBaseURL != defaultAPIBaseURL {
		baseURL := a.apiBaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", a.apiBaseURL, err)
		}
		client.BaseURL = parsed
		client.UploadURL = parsed
	}

	return client, nil
}
