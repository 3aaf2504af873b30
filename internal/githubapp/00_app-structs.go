package githubapp

import (
	"crypto/rsa"
	"fmt"
	"net/http"
)

// Authenticator holds the App credentials needed to mint JWTs and exchange
// them for installation tokens.
type Authenticator struct {
	appID      int
	signingKey *rsa.PrivateKey
	apiBaseURL string
	httpClient *http.Client
}

// AuthError wraps a failure during GitHub App authentication.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("github authentication error during %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
