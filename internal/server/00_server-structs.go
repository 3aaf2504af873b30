package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ellisd-github-technical/branch-protection/internal/config"
	"github.com/ellisd-github-technical/branch-protection/internal/vault"
)

// InstallationClientSource mints a GitHub client authenticated for a single
// installation. Satisfied by githubapp.Authenticator.
type InstallationClientSource interface {
	InstallationClient(ctx context.Context, installationID int64) (*github.Client, error)
}

// Server represents the webhook receiver and its dependencies.
type Server struct {
	Router        *gin.Engine
	Server        *http.Server
	Logger        zerolog.Logger
	RateLimiter   *rate.Limiter
	Config        *config.Config
	Installations InstallationClientSource
	VaultClient   *vault.Client
}
