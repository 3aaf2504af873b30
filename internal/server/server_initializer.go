package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ellisd-github-technical/branch-protection/internal/config"
	"github.com/ellisd-github-technical/branch-protection/internal/githubapp"
	"github.com/ellisd-github-technical/branch-protection/internal/vault"
)

// New assembles the server: configuration from Vault with environment
// fallback, the App authenticator, and the HTTP router. Configuration
// problems (missing secret, malformed private key) are returned here so the
// process never accepts traffic in a broken state.
func New() (*Server, error) {
	vaultClient, err := vault.NewClient()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Vault client, falling back to environment variables")
	}

	cfg, err := config.Load(vaultClient)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Logger:        log.With().Str("component", "server").Logger(),
		RateLimiter:   rate.NewLimiter(rate.Every(time.Second), cfg.RateLimit),
		Config:        cfg,
		Installations: githubapp.New(cfg.AppID, cfg.SigningKey(), cfg.APIBaseURL),
		VaultClient:   vaultClient,
	}

	gin.SetMode(gin.ReleaseMode)
	s.Router = s.newRouter()
	s.Server = &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: s.Router,
	}

	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/event_handler", s.handleEvent())
	router.GET("/api/health", s.handleHealth())

	return router
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	}
}

func (s *Server) Start() error {
	s.Logger.Info().Str("addr", s.Server.Addr).Msg("Starting server")
	return s.Server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.Server != nil {
		s.Logger.Info().Msg("Stopping server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Server.Shutdown(ctx)
	}
	return nil
}
