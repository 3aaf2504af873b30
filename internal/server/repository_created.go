package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v55/github"
	"github.com/rs/zerolog"

	"github.com/ellisd-github-technical/branch-protection/internal/policy"
	"github.com/ellisd-github-technical/branch-protection/internal/webhook"
)

// handleRepositoryCreated protects the new repository's default branch and
// opens a notification issue. The two steps are best effort: a failed issue
// creation does not roll back protection already applied.
func (s *Server) handleRepositoryCreated(c *gin.Context, logger zerolog.Logger, payload *webhook.Payload) {
	if err := payload.Validate(); err != nil {
		logger.Error().Err(err).Msg("Malformed repository payload")
		c.String(http.StatusBadRequest, "missing required payload fields")
		return
	}

	owner, repo, err := payload.Repository.OwnerAndName()
	if err != nil {
		logger.Error().Err(err).Msg("Malformed repository payload")
		c.String(http.StatusBadRequest, "invalid repository name")
		return
	}

	if err := s.protectAndNotify(handlerContext(c), logger, payload, owner, repo); err != nil {
		logger.Error().Err(err).
			Str("repository", payload.Repository.FullName).
			Msg("Failed to process repository creation")
		c.String(http.StatusInternalServerError, "failed to process event")
		return
	}

	c.String(http.StatusOK, "ok")
}

func (s *Server) protectAndNotify(ctx context.Context, logger zerolog.Logger, payload *webhook.Payload, owner, repo string) error {
	client, err := s.Installations.InstallationClient(ctx, payload.Installation.ID)
	if err != nil {
		return fmt.Errorf("failed to authenticate installation %d: %w", payload.Installation.ID, err)
	}

	branch := payload.Repository.DefaultBranch
	if _, _, err := client.Repositories.UpdateBranchProtection(ctx, owner, repo, branch, policy.Request()); err != nil {
		return fmt.Errorf("failed to protect branch %s: %w", branch, err)
	}
	logger.Info().
		Str("repository", payload.Repository.FullName).
		Str("branch", branch).
		Msg("Branch protection applied")

	issue := &github.IssueRequest{
		Title: github.String(fmt.Sprintf("Default branch protection enabled on %s", payload.Repository.FullName)),
		Body: github.String(fmt.Sprintf(
			"Hi @%s, this repository was set up with the organization's default branch protection.\n\n%s",
			payload.Sender.Login, policy.Describe(branch),
		)),
	}
	created, _, err := client.Issues.Create(ctx, owner, repo, issue)
	if err != nil {
		return fmt.Errorf("failed to create notification issue: %w", err)
	}
	logger.Info().
		Str("repository", payload.Repository.FullName).
		Int("issue", created.GetNumber()).
		Msg("Notification issue created")

	return nil
}
