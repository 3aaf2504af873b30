package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ellisd-github-technical/branch-protection/internal/webhook"
)

const (
	eventHeader     = "X-GitHub-Event"
	signatureHeader = "X-Hub-Signature-256"
)

// handleEvent is the sole webhook route. It verifies the delivery signature
// against the raw body before anything else touches the payload.
func (s *Server) handleEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.RateLimiter.Allow() {
			c.String(http.StatusTooManyRequests, "too many requests")
			return
		}

		body, err := c.GetRawData()
		if err != nil {
			s.Logger.Error().Err(err).Msg("Failed to read request body")
			c.String(http.StatusInternalServerError, "cannot read body")
			return
		}

		signature := c.GetHeader(signatureHeader)
		if !webhook.VerifySignature(body, signature, s.Config.WebhookSecret) {
			s.Logger.Warn().
				Str("event", c.GetHeader(eventHeader)).
				Bool("signature_present", signature != "").
				Msg("Webhook signature verification failed")
			c.String(http.StatusUnauthorized, "invalid signature")
			return
		}

		payload, err := webhook.Parse(body)
		if err != nil {
			s.Logger.Error().Err(err).
				Str("event", c.GetHeader(eventHeader)).
				Msg("Invalid webhook payload")
			c.String(http.StatusBadRequest, "invalid payload format")
			return
		}

		s.dispatch(c, c.GetHeader(eventHeader), payload)
	}
}

// dispatch routes on event type and action. Anything this service does not
// act on is acknowledged with 200 so GitHub does not mark the delivery
// failed.
func (s *Server) dispatch(c *gin.Context, event string, payload *webhook.Payload) {
	logger := s.Logger.With().
		Str("event", event).
		Str("action", payload.Action).
		Logger()

	switch {
	case event == "repository" && payload.Action == "created":
		s.handleRepositoryCreated(c, logger, payload)

	case event == "ping":
		logger.Info().Msg("Ping received")
		c.String(http.StatusOK, "pong")

	default:
		logger.Info().Msg("Ignoring event")
		c.String(http.StatusOK, "ok")
	}
}

// handlerContext derives the context for outbound GitHub calls. Deliveries
// are acknowledged fire-and-forget by GitHub, so a dropped connection must
// not cancel work already underway.
func handlerContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
