package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signalbot/internal/format"
	"signalbot/internal/parser"
	"signalbot/internal/risk"
	"signalbot/internal/validate"
	"signalbot/models"
)

// Statuses reported in the webhook response body. The HTTP status code stays
// 200 regardless, so the alerting platform never retries; only the body's
// status field changes.
const (
	StatusSuccess     = "success"
	StatusInvalidData = "invalid_data"
	StatusRejected    = "rejected"
	StatusRelayedRaw  = "relayed_raw"
	StatusError       = "error"
)

// Server wires the signal pipeline behind the webhook endpoint.
type Server struct {
	router     *gin.Engine
	parser     *parser.Parser
	validator  *validate.Validator
	calculator *risk.Calculator
	dispatcher models.Dispatcher

	relayRaw    bool
	sendTimeout time.Duration
	logger      zerolog.Logger
}

// New creates the HTTP server around the given pipeline components.
func New(p *parser.Parser, v *validate.Validator, c *risk.Calculator, d models.Dispatcher, relayRaw bool, sendTimeout time.Duration) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:      router,
		parser:      p,
		validator:   v,
		calculator:  c,
		dispatcher:  d,
		relayRaw:    relayRaw,
		sendTimeout: sendTimeout,
		logger:      log.With().Str("component", "server").Logger(),
	}

	router.POST("/webhook", s.handleWebhook)
	router.GET("/health", s.handleHealth)

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "service": "signalbot"})
}

func (s *Server) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": StatusInvalidData})
		return
	}

	sig := s.parser.Parse(body)
	logger := s.logger.With().Str("signal_id", sig.ID).Logger()

	if !sig.Resolved() {
		logger.Info().Msg("Unresolvable payload, nothing to relay")
		c.JSON(http.StatusOK, gin.H{"status": StatusInvalidData, "signal_id": sig.ID})
		return
	}

	result := s.validator.Check(sig)
	if !result.IsValid {
		logger.Info().Strs("reasons", result.Reasons).Msg("Signal rejected")
		c.JSON(http.StatusOK, gin.H{
			"status":    StatusRejected,
			"signal_id": sig.ID,
			"reasons":   result.Reasons,
		})
		return
	}

	status := StatusSuccess
	var text string
	if sig.IsExit {
		// Exits close an assumed position; stop/target levels would be
		// meaningless.
		text = format.Message(sig, nil, result)
	} else {
		params, calcErr := s.calculator.Calculate(sig)
		switch {
		case calcErr == nil:
			text = format.Message(sig, params, result)
		case s.relayRaw:
			logger.Warn().Err(calcErr).Msg("Risk calculation failed, relaying raw")
			text = format.RawRelay(sig)
			status = StatusRelayedRaw
		default:
			logger.Warn().Err(calcErr).Msg("Risk calculation failed")
			c.JSON(http.StatusOK, gin.H{"status": StatusInvalidData, "signal_id": sig.ID})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.sendTimeout)
	defer cancel()

	if err := s.dispatcher.Send(ctx, text); err != nil {
		logger.Error().Err(err).Msg("Notification dispatch failed")
		c.JSON(http.StatusOK, gin.H{
			"status":    StatusError,
			"signal_id": sig.ID,
			"message":   "failed to send signal",
		})
		return
	}

	logger.Info().
		Str("instrument", sig.Instrument).
		Str("direction", string(sig.Direction)).
		Str("status", status).
		Msg("Signal relayed")

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"signal_id": sig.ID,
		"signal":    signalSummary(sig),
	})
}

func signalSummary(sig *models.Signal) string {
	price := models.Unresolved
	if sig.HasPrice {
		price = format.Price(sig.EntryPrice, sig.Category)
	}
	return fmt.Sprintf("%s %s @ %s", sig.Instrument, format.ActionLabel(sig), price)
}
