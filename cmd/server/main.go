package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"signalbot/internal/config"
	"signalbot/internal/logger"
	"signalbot/internal/notify"
	"signalbot/internal/parser"
	"signalbot/internal/risk"
	"signalbot/internal/server"
	"signalbot/internal/validate"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration failed")
	}

	logger.Setup(cfg.LogLevel, cfg.LogDir)

	dispatcher, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Telegram dispatcher failed")
	}

	srv := server.New(
		parser.New(cfg.DefaultTimeframe),
		validate.New(cfg.DedupCooldown, cfg.HistoryRetention),
		risk.NewCalculator(risk.Sizing{
			AccountBalance: cfg.AccountBalance,
			RiskPercent:    cfg.RiskPercent,
			MinLotSize:     cfg.MinLotSize,
			MaxLotSize:     cfg.MaxLotSize,
		}),
		dispatcher,
		cfg.RelayRaw,
		cfg.RequestTimeout,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Webhook server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
