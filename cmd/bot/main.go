package main

import (
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Nothing has touched the network yet.
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}

	logger.Init(cfg)
	defer logger.Close()
	mainLogger := logger.Named("main")

	for _, w := range cfg.Warnings {
		mainLogger.Warn(w)
	}
	mainLogger.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"chat_id":       cfg.ChatID,
		"poll_interval": cfg.PollInterval.String(),
	}).Info("Configuration loaded")

	bot, err := telegram.NewBot(cfg.TelegramToken, "", cfg.HTTPTimeout, logger.Named("telegram"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot, cfg.TelegramRatePerSec)

	source := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.HTTPTimeout, logger.Named("practicum"))

	notifService := app.NewNotificationServiceImpl(
		source,
		telegramClient,
		cfg.ChatID,
		cfg.RetryWindow,
		cfg.ReportErrors,
		logger.Named("notifier"),
	)

	statusScheduler := scheduler.NewStatusScheduler(notifService, logger.Named("scheduler"), cfg.PollInterval, cfg.PollInterval)
	if err := statusScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		mainLogger.WithError(err).Warn("Could not notify service manager")
	}
	mainLogger.Info("Homework status bot is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	mainLogger.WithField("signal", sig.String()).Info("Shutting down application...")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	statusScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
