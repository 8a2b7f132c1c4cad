package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/reviewboost/reviewboost_be/internal/app"
	"github.com/reviewboost/reviewboost_be/internal/config"
	"github.com/reviewboost/reviewboost_be/internal/db"
	"github.com/reviewboost/reviewboost_be/internal/email"
	"github.com/reviewboost/reviewboost_be/internal/logger"
	"github.com/reviewboost/reviewboost_be/internal/models"
	"github.com/reviewboost/reviewboost_be/internal/payments"
	"github.com/reviewboost/reviewboost_be/internal/realtime"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	cfg := config.Load()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Error("database connect failed", "err", err)
		os.Exit(1)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.FreelancerProfile{},
		&models.ReviewRequest{},
		&models.ContactSubmission{},
		&models.Resource{},
	); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Redis backs logout revocation and the cross-instance event relay;
		// the API itself still serves without it.
		logger.Warn("redis unavailable", "addr", cfg.RedisAddr, "err", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	notifier := realtime.NewNotifier(hub, rdb)
	go notifier.RunRelay(context.Background())

	gateway := payments.NewSimulatedGateway()
	mail := email.NewSMTPSender(email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})

	a := app.New(cfg, gdb, rdb, gateway, mail, hub, notifier)

	logger.Info("listening", "port", cfg.AppPort)
	if err := a.Listen(":" + cfg.AppPort); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
