package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	bootstrap := newBootstrapLogger()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		bootstrap.Debugf("no .env file loaded: %v", err)
	}

	loggerService, err := logger.NewService(&logger.Config{Level: logger.DebugLevel})
	if err != nil {
		bootstrap.Fatalf("Failed to initialize logger: %v", err)
	}

	configService := config.NewConfigService(loggerService)
	cfg, err := configService.Load(".")
	if err != nil {
		loggerService.LogFatal(err, "Failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		bootstrap.Info("Received shutdown signal")
		cancel()
	}()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		loggerService.LogFatal(err, "Failed to initialize application")
	}

	if err := app.Run(); err != nil {
		app.logger.LogError(err, "Application error")
	}

	<-ctx.Done()

	if err := app.Shutdown(); err != nil {
		bootstrap.Errorf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}
