package main

import (
	"context"
	"flag"
	"os"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/app"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file or its directory")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootstrap := logger.New(config.LoggerConfig{Level: "info", Format: "json", OutputFile: "stdout"})
		bootstrap.Fatal("Failed to load configuration", zap.String("path", *configPath), zap.Error(err))
	}
	log := logger.New(cfg.Logger)

	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	if err := application.Run(context.Background()); err != nil {
		log.Error("Application stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
