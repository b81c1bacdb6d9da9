package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nosql-repository-backend/controller"
	"nosql-repository-backend/models"
	"nosql-repository-backend/utils"
	"nosql-repository-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	config, err := utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Debugf("Config loaded: %s", utils.PrintPrettyJSON(redacted(*config)))
	if config.AppEnv == "prod" || config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := controller.NewServer(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to start: %v", err)
	}

	if err := server.Run(ctx); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}

// redacted hides credentials before the config is logged
func redacted(cfg models.Config) models.Config {
	if cfg.AWSSecretAccessKey != "" {
		cfg.AWSSecretAccessKey = "****"
	}
	return cfg
}
