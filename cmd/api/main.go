package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/app"
	"github.com/Muhannad-Khaled/Ailigent/internal/bootstrap"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

func main() {
	_ = godotenv.Load()
	logger, err := bootstrap.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunAPI(); err != nil {
		logger.Fatal("run api failed", zap.Error(err))
	}
}
