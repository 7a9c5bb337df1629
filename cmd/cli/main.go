package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/imagefeed/internal/buildinfo"
	"github.com/dmitrijs2005/imagefeed/internal/client/cli"
	"github.com/dmitrijs2005/imagefeed/internal/client/config"
	"github.com/dmitrijs2005/imagefeed/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		logger.Error(ctx, "close failed", "error", err)
	}
	if runErr != nil {
		log.Fatalf("%v", runErr)
	}
}
