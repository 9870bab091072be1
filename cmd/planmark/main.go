package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/planmark/planmark/internal/app"
	"github.com/planmark/planmark/internal/buildinfo"
	"github.com/planmark/planmark/internal/config"
	"github.com/planmark/planmark/internal/models"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg, models.User{ID: cfg.UserID}, cfg.ProjectID)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	a.StartOnlineStatusWatcher(ctx, cfg.OnlineCheckInterval)
}
