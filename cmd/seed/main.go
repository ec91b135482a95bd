package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/cardshop-backend/internal/seed"
	"github.com/angelmondragon/cardshop-backend/pkg/config"
	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
	"github.com/angelmondragon/cardshop-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	dir := flag.String("dir", "public/card-assets", "card asset directory with one folder per set")
	imagePrefix := flag.String("image-prefix", "/card-assets", "public path prefix stored on each card image")
	dryRun := flag.Bool("dry-run", false, "scan and report without writing")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": *dir})

	scan, err := seed.Scan(os.DirFS(*dir), *imagePrefix)
	requireResource(ctx, logg, "card assets", err)

	for _, folder := range scan.MissingFolders {
		logg.Warn(logg.WithField(ctx, "folder", folder), "set folder missing")
	}
	for _, file := range scan.Skipped {
		logg.Warn(logg.WithField(ctx, "file", file), "skipped file")
	}

	scanCtx := logg.WithFields(ctx, map[string]any{
		"cards":   len(scan.Cards),
		"skipped": len(scan.Skipped),
	})
	logg.Info(scanCtx, "scan complete")
	if *dryRun {
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	seeder, err := seed.NewSeeder(dbClient, logg)
	requireResource(ctx, logg, "seeder", err)

	summary, err := seeder.Seed(ctx, scan.Cards)
	ctx = logg.WithFields(ctx, map[string]any{
		"cards_seen":         summary.CardsSeen,
		"cards_inserted":     summary.CardsInserted,
		"inventory_inserted": summary.InventoryInserted,
		"failed":             summary.Failed,
	})
	if err != nil {
		logg.Error(ctx, "seed finished with failures", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
