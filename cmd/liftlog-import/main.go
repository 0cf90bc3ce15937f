package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/importer"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	path := flag.String("path", "", "export file or directory of Alpha Progression CSV exports (required)")
	user := flag.String("user", "local", "login of the user the sets belong to")
	migrationsDir := flag.String("migrations", "migrations", "path to migrations directory")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := logging.New(os.Stdout, slog.LevelInfo, false)

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml -path /path/to/exports [-user login] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
		stats, err := importer.New(nil, nil, 0, log, true).Import(context.Background(), *path)
		printStats(log, stats)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, *migrationsDir); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	userID, err := db.GetOrCreateUser(ctx, *user, *user)
	if err != nil {
		log.Error("failed to resolve user", "user", *user, "error", err)
		os.Exit(1)
	}

	imp := importer.New(alpha.NewProvider(db, log), db, userID, log, false)
	stats, err := imp.Import(ctx, *path)
	printStats(log, stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	if stats == nil {
		return
	}
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_errored", stats.FilesErrored,
		"sessions", stats.Sessions,
		"sets_received", stats.SetsReceived,
		"sets_inserted", stats.SetsInserted,
		"sets_replaced", stats.SetsReplaced,
		"training", duration.Format(stats.TrainingSeconds),
	)
}
