package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ledgerpos/backend/internal/infrastructure/config"
	"github.com/ledgerpos/backend/internal/infrastructure/logger"
	"github.com/ledgerpos/backend/internal/infrastructure/migration"
)

func main() {
	var (
		path     = flag.String("path", "migrations", "path to migration files")
		logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	command := flag.Arg(0)

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := run(command, *path, log); err != nil {
		log.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func run(command, path string, log *zap.Logger) error {
	// create and list work on the filesystem only and need no database.
	switch command {
	case "create":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate create <name>")
		}
		pair, err := migration.CreateMigration(path, flag.Arg(1))
		if err != nil {
			return err
		}
		log.Info("migration files created",
			zap.String("up", pair.UpPath),
			zap.String("down", pair.DownPath),
		)
		return nil
	case "list":
		names, err := migration.ListMigrations(path)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := migration.New(db, path, log)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "step":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", flag.Arg(1), err)
		}
		return migrator.Steps(n)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		log.Info("current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil
	case "force":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		return migrator.Force(version)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up               apply all pending migrations
  down             roll back the most recent migration
  step <n>         apply n migrations (negative rolls back)
  version          print the current schema version
  force <version>  mark the schema version without running migrations
  create <name>    create a new pair of migration files
  list             list known migrations

Flags:
`)
	flag.PrintDefaults()
}
