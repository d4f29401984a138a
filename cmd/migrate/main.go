package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory; empty uses the migrations built into the binary")
	name := flag.String("name", "", "migration name for -cmd=create")
	target := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	// offline commands need neither config nor a database
	switch *cmd {
	case "create":
		out := *dir
		if out == "" {
			out = migrate.DefaultDir
		}
		file, err := migrate.CreateSQLMigration(out, *name)
		exitOn("create", err)
		fmt.Println("created", file)
		return
	case "validate":
		source, err := migrate.Source(*dir)
		exitOn("validate", err)
		exitOn("validate", migrate.Validate(source))
		fmt.Println("migrations ok")
		return
	}

	cfg, err := config.Load()
	exitOn("load config", err)
	logg := logger.ForService("migrate", cfg.App)
	ctx := logg.WithFields(context.Background(), map[string]any{"cmd": *cmd, "env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "migrate.db_unavailable", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := run(ctx, dbClient, *cmd, *dir, *target); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migrate.done")
}

func run(ctx context.Context, client *db.Client, cmd, dir, target string) error {
	if client.IsSQLite() {
		if cmd != "up" {
			return fmt.Errorf("sqlite databases only support -cmd=up, got %q", cmd)
		}
		return migrate.AutoMigrateModels(ctx, client.DB())
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	source, err := migrate.Source(dir)
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(sqlDB, source)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		applied, err := runner.Up(ctx)
		fmt.Println("applied:", applied)
		return err
	case "down":
		version, err := runner.Down(ctx)
		fmt.Println("rolled back:", version)
		return err
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fmt.Printf("%-10s %s\n", s.State, s.Source.Path)
		}
		return nil
	case "version":
		version, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return fmt.Errorf("-version must be numeric: %w", err)
		}
		moved, err := runner.To(ctx, version)
		fmt.Println("migrated:", moved)
		return err
	default:
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func exitOn(step string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
