// Command seed generates mock articles and loads them into the database.
//
// Usage:
//
//	seed generate [-count N]
//	seed filldb [-count N] [-readers N] [-clean]
//	seed migrate
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"typoteka/internal/config"
	"typoteka/internal/database"
	"typoteka/internal/middleware"
	"typoteka/internal/seed"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	if err := run(context.Background(), cfg, os.Args[1], os.Args[2:]); err != nil {
		middleware.Logger.Error("seed failed", slog.String("command", os.Args[1]), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: seed generate|filldb|migrate [flags]")
}

func run(ctx context.Context, cfg *config.Config, command string, args []string) error {
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	count := flags.Int("count", 1, "number of articles to generate")
	readers := flags.Int("readers", 5, "number of commenting accounts (filldb)")
	clean := flags.Bool("clean", false, "delete existing data before filling (filldb)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	switch command {
	case "generate":
		return generate(cfg, *count)
	case "filldb":
		return fillDB(ctx, cfg, *count, *readers, *clean)
	case "migrate":
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func generate(cfg *config.Config, count int) error {
	words, err := seed.LoadWordLists(cfg.SeedDataFile)
	if err != nil {
		return err
	}
	articles, err := seed.NewGenerator(words, 0).Articles(count, false)
	if err != nil {
		return err
	}
	if err := seed.WriteMocks(cfg.MocksFile, articles); err != nil {
		return err
	}
	middleware.Logger.Info("mocks written", slog.String("file", cfg.MocksFile), slog.Int("articles", len(articles)))
	return nil
}

func fillDB(ctx context.Context, cfg *config.Config, count, readers int, clean bool) error {
	words, err := seed.LoadWordLists(cfg.SeedDataFile)
	if err != nil {
		return err
	}
	g := seed.NewGenerator(words, 0)
	articles, err := g.Articles(count, true)
	if err != nil {
		return err
	}

	middleware.Logger.Info("connecting to database")
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	_, err = seed.NewFiller(db, g).Fill(ctx, words.Categories, articles, seed.FillOptions{
		Readers: readers,
		Clean:   clean,
	})
	return err
}
