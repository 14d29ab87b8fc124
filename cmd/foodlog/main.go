package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/foodlog/internal/config"
	"github.com/nhath/foodlog/internal/logging"
	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tagcache"
	"github.com/nhath/foodlog/internal/tags"
	"github.com/nhath/foodlog/internal/ui"
)

func main() {
	// Parse flags
	debug := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "Path to config.toml (default: XDG config dir)")
	dsn := flag.String("dsn", "", "Database to use instead of the configured one, e.g. postgres://user@host/db")
	save := flag.Bool("save", false, "Store the --dsn database in the config file")
	flag.Parse()

	if *save && *dsn == "" {
		fmt.Fprintln(os.Stderr, "foodlog: --save needs --dsn")
		os.Exit(2)
	}

	if err := run(*configPath, *dsn, *save, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "foodlog: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dsn string, save, debug bool) error {
	// Load configuration
	var err error
	if configPath == "" {
		if configPath, err = config.ConfigPath(); err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logging
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logPath, err := logging.Path()
	if err != nil {
		return fmt.Errorf("failed to resolve log path: %w", err)
	}
	if err := logging.Init(logPath, level); err != nil {
		return err
	}
	defer logging.Close()

	if dsn != "" {
		cfg.Store, err = config.ParseDSN(dsn)
		if err != nil {
			return fmt.Errorf("invalid dsn: %w", err)
		}
		if save {
			// The password is written encrypted with the keyring master key.
			if err := cfg.SaveTo(configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			logging.Info("store saved to config", "path", configPath, "dsn", cfg.Store.DisplayDSN())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open the food log
	st, err := store.Open(ctx, cfg.Store.Params())
	if err != nil {
		return err
	}
	defer st.Close()
	logging.Info("food log ready", "driver", st.Driver(), "dsn", cfg.Store.DisplayDSN())

	if n, err := st.SeedFoods(ctx, store.DefaultFoods); err != nil {
		logging.Warn("seeding foods failed", "error", err)
	} else if n > 0 {
		logging.Info("seeded foods", "count", n)
	}

	// Tag lookup cache
	cache, err := tagcache.New(ctx, tagcache.Config{
		Backend:  cfg.Cache.Backend,
		TTL:      cfg.Cache.TTL(),
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		// A missing cache only costs lookups.
		logging.Warn("tag cache unavailable", "backend", cfg.Cache.Backend, "error", err)
		cache = nil
	}
	if r, ok := cache.(*tagcache.Redis); ok {
		defer r.Close()
	}
	service := tags.NewService(st, cache, cfg.Search.LookupLimit)

	model := ui.NewModel(ui.Options{
		Config: cfg,
		Store:  st,
		Tags:   service,
		DSN:    cfg.Store.DisplayDSN(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
