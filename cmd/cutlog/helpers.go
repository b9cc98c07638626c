package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/weighline/cutlog/internal/app"
	"github.com/weighline/cutlog/internal/config"
	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/daytrack"
	"github.com/weighline/cutlog/internal/db"
	"github.com/weighline/cutlog/internal/gateway"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/ledger"
	"github.com/weighline/cutlog/internal/logger"
	"github.com/weighline/cutlog/internal/provider/brandfoods"
	"github.com/weighline/cutlog/internal/provider/nutridb"
)

// withController opens storage, wires the gateway and controller for
// the selected day, runs the callback, and tears everything down.
func withController(run func(*controller.Controller, kvstore.Store) error) error {
	cfg := config.Load()

	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}

	kv := kvstore.NewFallback(kvstore.NewSQLite(sqldb), logger.L())

	day, err := resolveDay()
	if err != nil {
		return err
	}
	store := ledger.Open(day, kv, daytrack.New(kv), logger.L())

	primary := &nutridb.Client{BaseURL: cfg.PrimaryBaseURL, APIKey: cfg.PrimaryAPIKey}
	secondary := &brandfoods.Client{BaseURL: cfg.SecondaryBaseURL}
	remote := gateway.New(
		gateway.ProviderConfig{Name: nutridb.ProviderName, Client: primary, ReportErrors: cfg.PrimaryReportErrors},
		gateway.ProviderConfig{Name: brandfoods.ProviderName, Client: secondary, ReportErrors: cfg.SecondaryReportErrors},
		primary,
		gateway.WithDebounce(cfg.Debounce),
		gateway.WithLogger(logger.L()),
	)
	defer remote.Close()

	ctrl := controller.New(store, kv, remote, nil, logger.L())
	return run(ctrl, kv)
}

func resolveDBPath(cfg config.Config) (string, error) {
	if strings.TrimSpace(dbPath) != "" {
		return dbPath, nil
	}
	if strings.TrimSpace(cfg.DBPath) != "" {
		return cfg.DBPath, nil
	}
	return app.DefaultDBPath()
}

// resolveDay returns the --date flag as a local YYYY-MM-DD key,
// defaulting to today.
func resolveDay() (string, error) {
	value := strings.TrimSpace(dayFlag)
	if value == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return t.Format("2006-01-02"), nil
}

func printView(w io.Writer, v controller.View) {
	fmt.Fprintf(w, "%s\n", v.Day)
	fmt.Fprintf(w, "  carbs:   %dg (%d slices)\n", v.Aggregate.CarbsGrams, v.Aggregate.CarbSlices)
	fmt.Fprintf(w, "  protein: %dg (%d slices)\n", v.Aggregate.ProteinGrams, v.Aggregate.ProteinSlices)
	fmt.Fprintf(w, "  water:   %doz\n", v.Aggregate.WaterOunces)
	if len(v.History) == 0 {
		return
	}
	fmt.Fprintln(w, "  log:")
	for i := len(v.History) - 1; i >= 0; i-- {
		e := v.History[i]
		line := fmt.Sprintf("    [%s] %s  %dg %s", e.ID, e.Name, e.AmountGrams, e.MacroType)
		if e.LiquidOunces > 0 {
			line += fmt.Sprintf(" +%doz water", e.LiquidOunces)
		}
		fmt.Fprintln(w, line)
	}
}
