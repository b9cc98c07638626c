package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/logger"
)

var (
	dbPath  string
	dayFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cutlog",
	Short: "cutlog tracks carbs, protein and water against a weigh-in",
	Long:  "cutlog is a local-first nutrition ledger for athletes cutting or maintaining weight: per-day macro and water totals, exact undo, custom foods and meals, and remote food search.",
}

func Execute() {
	logger.Initialize()
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&dayFlag, "date", "", "Day to operate on (YYYY-MM-DD, default today)")
}
