package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/gateway"
	"github.com/weighline/cutlog/internal/kvstore"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search remote food databases",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			snap, err := ctrl.SearchRemote(context.Background(), query)
			if err != nil {
				return err
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		})
	},
}

func printSnapshot(w io.Writer, snap gateway.Snapshot) {
	if snap.ErrorNotice != "" {
		fmt.Fprintln(w, snap.ErrorNotice)
	}
	printProviderResults(w, "Primary", snap.Primary)
	printProviderResults(w, "Secondary", snap.Secondary)
}

func printProviderResults(w io.Writer, label string, state gateway.ProviderState) {
	if !state.Searched {
		return
	}
	if state.Failed {
		return
	}
	if len(state.Results) == 0 {
		fmt.Fprintf(w, "%s: no matches.\n", label)
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, r := range state.Results {
		name := r.Description
		if r.Brand != "" {
			name = fmt.Sprintf("%s (%s)", r.Description, r.Brand)
		}
		fmt.Fprintf(w, "  %s  %.0f kcal, carbs %.1fg, protein %.1fg per %.0f%s\n",
			name, r.Calories, r.CarbsG, r.ProteinG, r.ServingAmount, r.ServingUnit)
	}
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
