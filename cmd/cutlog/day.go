package main

import (
	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/kvstore"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show the day's totals and food log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			printView(cmd.OutOrStdout(), ctrl.View())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dayCmd)
}
