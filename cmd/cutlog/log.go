package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
)

var (
	logName   string
	logMacro  string
	logGrams  string
	logLiquid int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a food directly by macro and gram amount",
	RunE: func(cmd *cobra.Command, args []string) error {
		macro, err := parseMacro(logMacro)
		if err != nil {
			return err
		}
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			grams := controller.ParseGrams(logGrams)
			view := ctrl.LogPlanFood(model.PlanFood{
				Name:         logName,
				MacroType:    macro,
				AmountGrams:  grams,
				LiquidOunces: logLiquid,
				Category:     model.SourceCustomFood,
			})
			printView(cmd.OutOrStdout(), view)
			return nil
		})
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recent entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			printView(cmd.OutOrStdout(), ctrl.Undo())
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove one entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			printView(cmd.OutOrStdout(), ctrl.Delete(args[0]))
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <carbs|protein> <grams>",
	Short: "Overwrite a macro total directly (clears the day's log)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		macro, err := parseMacro(args[0])
		if err != nil {
			return err
		}
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			printView(cmd.OutOrStdout(), ctrl.ManualEdit(macro, controller.ParseGrams(args[1])))
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero the day's macro totals and clear its log (water is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, _ kvstore.Store) error {
			printView(cmd.OutOrStdout(), ctrl.ResetDay())
			return nil
		})
	},
}

func parseMacro(value string) (model.MacroType, error) {
	switch model.MacroType(value) {
	case model.MacroCarbs:
		return model.MacroCarbs, nil
	case model.MacroProtein:
		return model.MacroProtein, nil
	default:
		return "", fmt.Errorf("invalid macro %q (expected carbs or protein)", value)
	}
}

func init() {
	logCmd.Flags().StringVar(&logName, "name", "", "Food name")
	logCmd.Flags().StringVar(&logMacro, "macro", "carbs", "Macro to log (carbs or protein)")
	logCmd.Flags().StringVar(&logGrams, "grams", "", "Gram amount")
	logCmd.Flags().IntVar(&logLiquid, "liquid", 0, "Liquid ounces toward hydration")
	_ = logCmd.MarkFlagRequired("name")
	_ = logCmd.MarkFlagRequired("grams")

	rootCmd.AddCommand(logCmd, undoCmd, removeCmd, setCmd, resetCmd)
}
