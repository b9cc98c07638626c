package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/catalog"
	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/kvstore"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage custom foods",
}

var (
	foodName    string
	foodCarbs   int
	foodProtein int
	foodServing string
)

var foodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom food",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			food, err := catalog.AddFood(kv, catalog.AddFoodInput{
				Name:         foodName,
				CarbsGrams:   foodCarbs,
				ProteinGrams: foodProtein,
				ServingLabel: foodServing,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added custom food %s (%s)\n", food.Name, food.ID)
			return nil
		})
	},
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			foods, err := catalog.ListFoods(kv)
			if err != nil {
				return err
			}
			if len(foods) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No custom foods yet.")
				return nil
			}
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  carbs:%dg protein:%dg  %s  (%s)\n",
					f.Name, f.CarbsGrams, f.ProteinGrams, f.ServingLabel, f.ID)
			}
			return nil
		})
	},
}

var foodRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Delete a custom food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			if err := catalog.DeleteFood(kv, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed custom food %s\n", args[0])
			return nil
		})
	},
}

var foodLogCmd = &cobra.Command{
	Use:   "log <id-or-name>",
	Short: "Log a custom food for the day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, kv kvstore.Store) error {
			food, found, err := catalog.ResolveFood(kv, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("custom food %q not found", args[0])
			}
			printView(cmd.OutOrStdout(), ctrl.LogCustomFood(food))
			return nil
		})
	},
}

func init() {
	foodAddCmd.Flags().StringVar(&foodName, "name", "", "Food name")
	foodAddCmd.Flags().IntVar(&foodCarbs, "carbs", 0, "Carb grams per serving")
	foodAddCmd.Flags().IntVar(&foodProtein, "protein", 0, "Protein grams per serving")
	foodAddCmd.Flags().StringVar(&foodServing, "serving", "", "Serving label, e.g. \"1 cup\"")
	_ = foodAddCmd.MarkFlagRequired("name")

	foodCmd.AddCommand(foodAddCmd, foodListCmd, foodRemoveCmd, foodLogCmd)
	rootCmd.AddCommand(foodCmd)
}
