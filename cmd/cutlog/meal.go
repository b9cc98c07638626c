package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weighline/cutlog/internal/catalog"
	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Manage custom meals",
}

var (
	mealName  string
	mealItems []string
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom meal",
	Long: `Add a multi-item meal. Each --item takes the form
name:carbs:protein[:liquid], with grams for the macros and ounces for
the liquid part. Example:

  cutlog meal add --name "Race breakfast" \
    --item "Oatmeal:54:5" --item "Whey shake:3:24:8"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items := make([]model.CustomMealItem, 0, len(mealItems))
		for _, raw := range mealItems {
			item, err := parseMealItem(raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			meal, err := catalog.AddMeal(kv, catalog.AddMealInput{Name: mealName, Items: items})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal %s with %d items (%s)\n",
				meal.Name, len(meal.Items), meal.ID)
			return nil
		})
	},
}

var addItemSpec string

var mealAddItemCmd = &cobra.Command{
	Use:   "add-item <meal-id-or-name>",
	Short: "Append an item to an existing meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := parseMealItem(addItemSpec)
		if err != nil {
			return err
		}
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			meal, err := catalog.AddMealItem(kv, args[0], item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d items (carbs:%dg protein:%dg water:%doz)\n",
				meal.Name, len(meal.Items), meal.TotalCarbs, meal.TotalProtein, meal.TotalWater)
			return nil
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			meals, err := catalog.ListMeals(kv)
			if err != nil {
				return err
			}
			if len(meals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No custom meals yet.")
				return nil
			}
			for _, m := range meals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  carbs:%dg protein:%dg water:%doz  %d items  (%s)\n",
					m.Name, m.TotalCarbs, m.TotalProtein, m.TotalWater, len(m.Items), m.ID)
			}
			return nil
		})
	},
}

var mealRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-name>",
	Short: "Delete a custom meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(_ *controller.Controller, kv kvstore.Store) error {
			if err := catalog.DeleteMeal(kv, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed meal %s\n", args[0])
			return nil
		})
	},
}

var mealLogCmd = &cobra.Command{
	Use:   "log <id-or-name>",
	Short: "Log every item of a meal for the day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(func(ctrl *controller.Controller, kv kvstore.Store) error {
			meal, found, err := catalog.ResolveMeal(kv, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("custom meal %q not found", args[0])
			}
			printView(cmd.OutOrStdout(), ctrl.LogMeal(meal))
			return nil
		})
	},
}

// parseMealItem decodes "name:carbs:protein[:liquid]".
func parseMealItem(raw string) (model.CustomMealItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.CustomMealItem{}, fmt.Errorf("invalid --item %q, want name:carbs:protein[:liquid]", raw)
	}
	item := model.CustomMealItem{Name: strings.TrimSpace(parts[0])}
	carbs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.CustomMealItem{}, fmt.Errorf("invalid carb grams in --item %q", raw)
	}
	protein, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return model.CustomMealItem{}, fmt.Errorf("invalid protein grams in --item %q", raw)
	}
	item.CarbsGrams = carbs
	item.ProteinGrams = protein
	if len(parts) == 4 {
		liquid, err := strconv.Atoi(strings.TrimSpace(parts[3]))
		if err != nil {
			return model.CustomMealItem{}, fmt.Errorf("invalid liquid ounces in --item %q", raw)
		}
		item.LiquidOunces = liquid
	}
	return item, nil
}

func init() {
	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().StringArrayVar(&mealItems, "item", nil, "Meal item as name:carbs:protein[:liquid]")
	_ = mealAddCmd.MarkFlagRequired("name")
	_ = mealAddCmd.MarkFlagRequired("item")

	mealAddItemCmd.Flags().StringVar(&addItemSpec, "item", "", "Meal item as name:carbs:protein[:liquid]")
	_ = mealAddItemCmd.MarkFlagRequired("item")

	mealCmd.AddCommand(mealAddCmd, mealAddItemCmd, mealListCmd, mealRemoveCmd, mealLogCmd)
	rootCmd.AddCommand(mealCmd)
}
