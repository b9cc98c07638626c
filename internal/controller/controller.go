// Package controller is the single entry point the view layer calls.
// It resolves a logging intent into ledger drafts and returns the
// refreshed day view; it holds no state beyond the selected day.
package controller

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/weighline/cutlog/internal/catalog"
	"github.com/weighline/cutlog/internal/gateway"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/ledger"
	"github.com/weighline/cutlog/internal/model"
	"github.com/weighline/cutlog/internal/provider/nutridb"
)

// View is what every mutating call returns: the refreshed aggregate
// plus the day's history, most-recent-last.
type View struct {
	Day       string
	Aggregate model.DailyAggregate
	History   []model.FoodLogEntry
}

type Controller struct {
	store  *ledger.Store
	kv     kvstore.Store
	remote *gateway.Gateway
	plan   []model.PlanFood
	log    *zap.Logger
}

// New wires a controller around an opened ledger store. plan is the
// day's phase-filtered plan food list from the protocol engine; remote
// may be nil when no network providers are configured.
func New(store *ledger.Store, kv kvstore.Store, remote *gateway.Gateway, plan []model.PlanFood, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: store, kv: kv, remote: remote, plan: plan, log: log}
}

// SelectDay switches the ledger to another date key.
func (c *Controller) SelectDay(date string) View {
	c.store.SwitchDay(date)
	return c.View()
}

// SetPlan replaces the day's phase-filtered plan foods.
func (c *Controller) SetPlan(plan []model.PlanFood) {
	c.plan = plan
}

func (c *Controller) View() View {
	return View{
		Day:       c.store.Day(),
		Aggregate: c.store.Aggregate(),
		History:   c.store.History(),
	}
}

// SearchCatalog merges the plan with custom foods and meals and
// filters them. Load failures of the custom lists degrade to plan-only
// results rather than failing the search.
func (c *Controller) SearchCatalog(query string) []catalog.Group {
	foods, err := catalog.ListFoods(c.kv)
	if err != nil {
		c.log.Warn("load custom foods for search failed", zap.Error(err))
	}
	meals, err := catalog.ListMeals(c.kv)
	if err != nil {
		c.log.Warn("load custom meals for search failed", zap.Error(err))
	}
	return catalog.Search(query, catalog.Sources{Plan: c.plan, Foods: foods, Meals: meals})
}

// LogPlanFood records a tap on a plan catalog row.
func (c *Controller) LogPlanFood(food model.PlanFood) View {
	c.store.Append(ledger.Draft{
		Name:           food.Name,
		MacroType:      food.MacroType,
		AmountGrams:    food.AmountGrams,
		SourceCategory: food.Category,
		LiquidOunces:   food.LiquidOunces,
	})
	return c.View()
}

// LogCustomFood records a custom food: one entry per non-zero macro,
// so mixed foods stay reversible per macro.
func (c *Controller) LogCustomFood(food model.CustomFood) View {
	if food.CarbsGrams > 0 {
		c.store.Append(ledger.Draft{
			Name:           food.Name,
			MacroType:      model.MacroCarbs,
			AmountGrams:    food.CarbsGrams,
			SourceCategory: model.SourceCustomFood,
		})
	}
	if food.ProteinGrams > 0 {
		c.store.Append(ledger.Draft{
			Name:           food.Name,
			MacroType:      model.MacroProtein,
			AmountGrams:    food.ProteinGrams,
			SourceCategory: model.SourceCustomFood,
		})
	}
	return c.View()
}

// LogMeal expands a meal into one entry per non-zero macro per item.
// The meal's history is reversible item-by-item, never an opaque
// block.
func (c *Controller) LogMeal(meal model.CustomMeal) View {
	for _, item := range meal.Items {
		name := fmt.Sprintf("%s (%s)", item.Name, meal.Name)
		if item.CarbsGrams > 0 {
			c.store.Append(ledger.Draft{
				Name:           name,
				MacroType:      model.MacroCarbs,
				AmountGrams:    item.CarbsGrams,
				SourceCategory: model.SourceCustomMeal,
				LiquidOunces:   item.LiquidOunces,
			})
			// Liquid rides on the first macro entry only, so undoing
			// the item removes it exactly once.
			item.LiquidOunces = 0
		}
		if item.ProteinGrams > 0 {
			c.store.Append(ledger.Draft{
				Name:           name,
				MacroType:      model.MacroProtein,
				AmountGrams:    item.ProteinGrams,
				SourceCategory: model.SourceCustomMeal,
				LiquidOunces:   item.LiquidOunces,
			})
		}
	}
	return c.View()
}

// LogRemote scales a per-100g record to the chosen gram amount and
// logs the result like any other source.
func (c *Controller) LogRemote(record model.RemoteFoodRecord, grams int) View {
	if grams <= 0 {
		return c.View()
	}
	scaled := record.ScaleTo(float64(grams))
	source := model.SourceRemotePrimary
	if record.Provider != "" && record.Provider != nutridb.ProviderName {
		source = model.SourceRemoteAlt
	}
	name := fmt.Sprintf("%s (%dg)", record.Description, grams)

	carbs := int(math.Round(scaled.CarbsG))
	protein := int(math.Round(scaled.ProteinG))
	if carbs > 0 {
		c.store.Append(ledger.Draft{
			Name:           name,
			MacroType:      model.MacroCarbs,
			AmountGrams:    carbs,
			SourceCategory: source,
		})
	}
	if protein > 0 {
		c.store.Append(ledger.Draft{
			Name:           name,
			MacroType:      model.MacroProtein,
			AmountGrams:    protein,
			SourceCategory: source,
		})
	}
	return c.View()
}

// LogBarcode resolves a scanned code against the primary provider and
// logs the hit at the given gram amount. A miss returns found=false;
// callers should suggest searching by name instead of showing an
// error.
func (c *Controller) LogBarcode(ctx context.Context, code string, grams int) (View, bool, error) {
	if c.remote == nil {
		return c.View(), false, fmt.Errorf("no remote providers configured")
	}
	record, found, err := c.remote.LookupBarcode(ctx, code)
	if err != nil {
		return c.View(), false, err
	}
	if !found {
		return c.View(), false, nil
	}
	return c.LogRemote(record, grams), true, nil
}

// SearchRemote fans out to both providers immediately.
func (c *Controller) SearchRemote(ctx context.Context, query string) (gateway.Snapshot, error) {
	if c.remote == nil {
		return gateway.Snapshot{}, fmt.Errorf("no remote providers configured")
	}
	return c.remote.SearchNow(ctx, query), nil
}

// ManualEdit overwrites one macro total, clearing the day's history.
func (c *Controller) ManualEdit(macro model.MacroType, newGramTotal int) View {
	c.store.ManualEdit(macro, newGramTotal)
	return c.View()
}

func (c *Controller) Undo() View {
	c.store.UndoLast()
	return c.View()
}

func (c *Controller) Delete(entryID string) View {
	c.store.DeleteEntry(entryID)
	return c.View()
}

func (c *Controller) ResetDay() View {
	c.store.ResetDay()
	return c.View()
}

// ParseGrams turns user-typed gram input into an amount. Malformed or
// negative input is zero contribution, never an error.
func ParseGrams(input string) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
