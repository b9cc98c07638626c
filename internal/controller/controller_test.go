package controller_test

import (
	"context"
	"errors"
	"testing"

	"github.com/weighline/cutlog/internal/catalog"
	"github.com/weighline/cutlog/internal/controller"
	"github.com/weighline/cutlog/internal/daytrack"
	"github.com/weighline/cutlog/internal/gateway"
	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/ledger"
	"github.com/weighline/cutlog/internal/model"
)

type fakeBarcode struct {
	record model.RemoteFoodRecord
	found  bool
	err    error
}

func (b *fakeBarcode) LookupBarcode(ctx context.Context, code string) (model.RemoteFoodRecord, bool, error) {
	return b.record, b.found, b.err
}

type noopSearch struct{}

func (noopSearch) Search(ctx context.Context, query string) ([]model.RemoteFoodRecord, error) {
	return nil, nil
}

func newController(t *testing.T, barcode gateway.BarcodeClient) (*controller.Controller, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemory()
	store := ledger.Open("2026-02-14", kv, daytrack.New(kv), nil)
	g := gateway.New(
		gateway.ProviderConfig{Name: "primary", Client: noopSearch{}, ReportErrors: true},
		gateway.ProviderConfig{Name: "secondary", Client: noopSearch{}},
		barcode,
	)
	t.Cleanup(g.Close)
	plan := []model.PlanFood{
		{Name: "Banana", MacroType: model.MacroCarbs, AmountGrams: 25, Category: model.SourcePlanFructose},
		{Name: "Orange juice", MacroType: model.MacroCarbs, AmountGrams: 18, LiquidOunces: 8, Category: model.SourcePlanFructose},
	}
	return controller.New(store, kv, g, plan, nil), kv
}

func TestDayWalkthrough(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, &fakeBarcode{})

	view := c.LogPlanFood(model.PlanFood{Name: "Banana", MacroType: model.MacroCarbs, AmountGrams: 25, Category: model.SourcePlanFructose})
	if view.Aggregate.CarbsGrams != 25 || view.Aggregate.CarbSlices != 1 {
		t.Fatalf("after banana: %+v", view.Aggregate)
	}
	bananaID := view.History[0].ID

	view = c.LogPlanFood(model.PlanFood{Name: "Orange juice", MacroType: model.MacroCarbs, AmountGrams: 18, LiquidOunces: 8, Category: model.SourcePlanFructose})
	if view.Aggregate.CarbsGrams != 43 || view.Aggregate.CarbSlices != 2 || view.Aggregate.WaterOunces != 8 {
		t.Fatalf("after juice: %+v", view.Aggregate)
	}

	view = c.Undo()
	if view.Aggregate.CarbsGrams != 25 || view.Aggregate.CarbSlices != 1 || view.Aggregate.WaterOunces != 0 {
		t.Fatalf("after undo: %+v", view.Aggregate)
	}

	view = c.Delete(bananaID)
	if view.Aggregate != (model.DailyAggregate{}) || len(view.History) != 0 {
		t.Fatalf("after delete: %+v / %d entries", view.Aggregate, len(view.History))
	}
}

func TestLogMealExpandsPerItemPerMacro(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, &fakeBarcode{})
	meal := model.CustomMeal{
		Name: "Race breakfast",
		Items: []model.CustomMealItem{
			{Name: "Bagel", CarbsGrams: 48},
			{Name: "Eggs", ProteinGrams: 18},
			{Name: "Orange juice", CarbsGrams: 18, LiquidOunces: 8},
		},
	}

	view := c.LogMeal(meal)
	if len(view.History) != 3 {
		t.Fatalf("got %d entries, want one per non-zero macro per item", len(view.History))
	}
	agg := view.Aggregate
	if agg.CarbsGrams != 66 || agg.ProteinGrams != 18 || agg.WaterOunces != 8 {
		t.Fatalf("aggregate: %+v", agg)
	}

	// Item-by-item reversal: undoing the juice removes its carbs and
	// its water, nothing else.
	view = c.Undo()
	if view.Aggregate.CarbsGrams != 48 || view.Aggregate.WaterOunces != 0 || view.Aggregate.ProteinGrams != 18 {
		t.Fatalf("after undoing juice: %+v", view.Aggregate)
	}
}

func TestLogCustomFoodSplitsMacros(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, &fakeBarcode{})
	view := c.LogCustomFood(model.CustomFood{Name: "Trail mix", CarbsGrams: 30, ProteinGrams: 10})
	if len(view.History) != 2 {
		t.Fatalf("got %d entries, want 2", len(view.History))
	}
	if view.Aggregate.CarbsGrams != 30 || view.Aggregate.ProteinGrams != 10 {
		t.Fatalf("aggregate: %+v", view.Aggregate)
	}
	for _, e := range view.History {
		if e.SourceCategory != model.SourceCustomFood {
			t.Fatalf("source category %q", e.SourceCategory)
		}
	}
}

func TestLogRemoteScalesPer100g(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, &fakeBarcode{})
	record := model.RemoteFoodRecord{
		Provider:    "nutridb",
		Description: "Banana, raw",
		CarbsG:      22.8,
		ProteinG:    1.1,
	}

	view := c.LogRemote(record, 200)
	// 200g of a per-100g record doubles everything; 45.6 rounds to 46,
	// 2.2 rounds to 2.
	if view.Aggregate.CarbsGrams != 46 || view.Aggregate.ProteinGrams != 2 {
		t.Fatalf("aggregate: %+v", view.Aggregate)
	}
	if view.History[0].Name != "Banana, raw (200g)" {
		t.Fatalf("entry name %q", view.History[0].Name)
	}
	if view.History[0].SourceCategory != model.SourceRemotePrimary {
		t.Fatalf("source category %q", view.History[0].SourceCategory)
	}

	// Zero grams contributes nothing.
	before := view.Aggregate
	view = c.LogRemote(record, 0)
	if view.Aggregate != before {
		t.Fatalf("zero-gram log mutated aggregate: %+v", view.Aggregate)
	}
}

func TestLogBarcode(t *testing.T) {
	t.Parallel()

	hit := &fakeBarcode{
		record: model.RemoteFoodRecord{Provider: "nutridb", Description: "Sports drink", CarbsG: 6},
		found:  true,
	}
	c, _ := newController(t, hit)
	view, found, err := c.LogBarcode(context.Background(), "012345678905", 500)
	if err != nil || !found {
		t.Fatalf("hit: found=%v err=%v", found, err)
	}
	if view.Aggregate.CarbsGrams != 30 {
		t.Fatalf("500g at 6g/100g should log 30g, got %+v", view.Aggregate)
	}

	missC, _ := newController(t, &fakeBarcode{found: false})
	_, found, err = missC.LogBarcode(context.Background(), "00000000", 100)
	if err != nil || found {
		t.Fatalf("miss must be found=false err=nil, got found=%v err=%v", found, err)
	}

	failC, _ := newController(t, &fakeBarcode{err: errors.New("timeout")})
	_, _, err = failC.LogBarcode(context.Background(), "00000000", 100)
	if err == nil {
		t.Fatal("provider failure must be an error")
	}
}

func TestManualEditThenUndoIsNoOp(t *testing.T) {
	t.Parallel()

	c, _ := newController(t, &fakeBarcode{})
	c.LogPlanFood(model.PlanFood{Name: "Banana", MacroType: model.MacroCarbs, AmountGrams: 25, Category: model.SourcePlanFructose})

	view := c.ManualEdit(model.MacroCarbs, 80)
	if view.Aggregate.CarbsGrams != 80 || view.Aggregate.CarbSlices != 3 || len(view.History) != 0 {
		t.Fatalf("after manual edit: %+v / %d entries", view.Aggregate, len(view.History))
	}
	after := c.Undo()
	if after.Aggregate != view.Aggregate {
		t.Fatalf("undo after manual edit must be a no-op: %+v", after.Aggregate)
	}
}

func TestSearchCatalogMergesCustomSources(t *testing.T) {
	t.Parallel()

	c, kv := newController(t, &fakeBarcode{})
	if _, err := catalog.AddFood(kv, catalog.AddFoodInput{Name: "Banana bread", CarbsGrams: 35}); err != nil {
		t.Fatalf("add food: %v", err)
	}

	groups := c.SearchCatalog("banana")
	var kinds []catalog.GroupKind
	for _, g := range groups {
		kinds = append(kinds, g.Kind)
	}
	if len(groups) != 2 || kinds[0] != catalog.GroupPlan || kinds[1] != catalog.GroupCustomFoods {
		t.Fatalf("groups: %v", kinds)
	}

	// Default view stays plan-only.
	for _, g := range c.SearchCatalog("") {
		if g.Kind != catalog.GroupPlan {
			t.Fatalf("default view leaked %q", g.Kind)
		}
	}
}

func TestParseGrams(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"120":  120,
		" 45 ": 45,
		"":     0,
		"abc":  0,
		"-9":   0,
		"12.5": 0,
		"1e3":  0,
	}
	for input, want := range cases {
		if got := controller.ParseGrams(input); got != want {
			t.Fatalf("ParseGrams(%q) = %d, want %d", input, got, want)
		}
	}
}
