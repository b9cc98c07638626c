package model

import "time"

type MacroType string

const (
	MacroCarbs   MacroType = "carbs"
	MacroProtein MacroType = "protein"
)

// SourceCategory identifies where a logged food came from. The strings
// are stable wire values used in persisted history.
type SourceCategory string

const (
	SourcePlanFructose  SourceCategory = "plan-fructose"
	SourcePlanGlucose   SourceCategory = "plan-glucose"
	SourcePlanZeroFiber SourceCategory = "plan-zero-fiber"
	SourcePlanProtein   SourceCategory = "plan-protein"
	SourceCustomFood    SourceCategory = "custom-food"
	SourceCustomMeal    SourceCategory = "custom-meal"
	SourceRemotePrimary SourceCategory = "remote-db-a"
	SourceRemoteAlt     SourceCategory = "remote-db-b"
)

// DailyAggregate is one day's running totals. CarbSlices and
// ProteinSlices are derived from the gram totals and never tracked
// independently.
type DailyAggregate struct {
	CarbsGrams    int `json:"carbsConsumedGrams"`
	ProteinGrams  int `json:"proteinConsumedGrams"`
	WaterOunces   int `json:"waterConsumedOunces"`
	CarbSlices    int `json:"carbSlices"`
	ProteinSlices int `json:"proteinSlices"`
}

// FoodLogEntry is one append-only ledger row. Entries are never mutated
// after creation; undo and delete remove them whole.
type FoodLogEntry struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	MacroType      MacroType      `json:"macroType"`
	AmountGrams    int            `json:"amountGrams"`
	Timestamp      time.Time      `json:"timestamp"`
	SourceCategory SourceCategory `json:"sourceCategory"`
	LiquidOunces   int            `json:"liquidOunces,omitempty"`
}

// CustomFood is a user-defined food, global rather than day-scoped.
type CustomFood struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CarbsGrams   int    `json:"carbsGrams"`
	ProteinGrams int    `json:"proteinGrams"`
	ServingLabel string `json:"servingLabel"`
}

type CustomMealItem struct {
	Name         string `json:"name"`
	CarbsGrams   int    `json:"carbsGrams"`
	ProteinGrams int    `json:"proteinGrams"`
	LiquidOunces int    `json:"liquidOunces,omitempty"`
}

// CustomMeal is an ordered list of items with memoized totals. Logging
// a meal produces one FoodLogEntry per non-zero macro per item, so the
// meal's history is reversible item-by-item.
type CustomMeal struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Items        []CustomMealItem `json:"items"`
	TotalCarbs   int              `json:"totalCarbs"`
	TotalProtein int              `json:"totalProtein"`
	TotalWater   int              `json:"totalWater"`
}

// PlanFood is a phase-filtered plan item supplied by the external
// protocol engine. The catalog resolver never computes phase logic
// itself.
type PlanFood struct {
	Name         string         `json:"name"`
	MacroType    MacroType      `json:"macroType"`
	AmountGrams  int            `json:"amountGrams"`
	LiquidOunces int            `json:"liquidOunces,omitempty"`
	Category     SourceCategory `json:"category"`
}

// RemoteFoodRecord is a per-100g nutrition record from a remote
// provider. Ephemeral: scaled at logging time, never persisted.
type RemoteFoodRecord struct {
	Provider      string  `json:"provider"`
	Description   string  `json:"description"`
	Brand         string  `json:"brand"`
	Calories      float64 `json:"calories"`
	ProteinG      float64 `json:"protein_g"`
	CarbsG        float64 `json:"carbs_g"`
	FatG          float64 `json:"fat_g"`
	FiberG        float64 `json:"fiber_g"`
	SugarG        float64 `json:"sugar_g"`
	SodiumMg      float64 `json:"sodium_mg"`
	ServingAmount float64 `json:"serving_amount"`
	ServingUnit   string  `json:"serving_unit"`
	Barcode       string  `json:"barcode,omitempty"`
}

// ScaleTo returns a copy with every nutrient scaled linearly from the
// per-100g base to the given gram amount.
func (r RemoteFoodRecord) ScaleTo(grams float64) RemoteFoodRecord {
	factor := grams / 100
	out := r
	out.Calories = r.Calories * factor
	out.ProteinG = r.ProteinG * factor
	out.CarbsG = r.CarbsG * factor
	out.FatG = r.FatG * factor
	out.FiberG = r.FiberG * factor
	out.SugarG = r.SugarG * factor
	out.SodiumMg = r.SodiumMg * factor
	out.ServingAmount = grams
	out.ServingUnit = "g"
	return out
}
