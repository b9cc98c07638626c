// Package catalog merges the day's plan foods with the user's custom
// foods and meals into one searchable, grouped result set, and owns
// custom food/meal storage.
package catalog

import (
	"strings"

	"github.com/weighline/cutlog/internal/model"
)

// Sources are the already phase-filtered inputs to a search. Plan
// foods arrive pre-filtered from the protocol engine; the resolver
// never decides what is phase-appropriate.
type Sources struct {
	Plan  []model.PlanFood
	Foods []model.CustomFood
	Meals []model.CustomMeal
}

type GroupKind string

const (
	GroupPlan        GroupKind = "plan"
	GroupCustomFoods GroupKind = "custom-foods"
	GroupCustomMeals GroupKind = "custom-meals"
)

// Group is one labeled section of results. Plan groups come first,
// then custom foods, then custom meals.
type Group struct {
	Kind  GroupKind
	Label string
	Plan  []model.PlanFood
	Foods []model.CustomFood
	Meals []model.CustomMeal
}

// planGroupOrder fixes the section order for plan categories.
var planGroupOrder = []model.SourceCategory{
	model.SourcePlanFructose,
	model.SourcePlanGlucose,
	model.SourcePlanZeroFiber,
	model.SourcePlanProtein,
}

var planGroupLabels = map[model.SourceCategory]string{
	model.SourcePlanFructose:  "Fruit & fructose",
	model.SourcePlanGlucose:   "Starches & glucose",
	model.SourcePlanZeroFiber: "Zero fiber",
	model.SourcePlanProtein:   "Protein",
}

// Search returns grouped results. An empty query keeps the default
// view short: only the phase-recommended plan groups. A non-empty
// query substring-filters, case-insensitively, across every source.
func Search(query string, sources Sources) []Group {
	query = strings.ToLower(strings.TrimSpace(query))

	groups := make([]Group, 0, len(planGroupOrder)+2)
	for _, category := range planGroupOrder {
		var matched []model.PlanFood
		for _, f := range sources.Plan {
			if f.Category != category {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(f.Name), query) {
				continue
			}
			matched = append(matched, f)
		}
		if len(matched) == 0 {
			continue
		}
		groups = append(groups, Group{
			Kind:  GroupPlan,
			Label: planGroupLabels[category],
			Plan:  matched,
		})
	}
	if query == "" {
		return groups
	}

	var foods []model.CustomFood
	for _, f := range sources.Foods {
		if strings.Contains(strings.ToLower(f.Name), query) {
			foods = append(foods, f)
		}
	}
	if len(foods) > 0 {
		groups = append(groups, Group{Kind: GroupCustomFoods, Label: "Custom foods", Foods: foods})
	}

	var meals []model.CustomMeal
	for _, m := range sources.Meals {
		if strings.Contains(strings.ToLower(m.Name), query) {
			meals = append(meals, m)
		}
	}
	if len(meals) > 0 {
		groups = append(groups, Group{Kind: GroupCustomMeals, Label: "Meals", Meals: meals})
	}
	return groups
}
