package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
)

type AddMealInput struct {
	Name  string
	Items []model.CustomMealItem
}

// AddMeal stores a multi-item meal. Totals are memoized at write time
// so the catalog can show them without re-summing.
func AddMeal(kv kvstore.Store, in AddMealInput) (model.CustomMeal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.CustomMeal{}, fmt.Errorf("meal name is required")
	}
	if len(in.Items) == 0 {
		return model.CustomMeal{}, fmt.Errorf("meal needs at least one item")
	}
	items := make([]model.CustomMealItem, 0, len(in.Items))
	for _, item := range in.Items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return model.CustomMeal{}, fmt.Errorf("meal item name is required")
		}
		if item.CarbsGrams < 0 || item.ProteinGrams < 0 || item.LiquidOunces < 0 {
			return model.CustomMeal{}, fmt.Errorf("meal item amounts must be >= 0")
		}
		items = append(items, item)
	}

	meal := model.CustomMeal{
		ID:    uuid.NewString(),
		Name:  name,
		Items: items,
	}
	for _, item := range items {
		meal.TotalCarbs += item.CarbsGrams
		meal.TotalProtein += item.ProteinGrams
		meal.TotalWater += item.LiquidOunces
	}

	meals, err := ListMeals(kv)
	if err != nil {
		return model.CustomMeal{}, err
	}
	meals = append(meals, meal)
	if err := saveMeals(kv, meals); err != nil {
		return model.CustomMeal{}, err
	}
	return meal, nil
}

// AddMealItem appends one item to an existing meal and refreshes the
// memoized totals.
func AddMealItem(kv kvstore.Store, idOrName string, item model.CustomMealItem) (model.CustomMeal, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return model.CustomMeal{}, fmt.Errorf("meal item name is required")
	}
	if item.CarbsGrams < 0 || item.ProteinGrams < 0 || item.LiquidOunces < 0 {
		return model.CustomMeal{}, fmt.Errorf("meal item amounts must be >= 0")
	}
	meals, err := ListMeals(kv)
	if err != nil {
		return model.CustomMeal{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i, m := range meals {
		if m.ID != idOrName && strings.ToLower(m.Name) != needle {
			continue
		}
		m.Items = append(m.Items, item)
		m.TotalCarbs += item.CarbsGrams
		m.TotalProtein += item.ProteinGrams
		m.TotalWater += item.LiquidOunces
		meals[i] = m
		if err := saveMeals(kv, meals); err != nil {
			return model.CustomMeal{}, err
		}
		return m, nil
	}
	return model.CustomMeal{}, fmt.Errorf("custom meal %q not found", idOrName)
}

func ListMeals(kv kvstore.Store) ([]model.CustomMeal, error) {
	value, found, err := kv.Get(kvstore.KeyCustomMeals)
	if err != nil {
		return nil, fmt.Errorf("load custom meals: %w", err)
	}
	if !found {
		return nil, nil
	}
	var meals []model.CustomMeal
	if err := json.Unmarshal(value, &meals); err != nil {
		return nil, fmt.Errorf("decode custom meals: %w", err)
	}
	return meals, nil
}

func DeleteMeal(kv kvstore.Store, idOrName string) error {
	meals, err := ListMeals(kv)
	if err != nil {
		return err
	}
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i, m := range meals {
		if m.ID != idOrName && strings.ToLower(m.Name) != needle {
			continue
		}
		meals = append(meals[:i], meals[i+1:]...)
		return saveMeals(kv, meals)
	}
	return fmt.Errorf("custom meal %q not found", idOrName)
}

func ResolveMeal(kv kvstore.Store, idOrName string) (model.CustomMeal, bool, error) {
	meals, err := ListMeals(kv)
	if err != nil {
		return model.CustomMeal{}, false, err
	}
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for _, m := range meals {
		if m.ID == idOrName || strings.ToLower(m.Name) == needle {
			return m, true, nil
		}
	}
	return model.CustomMeal{}, false, nil
}

func saveMeals(kv kvstore.Store, meals []model.CustomMeal) error {
	payload, err := json.Marshal(meals)
	if err != nil {
		return fmt.Errorf("encode custom meals: %w", err)
	}
	if err := kv.Set(kvstore.KeyCustomMeals, payload); err != nil {
		return fmt.Errorf("save custom meals: %w", err)
	}
	return nil
}
