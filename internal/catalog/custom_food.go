package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/weighline/cutlog/internal/kvstore"
	"github.com/weighline/cutlog/internal/model"
)

type AddFoodInput struct {
	Name         string
	CarbsGrams   int
	ProteinGrams int
	ServingLabel string
}

// AddFood appends a user-defined food to the global list. Foods
// persist until deleted.
func AddFood(kv kvstore.Store, in AddFoodInput) (model.CustomFood, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.CustomFood{}, fmt.Errorf("food name is required")
	}
	if in.CarbsGrams < 0 || in.ProteinGrams < 0 {
		return model.CustomFood{}, fmt.Errorf("macro grams must be >= 0")
	}
	foods, err := ListFoods(kv)
	if err != nil {
		return model.CustomFood{}, err
	}
	food := model.CustomFood{
		ID:           uuid.NewString(),
		Name:         name,
		CarbsGrams:   in.CarbsGrams,
		ProteinGrams: in.ProteinGrams,
		ServingLabel: strings.TrimSpace(in.ServingLabel),
	}
	foods = append(foods, food)
	if err := saveFoods(kv, foods); err != nil {
		return model.CustomFood{}, err
	}
	return food, nil
}

// ListFoods returns the global custom food list in insertion order.
func ListFoods(kv kvstore.Store) ([]model.CustomFood, error) {
	value, found, err := kv.Get(kvstore.KeyCustomFoods)
	if err != nil {
		return nil, fmt.Errorf("load custom foods: %w", err)
	}
	if !found {
		return nil, nil
	}
	var foods []model.CustomFood
	if err := json.Unmarshal(value, &foods); err != nil {
		return nil, fmt.Errorf("decode custom foods: %w", err)
	}
	return foods, nil
}

// DeleteFood removes a food by id or exact name (case-insensitive).
func DeleteFood(kv kvstore.Store, idOrName string) error {
	foods, err := ListFoods(kv)
	if err != nil {
		return err
	}
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for i, f := range foods {
		if f.ID != idOrName && strings.ToLower(f.Name) != needle {
			continue
		}
		foods = append(foods[:i], foods[i+1:]...)
		return saveFoods(kv, foods)
	}
	return fmt.Errorf("custom food %q not found", idOrName)
}

// ResolveFood finds a food by id or exact name (case-insensitive).
func ResolveFood(kv kvstore.Store, idOrName string) (model.CustomFood, bool, error) {
	foods, err := ListFoods(kv)
	if err != nil {
		return model.CustomFood{}, false, err
	}
	needle := strings.ToLower(strings.TrimSpace(idOrName))
	for _, f := range foods {
		if f.ID == idOrName || strings.ToLower(f.Name) == needle {
			return f, true, nil
		}
	}
	return model.CustomFood{}, false, nil
}

func saveFoods(kv kvstore.Store, foods []model.CustomFood) error {
	payload, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("encode custom foods: %w", err)
	}
	if err := kv.Set(kvstore.KeyCustomFoods, payload); err != nil {
		return fmt.Errorf("save custom foods: %w", err)
	}
	return nil
}
