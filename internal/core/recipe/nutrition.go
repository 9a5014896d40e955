package recipe

import (
	"fmt"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/pkg/common"
)

// ComputeNutrition totals the per-serving nutrition of a recipe whose
// ingredients have their food items resolved. Each food item's nutrition is
// scaled by usage / reference / servings and the results are summed.
//
// An ingredient measured in a different unit class than its food item's
// reference amount fails with *common.MeasurementMismatchError.
func ComputeNutrition(r Recipe) (nutrition.Tree, error) {
	if r.Servings < 1 {
		return nutrition.Tree{}, common.Wrapf(common.ErrInvalidRecipe, "recipe %q: servings must be at least 1, got %d", r.Name, r.Servings)
	}

	var total nutrition.Tree
	for i, ing := range r.Ingredients {
		food := ing.FoodItem
		if food == nil {
			return nutrition.Tree{}, common.Wrapf(common.ErrInvalidRecipe, "recipe %q: ingredient %d food item %q is not resolved", r.Name, i, ing.FoodItemID)
		}

		ref, err := nutrition.Normalize(food.Amount)
		if err != nil {
			return nutrition.Tree{}, fmt.Errorf("food item %q reference amount: %w", food.Name, err)
		}
		use, err := nutrition.Normalize(ing.Amount)
		if err != nil {
			return nutrition.Tree{}, fmt.Errorf("recipe %q amount of %q: %w", r.Name, food.Name, err)
		}

		if ref.Class != use.Class {
			return nutrition.Tree{}, &common.MeasurementMismatchError{
				FoodItemID:     food.ID,
				FoodItemName:   food.Name,
				ReferenceClass: string(ref.Class),
				UsageClass:     string(use.Class),
			}
		}
		if ref.Value == 0 {
			return nutrition.Tree{}, common.Wrapf(common.ErrInvalidAmount, "food item %q has a zero reference amount", food.Name)
		}

		factor := use.Value / ref.Value / float64(r.Servings)
		total = nutrition.Sum(total, nutrition.Scale(food.Nutrition, factor))
	}

	return total, nil
}

// fingerprint identifies every input of ComputeNutrition.
func fingerprint(r Recipe) (string, error) {
	type line struct {
		Food      string           `json:"f"`
		Reference nutrition.Amount `json:"r"`
		Usage     nutrition.Amount `json:"u"`
		Nutrition nutrition.Tree   `json:"n"`
	}
	lines := make([]line, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		l := line{Food: ing.FoodItemID, Usage: ing.Amount}
		if ing.FoodItem != nil {
			l.Food = ing.FoodItem.ID
			l.Reference = ing.FoodItem.Amount
			l.Nutrition = ing.FoodItem.Nutrition
		}
		lines = append(lines, l)
	}
	return common.ToJSON(struct {
		Servings int    `json:"s"`
		Lines    []line `json:"l"`
	}{r.Servings, lines})
}
