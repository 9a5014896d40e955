package menu

import (
	"slices"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/core/recipe"
)

// Meals maps a meal-time tag to the recipe ids chosen for that slot.
type Meals map[string][]string

// RecipeIDs returns every recipe id in the meals, in meal-time order.
func (m Meals) RecipeIDs() []string {
	var ids []string
	for _, mt := range recipe.MealTimeTags {
		ids = append(ids, m[mt]...)
	}
	return ids
}

// Clone returns a deep copy of m.
func (m Meals) Clone() Meals {
	out := make(Meals, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// emptyMeals has an empty list for every meal time.
func emptyMeals() Meals {
	m := make(Meals, len(recipe.MealTimeTags))
	for _, mt := range recipe.MealTimeTags {
		m[mt] = []string{}
	}
	return m
}

// DayAssignment is the stored plan for one date (YYYYMMDD).
type DayAssignment struct {
	Date  string `json:"date"`
	Meals Meals  `json:"meals"`
}

// Menu maps a date (YYYYMMDD) to its meals.
type Menu map[string]Meals

// Report is a menu with the recipes it references and per-day totals.
type Report struct {
	Menu    Menu                      `json:"menu"`
	Recipes map[string]recipe.Summary `json:"recipes"`
	Totals  map[string]nutrition.Tree `json:"totals"`
}
