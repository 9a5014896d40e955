package recipe

import (
	"fmt"
	"slices"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/pkg/common"
)

// Meal-time tags: the daily slots a recipe may fill.
const (
	TagBreakfast = "breakfast"
	TagLunch     = "lunch"
	TagDinner    = "dinner"
	TagSnack     = "snack"
)

// Meal-role tags: what a recipe is within a meal.
const (
	TagEntree   = "entree"
	TagSide     = "side"
	TagBeverage = "beverage"
	TagDessert  = "dessert"
)

var (
	// MealTimeTags in the order the planner fills them.
	MealTimeTags = []string{TagBreakfast, TagLunch, TagDinner, TagSnack}
	// RoleTags are the meal-role tags.
	RoleTags = []string{TagEntree, TagSide, TagBeverage, TagDessert}
)

// IsValidTag reports whether tag belongs to the fixed vocabulary.
func IsValidTag(tag string) bool {
	return slices.Contains(MealTimeTags, tag) || slices.Contains(RoleTags, tag)
}

// FoodItem is reference nutrition data for a given amount of one food.
type FoodItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Amount    nutrition.Amount `json:"amount"`
	Nutrition nutrition.Tree   `json:"nutrition"`
	Source    string           `json:"source,omitempty"`
	SourceID  string           `json:"sourceId,omitempty"`
}

// Ingredient is a food item used in a recipe at its own amount.
type Ingredient struct {
	FoodItemID string           `json:"foodItemId"`
	FoodItem   *FoodItem        `json:"foodItem,omitempty"` // resolved from the store, never persisted
	Amount     nutrition.Amount `json:"amount"`
}

// Time holds prep and cook minutes.
type Time struct {
	Prep int `json:"prep,omitempty"`
	Cook int `json:"cook,omitempty"`
}

// Recipe is a catalog recipe. Nutrition is computed from Ingredients and
// Servings and is never entered by hand.
type Recipe struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Tags         []string       `json:"tags"`
	Ingredients  []Ingredient   `json:"ingredients"`
	Instructions string         `json:"instructions,omitempty"`
	Time         Time           `json:"time"`
	Servings     int            `json:"servings"`
	Nutrition    nutrition.Tree `json:"nutrition"`
}

// HasTag reports whether r carries tag.
func (r Recipe) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Stripped returns a copy of r with resolved food items removed, ready to
// persist.
func (r Recipe) Stripped() Recipe {
	out := r
	out.Tags = slices.Clone(r.Tags)
	out.Ingredients = make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ing.FoodItem = nil
		out.Ingredients[i] = ing
	}
	return out
}

// Validate checks the fields a caller supplies.
func (r Recipe) Validate() error {
	if r.Name == "" {
		return common.Wrapf(common.ErrInvalidRecipe, "name is required")
	}
	if r.Servings < 1 {
		return common.Wrapf(common.ErrInvalidRecipe, "recipe %q: servings must be at least 1, got %d", r.Name, r.Servings)
	}
	for _, tag := range r.Tags {
		if !IsValidTag(tag) {
			return common.Wrapf(common.ErrInvalidRecipe, "recipe %q: unknown tag %q", r.Name, tag)
		}
	}
	for i, ing := range r.Ingredients {
		if ing.FoodItemID == "" {
			return common.Wrapf(common.ErrInvalidRecipe, "recipe %q: ingredient %d has no food item id", r.Name, i)
		}
		if err := ing.Amount.Validate(); err != nil {
			return fmt.Errorf("recipe %q ingredient %d: %w", r.Name, i, err)
		}
	}
	return nil
}

// Summary is the slice of a recipe a menu response carries.
type Summary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tags      []string       `json:"tags"`
	Servings  int            `json:"servings"`
	Nutrition nutrition.Tree `json:"nutrition"`
}

// Summarize returns the menu-facing view of r.
func (r Recipe) Summarize() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		Tags:      slices.Clone(r.Tags),
		Servings:  r.Servings,
		Nutrition: r.Nutrition.Clone(),
	}
}
