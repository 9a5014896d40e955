package recipe

import (
	"errors"
	"testing"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/pkg/common"
)

func cheese() *FoodItem {
	tree := nutrition.Tree{}
	tree.Calories.Total = nutrition.Value(2)
	tree.Fat.Total = nutrition.Value(1)
	return &FoodItem{
		ID:        "cheese",
		Name:      "Cheddar",
		Amount:    nutrition.Amount{Quantity: 1, Unit: "oz"},
		Nutrition: tree,
	}
}

func milk() *FoodItem {
	tree := nutrition.Tree{}
	tree.Calories.Total = nutrition.Value(100)
	tree.Protein = nutrition.Value(8)
	return &FoodItem{
		ID:        "milk",
		Name:      "Milk",
		Amount:    nutrition.Amount{Quantity: 1, Unit: "cup"},
		Nutrition: tree,
	}
}

func TestComputeNutrition(t *testing.T) {
	t.Run("scales by usage over reference", func(t *testing.T) {
		r := Recipe{
			Name:     "Cheese plate",
			Servings: 1,
			Ingredients: []Ingredient{
				{FoodItemID: "cheese", FoodItem: cheese(), Amount: nutrition.Amount{Quantity: 8, Unit: "oz"}},
			},
		}
		got, err := ComputeNutrition(r)
		if err != nil {
			t.Fatalf("ComputeNutrition() error = %v", err)
		}
		if got.Calories.Total == nil || *got.Calories.Total != 16 {
			t.Errorf("calories = %v, want 16", got.Calories.Total)
		}
		if got.Protein != nil {
			t.Error("protein absent from every food item but present in the total")
		}
	})

	t.Run("divides by servings and sums ingredients", func(t *testing.T) {
		r := Recipe{
			Name:     "Cheesy milk",
			Servings: 2,
			Ingredients: []Ingredient{
				{FoodItemID: "cheese", FoodItem: cheese(), Amount: nutrition.Amount{Quantity: 1, Unit: "lb"}},
				{FoodItemID: "milk", FoodItem: milk(), Amount: nutrition.Amount{Quantity: 2, Unit: "cup"}},
			},
		}
		got, err := ComputeNutrition(r)
		if err != nil {
			t.Fatalf("ComputeNutrition() error = %v", err)
		}
		// cheese: 2 * 16 / 2 = 16, milk: 100 * 2 / 2 = 100
		if *got.Calories.Total != 116 {
			t.Errorf("calories = %v, want 116", *got.Calories.Total)
		}
		if *got.Protein != 8 {
			t.Errorf("protein = %v, want 8", *got.Protein)
		}
		if *got.Fat.Total != 8 {
			t.Errorf("fat = %v, want 8", *got.Fat.Total)
		}
	})

	t.Run("measurement mismatch", func(t *testing.T) {
		r := Recipe{
			Name:     "Cheese soup",
			Servings: 1,
			Ingredients: []Ingredient{
				{FoodItemID: "cheese", FoodItem: cheese(), Amount: nutrition.Amount{Quantity: 1, Unit: "cup"}},
			},
		}
		_, err := ComputeNutrition(r)
		var mm *common.MeasurementMismatchError
		if !errors.As(err, &mm) {
			t.Fatalf("ComputeNutrition() error = %v, want MeasurementMismatchError", err)
		}
		if mm.FoodItemID != "cheese" || mm.ReferenceClass != "mass" || mm.UsageClass != "volume" {
			t.Errorf("mismatch = %+v", mm)
		}
		if !errors.Is(err, common.ErrMeasurementMismatch) {
			t.Error("errors.Is(err, ErrMeasurementMismatch) = false")
		}
	})

	t.Run("zero reference amount", func(t *testing.T) {
		food := cheese()
		food.Amount.Quantity = 0
		r := Recipe{
			Name:        "Nothing",
			Servings:    1,
			Ingredients: []Ingredient{{FoodItemID: "cheese", FoodItem: food, Amount: nutrition.Amount{Quantity: 1, Unit: "oz"}}},
		}
		if _, err := ComputeNutrition(r); !errors.Is(err, common.ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})

	t.Run("unresolved food item", func(t *testing.T) {
		r := Recipe{
			Name:        "Ghost",
			Servings:    1,
			Ingredients: []Ingredient{{FoodItemID: "missing", Amount: nutrition.Amount{Quantity: 1}}},
		}
		if _, err := ComputeNutrition(r); !errors.Is(err, common.ErrInvalidRecipe) {
			t.Errorf("error = %v, want ErrInvalidRecipe", err)
		}
	})

	t.Run("no servings", func(t *testing.T) {
		if _, err := ComputeNutrition(Recipe{Name: "Empty"}); !errors.Is(err, common.ErrInvalidRecipe) {
			t.Errorf("error = %v, want ErrInvalidRecipe", err)
		}
	})

	t.Run("no ingredients", func(t *testing.T) {
		got, err := ComputeNutrition(Recipe{Name: "Air", Servings: 1})
		if err != nil {
			t.Fatal(err)
		}
		if !got.IsEmpty() {
			t.Errorf("got %+v, want empty tree", got)
		}
	})
}

func TestFingerprint(t *testing.T) {
	r := Recipe{
		Name:        "Cheese plate",
		Servings:    1,
		Ingredients: []Ingredient{{FoodItemID: "cheese", FoodItem: cheese(), Amount: nutrition.Amount{Quantity: 8, Unit: "oz"}}},
	}
	a, err := fingerprint(r)
	if err != nil {
		t.Fatal(err)
	}

	renamed := r
	renamed.Name = "Renamed"
	if b, _ := fingerprint(renamed); a != b {
		t.Error("fingerprint depends on recipe name")
	}

	doubled := r
	doubled.Servings = 2
	if b, _ := fingerprint(doubled); a == b {
		t.Error("fingerprint ignores servings")
	}

	richer := r
	richer.Ingredients = []Ingredient{{FoodItemID: "cheese", FoodItem: cheese(), Amount: r.Ingredients[0].Amount}}
	*richer.Ingredients[0].FoodItem.Nutrition.Calories.Total = 3
	if b, _ := fingerprint(richer); a == b {
		t.Error("fingerprint ignores food item nutrition")
	}
}
