package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/core/recipe"
)

// fakeCatalog serves a fixed recipe list and can fail on the nth call.
type fakeCatalog struct {
	mu      sync.Mutex
	recipes []recipe.Recipe
	calls   int
	failOn  int
}

func (c *fakeCatalog) ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failOn > 0 && c.calls == c.failOn {
		return nil, errors.New("catalog offline")
	}
	var out []recipe.Recipe
	for _, r := range c.recipes {
		if tag == "" || r.HasTag(tag) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeHistory keeps days in a map.
type fakeHistory struct {
	mu    sync.Mutex
	days  map[string]Meals
	calls int
	saves []string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{days: map[string]Meals{}}
}

func (h *fakeHistory) DaysBetween(ctx context.Context, from, to string) ([]DayAssignment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	var out []DayAssignment
	for date, meals := range h.days {
		if date >= from && date < to {
			out = append(out, DayAssignment{Date: date, Meals: meals.Clone()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (h *fakeHistory) DaysIn(ctx context.Context, dates []string) ([]DayAssignment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	var out []DayAssignment
	for _, d := range dates {
		if meals, ok := h.days[d]; ok {
			out = append(out, DayAssignment{Date: d, Meals: meals.Clone()})
		}
	}
	return out, nil
}

func (h *fakeHistory) SaveDay(ctx context.Context, day DayAssignment) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.days[day.Date] = day.Meals.Clone()
	h.saves = append(h.saves, day.Date)
	return nil
}

// fixedRand always returns the same offset from the top of the range.
type fixedRand struct{ fromTop int }

func (f fixedRand) IntN(n int) int { return n - 1 - f.fromTop }

func entree(id string, tags ...string) recipe.Recipe {
	tree := nutrition.Tree{}
	tree.Calories.Total = nutrition.Value(100)
	return recipe.Recipe{
		ID:        id,
		Name:      "Recipe " + id,
		Tags:      append([]string{recipe.TagEntree}, tags...),
		Servings:  1,
		Nutrition: tree,
	}
}

func lunchPool(n int) []recipe.Recipe {
	pool := make([]recipe.Recipe, n)
	for i := range pool {
		pool[i] = entree(fmt.Sprintf("r%02d", i), recipe.TagLunch)
	}
	return pool
}
