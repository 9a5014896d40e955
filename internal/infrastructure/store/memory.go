package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/recipe"
)

// MemoryStore keeps everything in process. It backs tests and the memory
// driver.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]recipe.Recipe
	foods   map[string]recipe.FoodItem
	days    map[string]menu.Meals
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]recipe.Recipe),
		foods:   make(map[string]recipe.FoodItem),
		days:    make(map[string]menu.Meals),
	}
}

func cloneRecipe(r recipe.Recipe) recipe.Recipe {
	out := r.Stripped()
	out.Nutrition = r.Nutrition.Clone()
	return out
}

func cloneFood(f recipe.FoodItem) recipe.FoodItem {
	out := f
	if f.Amount.Fraction != nil {
		frac := *f.Amount.Fraction
		out.Amount.Fraction = &frac
	}
	out.Nutrition = f.Nutrition.Clone()
	return out
}

// GetRecipe returns a copy of the stored recipe.
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, recipeNotFound(id)
	}
	out := cloneRecipe(r)
	return &out, nil
}

// ListRecipes returns copies of the recipes carrying tag, in id order.
func (s *MemoryStore) ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recipe.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if hasTag(r, tag) {
			out = append(out, cloneRecipe(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveRecipe stores r without its resolved food items.
func (s *MemoryStore) SaveRecipe(ctx context.Context, r recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

// DeleteRecipe removes the recipe with id.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return recipeNotFound(id)
	}
	delete(s.recipes, id)
	return nil
}

// GetFoodItem returns a copy of the stored food item.
func (s *MemoryStore) GetFoodItem(ctx context.Context, id string) (*recipe.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.foods[id]
	if !ok {
		return nil, foodItemNotFound(id)
	}
	out := cloneFood(f)
	return &out, nil
}

// GetFoodItems returns the food items it has among ids, keyed by id.
func (s *MemoryStore) GetFoodItems(ctx context.Context, ids []string) (map[string]recipe.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]recipe.FoodItem, len(ids))
	for _, id := range ids {
		if f, ok := s.foods[id]; ok {
			out[id] = cloneFood(f)
		}
	}
	return out, nil
}

// SaveFoodItem creates or replaces f.
func (s *MemoryStore) SaveFoodItem(ctx context.Context, f recipe.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods[f.ID] = cloneFood(f)
	return nil
}

// ListFoodItems returns one page of the matching food items in name order.
func (s *MemoryStore) ListFoodItems(ctx context.Context, q recipe.FoodQuery) ([]recipe.FoodItem, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []recipe.FoodItem
	for _, f := range s.foods {
		if q.Matches(f.Name) {
			matched = append(matched, f)
		}
	}
	sortFoods(matched)

	lo, hi := q.Page(len(matched))
	out := make([]recipe.FoodItem, 0, hi-lo)
	for _, f := range matched[lo:hi] {
		out = append(out, cloneFood(f))
	}
	return out, len(matched), nil
}

// DeleteFoodItem removes the food item with id.
func (s *MemoryStore) DeleteFoodItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[id]; !ok {
		return foodItemNotFound(id)
	}
	delete(s.foods, id)
	return nil
}

// DaysBetween returns the days in [from, to) in date order.
func (s *MemoryStore) DaysBetween(ctx context.Context, from, to string) ([]menu.DayAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []menu.DayAssignment
	for date, meals := range s.days {
		if date >= from && date < to {
			out = append(out, menu.DayAssignment{Date: date, Meals: meals.Clone()})
		}
	}
	slices.SortFunc(out, func(a, b menu.DayAssignment) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

// DaysIn returns the stored days among dates.
func (s *MemoryStore) DaysIn(ctx context.Context, dates []string) ([]menu.DayAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []menu.DayAssignment
	for _, d := range dates {
		if meals, ok := s.days[d]; ok {
			out = append(out, menu.DayAssignment{Date: d, Meals: meals.Clone()})
		}
	}
	return out, nil
}

// SaveDay creates or replaces the day's meals.
func (s *MemoryStore) SaveDay(ctx context.Context, day menu.DayAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[day.Date] = day.Meals.Clone()
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
