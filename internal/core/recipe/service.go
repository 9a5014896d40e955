package recipe

import (
	"context"
	"errors"
	"sync"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the catalog the recipe service reads and writes. Missing records
// are reported with an error matching common.ErrNotFound.
type Store interface {
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context, tag string) ([]Recipe, error)
	SaveRecipe(ctx context.Context, r Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	GetFoodItem(ctx context.Context, id string) (*FoodItem, error)
	GetFoodItems(ctx context.Context, ids []string) (map[string]FoodItem, error)
	// ListFoodItems returns the requested page in name order and the
	// number of items matching the search.
	ListFoodItems(ctx context.Context, q FoodQuery) ([]FoodItem, int, error)
	SaveFoodItem(ctx context.Context, f FoodItem) error
	DeleteFoodItem(ctx context.Context, id string) error
}

// Service keeps each recipe's nutrition consistent with its ingredients.
type Service struct {
	store   Store
	cache   *nutrition.Cache
	workers int
	locks   sync.Map // recipe id -> *sync.Mutex

	// Recipe writes hold refs shared; food item deletes hold it exclusively
	// so no recipe can start using an item while it is being removed.
	refs sync.RWMutex
}

// NewService creates a recipe service. cache may be nil.
func NewService(store Store, cache *nutrition.Cache, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		store:   store,
		cache:   cache,
		workers: workers,
	}
}

func (s *Service) lock(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// catalogErr passes not-found through and marks anything else as a catalog
// failure.
func catalogErr(err error) error {
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrCatalogIO) {
		return err
	}
	return common.Wrap(common.ErrCatalogIO, err)
}

// Get returns a stored recipe.
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, catalogErr(err)
	}
	return r, nil
}

// List returns stored recipes, optionally only those carrying tag.
func (s *Service) List(ctx context.Context, tag string) ([]Recipe, error) {
	if tag != "" && !IsValidTag(tag) {
		return nil, common.Wrapf(common.ErrInvalidRequest, "unknown tag %q", tag)
	}
	recipes, err := s.store.ListRecipes(ctx, tag)
	if err != nil {
		return nil, catalogErr(err)
	}
	return recipes, nil
}

// Resolve loads the FoodItem of every ingredient from the store, replacing
// whatever the caller attached.
func (s *Service) Resolve(ctx context.Context, r *Recipe) error {
	ids := make([]string, 0, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		if ing.FoodItemID == "" {
			return common.Wrapf(common.ErrInvalidRecipe, "recipe %q: ingredient %d has no food item id", r.Name, i)
		}
		ids = append(ids, ing.FoodItemID)
	}
	if len(ids) == 0 {
		return nil
	}

	foods, err := s.store.GetFoodItems(ctx, ids)
	if err != nil {
		return catalogErr(err)
	}

	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		food, ok := foods[ing.FoodItemID]
		if !ok {
			return common.Wrapf(common.ErrNotFound, "food item %q used by recipe %q", ing.FoodItemID, r.Name)
		}
		ing.FoodItem = &food
	}
	return nil
}

// compute resolves r and returns its nutrition, consulting the cache.
func (s *Service) compute(ctx context.Context, r *Recipe) (nutrition.Tree, error) {
	if err := s.Resolve(ctx, r); err != nil {
		return nutrition.Tree{}, err
	}

	var key string
	if s.cache != nil {
		if fp, err := fingerprint(*r); err == nil {
			key = nutrition.Key(fp)
			if tree, ok := s.cache.Get(key); ok {
				return tree, nil
			}
		}
	}

	tree, err := ComputeNutrition(*r)
	if err != nil {
		return nutrition.Tree{}, err
	}
	if key != "" {
		s.cache.Set(key, tree)
	}
	return tree, nil
}

// Save creates or updates a recipe. Nutrition is always recomputed from the
// submitted ingredients and servings; nothing is stored if that fails.
func (s *Service) Save(ctx context.Context, r Recipe) (*Recipe, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = common.GenerateUUID()
	}

	s.refs.RLock()
	defer s.refs.RUnlock()
	unlock := s.lock(r.ID)
	defer unlock()

	tree, err := s.compute(ctx, &r)
	if err != nil {
		common.LogWarn("Recipe nutrition failed",
			zap.String("recipe_id", r.ID),
			zap.String("recipe", r.Name),
			zap.Error(err),
		)
		return nil, err
	}
	r.Nutrition = tree

	stored := r.Stripped()
	if err := s.store.SaveRecipe(ctx, stored); err != nil {
		return nil, catalogErr(err)
	}

	common.LogInfo("Recipe saved",
		zap.String("recipe_id", r.ID),
		zap.String("recipe", r.Name),
		zap.Int("ingredients", len(r.Ingredients)),
	)
	return &stored, nil
}

// RecomputeNutrition reloads a recipe, recomputes its nutrition and stores
// the result. On failure the stored recipe is left as it was.
func (s *Service) RecomputeNutrition(ctx context.Context, id string) (nutrition.Tree, error) {
	s.refs.RLock()
	defer s.refs.RUnlock()
	unlock := s.lock(id)
	defer unlock()

	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nutrition.Tree{}, catalogErr(err)
	}

	tree, err := s.compute(ctx, r)
	if err != nil {
		common.LogWarn("Recipe nutrition failed",
			zap.String("recipe_id", id),
			zap.String("recipe", r.Name),
			zap.Error(err),
		)
		return nutrition.Tree{}, err
	}
	r.Nutrition = tree

	if err := s.store.SaveRecipe(ctx, r.Stripped()); err != nil {
		return nutrition.Tree{}, catalogErr(err)
	}

	common.LogDebug("Recipe nutrition recomputed", zap.String("recipe_id", id))
	return tree.Clone(), nil
}

// RecomputeAll recomputes every recipe, at most workers at a time, and
// returns the number updated. The first failure cancels the rest.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	recipes, err := s.store.ListRecipes(ctx, "")
	if err != nil {
		return 0, catalogErr(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var (
		mu      sync.Mutex
		updated int
	)
	for _, r := range recipes {
		id := r.ID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.RecomputeNutrition(gctx, id); err != nil {
				return err
			}
			mu.Lock()
			updated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return updated, err
	}

	common.LogInfo("Recomputed recipe nutrition",
		zap.Int("recipes", updated),
		zap.Int("workers", s.workers),
	)
	return updated, nil
}

// Delete removes a recipe. Days already planned with it keep its id and
// drop it from their reports.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return catalogErr(err)
	}
	common.LogInfo("Recipe deleted", zap.String("recipe_id", id))
	return nil
}

// GetFoodItem returns stored reference data for a food item.
func (s *Service) GetFoodItem(ctx context.Context, id string) (*FoodItem, error) {
	f, err := s.store.GetFoodItem(ctx, id)
	if err != nil {
		return nil, catalogErr(err)
	}
	return f, nil
}

// SaveFoodItem creates or replaces a food item's reference data. Recipes
// that use it keep their stored nutrition until recomputed.
func (s *Service) SaveFoodItem(ctx context.Context, f FoodItem) (*FoodItem, error) {
	if f.Name == "" {
		return nil, common.Wrapf(common.ErrInvalidRequest, "food item name is required")
	}
	if err := f.Amount.Validate(); err != nil {
		return nil, err
	}
	if f.ID == "" {
		f.ID = common.GenerateUUID()
	}
	if err := s.store.SaveFoodItem(ctx, f); err != nil {
		return nil, catalogErr(err)
	}
	common.LogInfo("Food item saved", zap.String("food_item_id", f.ID), zap.String("food_item", f.Name))
	return &f, nil
}

// ListFoodItems returns a page of food items and the total matching count.
func (s *Service) ListFoodItems(ctx context.Context, q FoodQuery) ([]FoodItem, int, error) {
	if q.Skip < 0 || q.Limit < 0 {
		return nil, 0, common.Wrapf(common.ErrInvalidRequest, "skip and limit must not be negative")
	}
	items, total, err := s.store.ListFoodItems(ctx, q)
	if err != nil {
		return nil, 0, catalogErr(err)
	}
	return items, total, nil
}

// CountFoodItems returns how many food items match search.
func (s *Service) CountFoodItems(ctx context.Context, search string) (int, error) {
	_, total, err := s.ListFoodItems(ctx, FoodQuery{Search: search, Limit: 1})
	return total, err
}

// DeleteFoodItem removes a food item no recipe refers to. An item still in
// use is refused with ErrFoodItemInUse.
func (s *Service) DeleteFoodItem(ctx context.Context, id string) error {
	s.refs.Lock()
	defer s.refs.Unlock()

	recipes, err := s.store.ListRecipes(ctx, "")
	if err != nil {
		return catalogErr(err)
	}
	for _, r := range recipes {
		if r.UsesFoodItem(id) {
			return common.Wrapf(common.ErrFoodItemInUse, "food item %q is used by recipe %q", id, r.ID)
		}
	}

	if err := s.store.DeleteFoodItem(ctx, id); err != nil {
		return catalogErr(err)
	}
	common.LogInfo("Food item deleted", zap.String("food_item_id", id))
	return nil
}
