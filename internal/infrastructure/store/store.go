// Package store persists the recipe catalog, food items and day history.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Store is everything the services need from persistence. Recipes are
// listed in id order and food items in name order. Deleting a missing
// record reports common.ErrNotFound.
type Store interface {
	recipe.Store
	menu.History

	Ping(ctx context.Context) error
	Close() error
}

// Open connects the backend named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Store.Driver {
	case "memory":
		s = NewMemoryStore()
	case "redis":
		s, err = NewRedisStore(ctx, cfg.Redis)
	case "postgres", "sqlite":
		s, err = NewSQLStore(cfg.Store)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	common.LogInfo("Store opened", zap.String("driver", cfg.Store.Driver))
	return s, nil
}

func recipeNotFound(id string) error {
	return common.Wrapf(common.ErrNotFound, "recipe %q", id)
}

func foodItemNotFound(id string) error {
	return common.Wrapf(common.ErrNotFound, "food item %q", id)
}

func hasTag(r recipe.Recipe, tag string) bool {
	return tag == "" || r.HasTag(tag)
}

func sortFoods(foods []recipe.FoodItem) {
	slices.SortFunc(foods, func(a, b recipe.FoodItem) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
