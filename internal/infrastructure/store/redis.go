package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps JSON documents under prefixed keys. Recipe and food item
// ids live in sorted sets scored 0 so they come back in id order; days are
// indexed by a sorted set scored by the numeric date.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects and pings redis.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "mealplanner"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *RedisStore) recipeKey(id string) string { return s.key("recipe", id) }
func (s *RedisStore) foodKey(id string) string   { return s.key("food", id) }
func (s *RedisStore) dayKey(date string) string  { return s.key("day", date) }
func (s *RedisStore) recipeIndex() string        { return s.key("recipes") }
func (s *RedisStore) foodIndex() string          { return s.key("foods") }
func (s *RedisStore) dayIndex() string           { return s.key("days") }

// GetRecipe loads one recipe document.
func (s *RedisStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	data, err := s.client.Get(ctx, s.recipeKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, recipeNotFound(id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	var r recipe.Recipe
	if err := common.ParseJSONBytes(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe %q: %w", id, err)
	}
	return &r, nil
}

// ListRecipes walks the recipe index and returns those carrying tag.
func (s *RedisStore) ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error) {
	ids, err := s.client.ZRange(ctx, s.recipeIndex(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if len(ids) == 0 {
		return []recipe.Recipe{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recipeKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	out := make([]recipe.Recipe, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r recipe.Recipe
		if err := common.ParseJSONBytes([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe %q: %w", ids[i], err)
		}
		if hasTag(r, tag) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveRecipe writes the document and its index entry in one transaction.
func (s *RedisStore) SaveRecipe(ctx context.Context, r recipe.Recipe) error {
	data, err := json.Marshal(r.Stripped())
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recipeKey(r.ID), data, 0)
		pipe.ZAdd(ctx, s.recipeIndex(), &redis.Z{Score: 0, Member: r.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// GetFoodItem loads one food item document.
func (s *RedisStore) GetFoodItem(ctx context.Context, id string) (*recipe.FoodItem, error) {
	data, err := s.client.Get(ctx, s.foodKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, foodItemNotFound(id)
		}
		return nil, fmt.Errorf("failed to get food item: %w", err)
	}
	var f recipe.FoodItem
	if err := common.ParseJSONBytes(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal food item %q: %w", id, err)
	}
	return &f, nil
}

// GetFoodItems loads the food items among ids with one MGET.
func (s *RedisStore) GetFoodItems(ctx context.Context, ids []string) (map[string]recipe.FoodItem, error) {
	out := make(map[string]recipe.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.foodKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get food items: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var f recipe.FoodItem
		if err := common.ParseJSONBytes([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal food item %q: %w", ids[i], err)
		}
		out[ids[i]] = f
	}
	return out, nil
}

// SaveFoodItem writes the document and its index entry in one transaction.
func (s *RedisStore) SaveFoodItem(ctx context.Context, f recipe.FoodItem) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal food item: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.foodKey(f.ID), data, 0)
		pipe.ZAdd(ctx, s.foodIndex(), &redis.Z{Score: 0, Member: f.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save food item: %w", err)
	}
	return nil
}

// ListFoodItems loads every indexed food item, then filters, sorts and pages
// in process.
func (s *RedisStore) ListFoodItems(ctx context.Context, q recipe.FoodQuery) ([]recipe.FoodItem, int, error) {
	ids, err := s.client.ZRange(ctx, s.foodIndex(), 0, -1).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list food items: %w", err)
	}
	foods, err := s.GetFoodItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]recipe.FoodItem, 0, len(foods))
	for _, f := range foods {
		if q.Matches(f.Name) {
			matched = append(matched, f)
		}
	}
	sortFoods(matched)

	lo, hi := q.Page(len(matched))
	return matched[lo:hi], len(matched), nil
}

// DeleteRecipe removes the document and its index entry.
func (s *RedisStore) DeleteRecipe(ctx context.Context, id string) error {
	n, err := s.delete(ctx, s.recipeKey(id), s.recipeIndex(), id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if n == 0 {
		return recipeNotFound(id)
	}
	return nil
}

// DeleteFoodItem removes the document and its index entry.
func (s *RedisStore) DeleteFoodItem(ctx context.Context, id string) error {
	n, err := s.delete(ctx, s.foodKey(id), s.foodIndex(), id)
	if err != nil {
		return fmt.Errorf("failed to delete food item: %w", err)
	}
	if n == 0 {
		return foodItemNotFound(id)
	}
	return nil
}

// delete drops key and its index member together and returns how many keys
// were removed.
func (s *RedisStore) delete(ctx context.Context, key, index, member string) (int64, error) {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		pipe.ZRem(ctx, index, member)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return del.Val(), nil
}

// DaysBetween returns the days in [from, to) in date order.
func (s *RedisStore) DaysBetween(ctx context.Context, from, to string) ([]menu.DayAssignment, error) {
	dates, err := s.client.ZRangeByScore(ctx, s.dayIndex(), &redis.ZRangeBy{
		Min: from,
		Max: "(" + to,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range days: %w", err)
	}
	return s.DaysIn(ctx, dates)
}

// DaysIn returns the stored days among dates.
func (s *RedisStore) DaysIn(ctx context.Context, dates []string) ([]menu.DayAssignment, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = s.dayKey(d)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get days: %w", err)
	}

	var out []menu.DayAssignment
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var day menu.DayAssignment
		if err := common.ParseJSONBytes([]byte(raw), &day); err != nil {
			return nil, fmt.Errorf("failed to unmarshal day %s: %w", dates[i], err)
		}
		out = append(out, day)
	}
	return out, nil
}

// SaveDay writes the document and its index entry in one transaction.
func (s *RedisStore) SaveDay(ctx context.Context, day menu.DayAssignment) error {
	score, err := strconv.ParseFloat(day.Date, 64)
	if err != nil {
		return fmt.Errorf("invalid day date %q: %w", day.Date, err)
	}
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("failed to marshal day: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.dayKey(day.Date), data, 0)
		pipe.ZAdd(ctx, s.dayIndex(), &redis.Z{Score: score, Member: day.Date})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save day: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
