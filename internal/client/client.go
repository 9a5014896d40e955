// Package client is a small HTTP client for the menu planner API.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Client talks to a running menu planner.
type Client struct {
	client *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "menuctl")

	return &Client{client: client}
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, result interface{}) error {
	req := c.client.R().
		SetContext(ctx).
		SetError(&common.ErrorResponse{})
	if result != nil {
		req.SetResult(result)
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}

	common.LogDebug("API response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: resp.String()}
		if e, ok := resp.Error().(*common.ErrorResponse); ok && e.Code != "" {
			apiErr.Code = e.Code
			apiErr.Message = e.Message
		}
		return apiErr
	}
	return nil
}

// Menu fetches the menu for dates, planning any missing days. No dates
// asks for the server's default range.
func (c *Client) Menu(ctx context.Context, dates []string) (*menu.Report, error) {
	var query map[string]string
	if len(dates) > 0 {
		query = map[string]string{"days": strings.Join(dates, ",")}
	}
	var report menu.Report
	if err := c.do(ctx, resty.MethodGet, "/menu", query, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RegenerateDay replans one date.
func (c *Client) RegenerateDay(ctx context.Context, date string) (*menu.Report, error) {
	var report menu.Report
	if err := c.do(ctx, resty.MethodPost, "/menu/"+date+"/regenerate", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRecipes lists recipes, optionally filtered by tag.
func (c *Client) ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error) {
	var query map[string]string
	if tag != "" {
		query = map[string]string{"tag": tag}
	}
	var result struct {
		Recipes []recipe.Recipe `json:"recipes"`
	}
	if err := c.do(ctx, resty.MethodGet, "/recipes", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Recipes, nil
}

// SaveRecipe creates r, or updates it when r.ID is set.
func (c *Client) SaveRecipe(ctx context.Context, r recipe.Recipe) (*recipe.Recipe, error) {
	method, path := resty.MethodPost, "/recipes"
	if r.ID != "" {
		method, path = resty.MethodPut, "/recipes/"+r.ID
	}
	var saved recipe.Recipe
	if err := c.do(ctx, method, path, nil, r, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteRecipe removes a recipe.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, resty.MethodDelete, "/recipes/"+id, nil, nil, nil)
}

// ListFoodItems returns one page of food items matching q and the total
// number that match.
func (c *Client) ListFoodItems(ctx context.Context, q recipe.FoodQuery) ([]recipe.FoodItem, int, error) {
	query := map[string]string{}
	if q.Search != "" {
		query["search"] = q.Search
	}
	if q.Skip > 0 {
		query["skip"] = strconv.Itoa(q.Skip)
	}
	if q.Limit > 0 {
		query["limit"] = strconv.Itoa(q.Limit)
	}
	var result struct {
		FoodItems []recipe.FoodItem `json:"foodItems"`
		Count     int               `json:"count"`
	}
	if err := c.do(ctx, resty.MethodGet, "/food-items", query, nil, &result); err != nil {
		return nil, 0, err
	}
	return result.FoodItems, result.Count, nil
}

// DeleteFoodItem removes a food item. The server refuses while a recipe
// still uses it.
func (c *Client) DeleteFoodItem(ctx context.Context, id string) error {
	return c.do(ctx, resty.MethodDelete, "/food-items/"+id, nil, nil, nil)
}

// SaveFoodItem creates or replaces a food item.
func (c *Client) SaveFoodItem(ctx context.Context, f recipe.FoodItem) (*recipe.FoodItem, error) {
	var saved recipe.FoodItem
	if err := c.do(ctx, resty.MethodPost, "/food-items", nil, f, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// RecomputeNutrition recomputes one recipe's nutrition.
func (c *Client) RecomputeNutrition(ctx context.Context, id string) (nutrition.Tree, error) {
	var result struct {
		Nutrition nutrition.Tree `json:"nutrition"`
	}
	if err := c.do(ctx, resty.MethodPost, "/recipes/"+id+"/nutrition", nil, nil, &result); err != nil {
		return nutrition.Tree{}, err
	}
	return result.Nutrition, nil
}

// RecomputeAll recomputes every recipe and returns how many were updated.
func (c *Client) RecomputeAll(ctx context.Context) (int, error) {
	var result struct {
		Updated int `json:"updated"`
	}
	if err := c.do(ctx, resty.MethodPost, "/recipes/nutrition", nil, nil, &result); err != nil {
		return 0, err
	}
	return result.Updated, nil
}
