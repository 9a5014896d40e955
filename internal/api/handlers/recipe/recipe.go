package recipe

import (
	"context"
	"errors"
	"net/http"

	"menu-planner/internal/api/handlers"
	"menu-planner/internal/core/nutrition"
	recipeCore "menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Service is the recipe service the handlers call.
type Service interface {
	Get(ctx context.Context, id string) (*recipeCore.Recipe, error)
	List(ctx context.Context, tag string) ([]recipeCore.Recipe, error)
	Save(ctx context.Context, r recipeCore.Recipe) (*recipeCore.Recipe, error)
	RecomputeNutrition(ctx context.Context, id string) (nutrition.Tree, error)
	Delete(ctx context.Context, id string) error
	RecomputeAll(ctx context.Context) (int, error)
	GetFoodItem(ctx context.Context, id string) (*recipeCore.FoodItem, error)
	ListFoodItems(ctx context.Context, q recipeCore.FoodQuery) ([]recipeCore.FoodItem, int, error)
	CountFoodItems(ctx context.Context, search string) (int, error)
	SaveFoodItem(ctx context.Context, f recipeCore.FoodItem) (*recipeCore.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id string) error
}

// Handler serves recipe and food item endpoints.
type Handler struct {
	service Service
	debug   bool
}

// NewHandler creates a recipe handler.
func NewHandler(service Service, debug bool) *Handler {
	return &Handler{service: service, debug: debug}
}

// HandleListRecipes lists recipes, filtered by ?tag= when given.
func (h *Handler) HandleListRecipes(c *gin.Context) {
	recipes, err := h.service.List(c.Request.Context(), c.Query("tag"))
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *Handler) HandleGetRecipe(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleSaveRecipe creates a recipe, or upserts the one named by :id.
// Nutrition in the body is ignored and recomputed.
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	var req recipeCore.Recipe
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}

	status := http.StatusCreated
	if id := c.Param("id"); id != "" {
		if req.ID != "" && req.ID != id {
			handlers.Error(c, common.Wrapf(common.ErrInvalidRequest, "body id %q does not match path id %q", req.ID, id), h.debug)
			return
		}
		_, err := h.service.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			status = http.StatusOK
		case !errors.Is(err, common.ErrNotFound):
			handlers.Error(c, err, h.debug)
			return
		}
		req.ID = id
	}
	req.Nutrition = nutrition.Tree{}

	saved, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(status, saved)
}

func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleRecomputeNutrition recomputes one recipe's nutrition.
func (h *Handler) HandleRecomputeNutrition(c *gin.Context) {
	id := c.Param("id")
	tree, err := h.service.RecomputeNutrition(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "nutrition": tree})
}

// HandleRecomputeAll recomputes every recipe.
func (h *Handler) HandleRecomputeAll(c *gin.Context) {
	n, err := h.service.RecomputeAll(c.Request.Context())
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// HandleListFoodItems returns a page of food items matching ?search=,
// paged by ?skip= and ?limit=, with the total match count.
func (h *Handler) HandleListFoodItems(c *gin.Context) {
	var q recipeCore.FoodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}
	items, total, err := h.service.ListFoodItems(c.Request.Context(), q)
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foodItems": items, "count": total})
}

func (h *Handler) HandleCountFoodItems(c *gin.Context) {
	n, err := h.service.CountFoodItems(c.Request.Context(), c.Query("search"))
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) HandleGetFoodItem(c *gin.Context) {
	f, err := h.service.GetFoodItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, f)
}

// HandleSaveFoodItem creates or replaces food item reference data.
func (h *Handler) HandleSaveFoodItem(c *gin.Context) {
	var req recipeCore.FoodItem
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}

	saved, err := h.service.SaveFoodItem(c.Request.Context(), req)
	if err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// HandleDeleteFoodItem removes a food item no recipe uses.
func (h *Handler) HandleDeleteFoodItem(c *gin.Context) {
	if err := h.service.DeleteFoodItem(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err, h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}
