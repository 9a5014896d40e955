package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"menu-planner/internal/core/nutrition"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// RecipeCatalog lists recipes, optionally only those carrying tag.
type RecipeCatalog interface {
	ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error)
}

// History stores day assignments keyed by date.
type History interface {
	// DaysBetween returns days with from <= date < to.
	DaysBetween(ctx context.Context, from, to string) ([]DayAssignment, error)
	// DaysIn returns the stored days among dates.
	DaysIn(ctx context.Context, dates []string) ([]DayAssignment, error)
	// SaveDay inserts or replaces the day for its date.
	SaveDay(ctx context.Context, day DayAssignment) error
}

// Planner fills meal slots day by day.
type Planner struct {
	catalog  RecipeCatalog
	history  History
	selector *Selector
	window   int
	dates    DateParser
}

// NewPlanner creates a planner.
func NewPlanner(catalog RecipeCatalog, history History, selector *Selector, cfg config.MenuConfig) *Planner {
	window := cfg.Window
	if window < 1 {
		window = 1
	}
	return &Planner{
		catalog:  catalog,
		history:  history,
		selector: selector,
		window:   window,
		dates:    NewDateParser(cfg.DateLayout),
	}
}

// Dates returns the parser used for caller dates.
func (p *Planner) Dates() DateParser {
	return p.dates
}

func historyErr(err error) error {
	if errors.Is(err, common.ErrHistoryIO) {
		return err
	}
	return common.Wrap(common.ErrHistoryIO, err)
}

func catalogErr(err error) error {
	if errors.Is(err, common.ErrCatalogIO) {
		return err
	}
	return common.Wrap(common.ErrCatalogIO, err)
}

// PlanDay plans every meal time of date (YYYYMMDD) against the trailing
// window and stores the result with a single write.
func (p *Planner) PlanDay(ctx context.Context, date string) (*DayAssignment, error) {
	from, err := AddDays(date, -p.window)
	if err != nil {
		return nil, err
	}

	window, err := p.history.DaysBetween(ctx, from, date)
	if err != nil {
		return nil, historyErr(err)
	}

	candidates, err := p.catalog.ListRecipes(ctx, recipe.TagEntree)
	if err != nil {
		return nil, catalogErr(err)
	}

	index := BuildRecencyIndex(window, candidates)
	meals := emptyMeals()
	for _, mt := range recipe.MealTimeTags {
		r, ok := p.selector.Select(candidates, mt, recipe.TagEntree, index, date)
		if !ok {
			common.LogDebug("No candidate for meal slot",
				zap.String("date", date),
				zap.String("meal_time", mt),
			)
			continue
		}
		meals[mt] = append(meals[mt], r.ID)
	}

	day := DayAssignment{Date: date, Meals: meals}
	if err := p.history.SaveDay(ctx, day); err != nil {
		return nil, historyErr(err)
	}

	common.LogInfo("Day planned",
		zap.String("date", date),
		zap.Int("candidates", len(candidates)),
		zap.Int("history_days", len(window)),
	)
	return &day, nil
}

// PlanDays returns the menu for dates, generating missing days one at a time
// in chronological order so each day sees the ones before it. Any failure
// aborts the rest of the range and no menu is returned.
func (p *Planner) PlanDays(ctx context.Context, dates []string) (Menu, error) {
	requested, err := p.dates.NormalizeAll(dates)
	if err != nil {
		return nil, err
	}
	slices.Sort(requested)
	requested = slices.Compact(requested)

	existing, err := p.history.DaysIn(ctx, requested)
	if err != nil {
		return nil, historyErr(err)
	}
	have := make(map[string]bool, len(existing))
	for _, day := range existing {
		have[day.Date] = true
	}

	var missing []string
	for _, d := range requested {
		if !have[d] {
			missing = append(missing, d)
		}
	}

	if len(missing) > 0 {
		common.LogInfo("Planning missing days",
			zap.Int("requested", len(requested)),
			zap.Int("missing", len(missing)),
		)
	}

	for _, d := range missing {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := p.PlanDay(ctx, d); err != nil {
			common.LogError("Day planning failed", zap.String("date", d), zap.Error(err))
			return nil, fmt.Errorf("plan %s: %w", d, err)
		}
	}

	days, err := p.history.DaysIn(ctx, requested)
	if err != nil {
		return nil, historyErr(err)
	}

	m := make(Menu, len(days))
	for _, day := range days {
		m[day.Date] = day.Meals
	}
	return m, nil
}

// RegenerateDay replans a single caller-supplied date, replacing any stored
// assignment.
func (p *Planner) RegenerateDay(ctx context.Context, date string) (*DayAssignment, error) {
	d, err := p.dates.Normalize(date)
	if err != nil {
		return nil, err
	}
	return p.PlanDay(ctx, d)
}

// Describe attaches recipe summaries and per-day nutrition totals to m.
func (p *Planner) Describe(ctx context.Context, m Menu) (*Report, error) {
	recipes, err := p.catalog.ListRecipes(ctx, "")
	if err != nil {
		return nil, catalogErr(err)
	}
	byID := make(map[string]recipe.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	report := &Report{
		Menu:    m,
		Recipes: make(map[string]recipe.Summary),
		Totals:  make(map[string]nutrition.Tree, len(m)),
	}
	for date, meals := range m {
		var trees []nutrition.Tree
		for _, id := range meals.RecipeIDs() {
			r, ok := byID[id]
			if !ok {
				common.LogWarn("Menu references unknown recipe", zap.String("date", date), zap.String("recipe_id", id))
				continue
			}
			report.Recipes[id] = r.Summarize()
			trees = append(trees, r.Nutrition)
		}
		report.Totals[date] = nutrition.Sum(trees...)
	}
	return report, nil
}
