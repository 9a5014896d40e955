package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"
)

func newTestPlanner(catalog RecipeCatalog, history History, window int) *Planner {
	return NewPlanner(catalog, history, NewSelector(window, NewRand(1)), config.MenuConfig{
		Window:     window,
		DateLayout: DateLayout,
	})
}

var week = Range(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 7)

func TestPlanDaysRotatesSmallPool(t *testing.T) {
	catalog := &fakeCatalog{recipes: lunchPool(5)}
	history := newFakeHistory()
	p := newTestPlanner(catalog, history, 7)

	days := Range(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), 10)
	m, err := p.PlanDays(context.Background(), days)
	if err != nil {
		t.Fatalf("PlanDays() error = %v", err)
	}
	if len(m) != 10 {
		t.Fatalf("menu has %d days, want 10", len(m))
	}

	seen := map[string]bool{}
	for _, d := range days[:5] {
		lunch := m[d][recipe.TagLunch]
		if len(lunch) != 1 {
			t.Fatalf("%s lunch = %v, want one recipe", d, lunch)
		}
		if seen[lunch[0]] {
			t.Errorf("%s repeats %s within the first five days", d, lunch[0])
		}
		seen[lunch[0]] = true
	}
	if len(seen) != 5 {
		t.Errorf("first five days used %d recipes, want all 5", len(seen))
	}

	for i := 5; i < 10; i++ {
		if got, want := m[days[i]][recipe.TagLunch][0], m[days[i-5]][recipe.TagLunch][0]; got != want {
			t.Errorf("%s lunch = %s, want %s (rotation repeats in order)", days[i], got, want)
		}
	}

	for _, d := range days {
		if len(m[d][recipe.TagDinner]) != 0 || len(m[d][recipe.TagBreakfast]) != 0 {
			t.Errorf("%s filled a meal time with no candidates: %v", d, m[d])
		}
	}
}

func TestPlanDaysEmptyCatalog(t *testing.T) {
	history := newFakeHistory()
	p := newTestPlanner(&fakeCatalog{}, history, 7)

	m, err := p.PlanDays(context.Background(), week)
	if err != nil {
		t.Fatalf("PlanDays() error = %v", err)
	}
	if len(m) != 7 {
		t.Fatalf("menu has %d days, want 7", len(m))
	}
	for _, d := range week {
		meals, ok := m[d]
		if !ok {
			t.Fatalf("missing %s", d)
		}
		for _, mt := range recipe.MealTimeTags {
			ids, ok := meals[mt]
			if !ok || len(ids) != 0 {
				t.Errorf("%s %s = %v, want empty list", d, mt, ids)
			}
		}
	}
}

func TestPlanDaysAbortsOnFailure(t *testing.T) {
	catalog := &fakeCatalog{recipes: lunchPool(3), failOn: 3}
	history := newFakeHistory()
	p := newTestPlanner(catalog, history, 7)

	m, err := p.PlanDays(context.Background(), week)
	if err == nil {
		t.Fatal("PlanDays() succeeded, want error")
	}
	if !errors.Is(err, common.ErrCatalogIO) {
		t.Errorf("error = %v, want ErrCatalogIO", err)
	}
	if m != nil {
		t.Errorf("PlanDays() returned a partial menu: %v", m)
	}
	if len(history.saves) != 2 || history.saves[0] != week[0] || history.saves[1] != week[1] {
		t.Errorf("saved days = %v, want the first two", history.saves)
	}
}

func TestPlanDaysInvalidDate(t *testing.T) {
	catalog := &fakeCatalog{recipes: lunchPool(3)}
	history := newFakeHistory()
	p := newTestPlanner(catalog, history, 7)

	_, err := p.PlanDays(context.Background(), []string{"20240301", "2024-13-45"})
	if !errors.Is(err, common.ErrInvalidDate) {
		t.Fatalf("error = %v, want ErrInvalidDate", err)
	}
	if history.calls != 0 || catalog.calls != 0 {
		t.Errorf("work started before date validation: history %d, catalog %d calls", history.calls, catalog.calls)
	}
}

func TestPlanDaysKeepsExistingDays(t *testing.T) {
	history := newFakeHistory()
	history.days[week[1]] = Meals{recipe.TagLunch: {"stored"}}
	p := newTestPlanner(&fakeCatalog{recipes: lunchPool(3)}, history, 7)

	// out of order and duplicated on purpose
	m, err := p.PlanDays(context.Background(), []string{week[2], week[0], week[1], week[0]})
	if err != nil {
		t.Fatal(err)
	}
	if got := m[week[1]][recipe.TagLunch]; len(got) != 1 || got[0] != "stored" {
		t.Errorf("existing day replaced: %v", got)
	}
	if len(history.saves) != 2 || history.saves[0] != week[0] || history.saves[1] != week[2] {
		t.Errorf("saved days = %v, want %s then %s", history.saves, week[0], week[2])
	}
}

func TestPlanDaysAcceptsCallerLayouts(t *testing.T) {
	history := newFakeHistory()
	p := NewPlanner(&fakeCatalog{}, history, NewSelector(7, NewRand(1)), config.MenuConfig{
		Window:     7,
		DateLayout: "01022006",
	})

	m, err := p.PlanDays(context.Background(), []string{"03152024", "2024-03-16"})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"20240315", "20240316"} {
		if _, ok := m[d]; !ok {
			t.Errorf("menu missing %s: %v", d, m)
		}
	}
}

func TestRegenerateDay(t *testing.T) {
	history := newFakeHistory()
	history.days["20240302"] = Meals{recipe.TagLunch: {"old"}}
	p := newTestPlanner(&fakeCatalog{recipes: lunchPool(2)}, history, 7)

	day, err := p.RegenerateDay(context.Background(), "2024-03-02")
	if err != nil {
		t.Fatal(err)
	}
	if day.Date != "20240302" || day.Meals[recipe.TagLunch][0] != "r00" {
		t.Errorf("RegenerateDay() = %+v", day)
	}
	if history.days["20240302"][recipe.TagLunch][0] != "r00" {
		t.Error("regenerated day not stored")
	}

	if _, err := p.RegenerateDay(context.Background(), "tomorrow"); !errors.Is(err, common.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

func TestPlanDayWindow(t *testing.T) {
	history := newFakeHistory()
	// r00 eight days back is outside a seven day window; r01 is inside
	history.days["20240302"] = Meals{recipe.TagLunch: {"r00"}}
	history.days["20240305"] = Meals{recipe.TagLunch: {"r01"}}
	p := newTestPlanner(&fakeCatalog{recipes: lunchPool(2)}, history, 7)

	day, err := p.PlanDay(context.Background(), "20240310")
	if err != nil {
		t.Fatal(err)
	}
	if got := day.Meals[recipe.TagLunch][0]; got != "r00" {
		t.Errorf("lunch = %s, want r00", got)
	}
}

func TestPlanDaySharedPoolFillsSlotsDistinctly(t *testing.T) {
	catalog := &fakeCatalog{recipes: []recipe.Recipe{
		entree("x", recipe.TagLunch, recipe.TagDinner),
		entree("y", recipe.TagLunch, recipe.TagDinner),
	}}
	p := newTestPlanner(catalog, newFakeHistory(), 7)

	day, err := p.PlanDay(context.Background(), "20240310")
	if err != nil {
		t.Fatal(err)
	}
	lunch, dinner := day.Meals[recipe.TagLunch], day.Meals[recipe.TagDinner]
	if len(lunch) != 1 || len(dinner) != 1 {
		t.Fatalf("lunch = %v, dinner = %v, want one recipe each", lunch, dinner)
	}
	if lunch[0] == dinner[0] {
		t.Errorf("lunch and dinner both %s on the same day", lunch[0])
	}

	m, err := p.PlanDays(context.Background(), week)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range week {
		if l, dn := m[d][recipe.TagLunch], m[d][recipe.TagDinner]; l[0] == dn[0] {
			t.Errorf("%s lunch and dinner both %s", d, l[0])
		}
	}
}

func TestDescribe(t *testing.T) {
	catalog := &fakeCatalog{recipes: []recipe.Recipe{
		entree("a", recipe.TagLunch),
		entree("b", recipe.TagDinner),
	}}
	p := newTestPlanner(catalog, newFakeHistory(), 7)

	report, err := p.Describe(context.Background(), Menu{
		"20240301": {recipe.TagLunch: {"a"}, recipe.TagDinner: {"b"}},
		"20240302": {recipe.TagLunch: {"a"}, recipe.TagDinner: {"unknown"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Recipes) != 2 {
		t.Errorf("recipes = %d, want 2", len(report.Recipes))
	}
	if got := *report.Totals["20240301"].Calories.Total; got != 200 {
		t.Errorf("20240301 calories = %v, want 200", got)
	}
	if got := *report.Totals["20240302"].Calories.Total; got != 100 {
		t.Errorf("20240302 calories = %v, want 100", got)
	}
}

func TestDateParser(t *testing.T) {
	p := NewDateParser("")
	tests := []struct {
		in   string
		want string
	}{
		{"20240229", "20240229"},
		{" 2024-02-29 ", "20240229"},
		{"02/29/2024", "20240229"},
	}
	for _, tt := range tests {
		got, err := p.Normalize(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Normalize(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "20230229", "2024229", "29/02/2024", "yesterday"} {
		if _, err := p.Normalize(bad); !errors.Is(err, common.ErrInvalidDate) {
			t.Errorf("Normalize(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}

	if got, _ := AddDays("20240301", -7); got != "20240223" {
		t.Errorf("AddDays() = %s, want 20240223", got)
	}
}
