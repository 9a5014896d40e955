package menu

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"menu-planner/internal/core/recipe"
)

// RandSource picks a uniform integer in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewRand returns a seeded source; seed 0 seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Selector picks a recipe for one meal slot. Pools no larger than the window
// rotate deterministically; larger pools pick at random among the window's
// worth of least recently used recipes.
type Selector struct {
	window int

	mu  sync.Mutex
	rnd RandSource
}

// NewSelector creates a selector over a window of days.
func NewSelector(window int, rnd RandSource) *Selector {
	if window < 1 {
		window = 1
	}
	return &Selector{window: window, rnd: rnd}
}

// Select chooses a recipe tagged with both mealTime and role, and marks it
// used on date in index. It reports false when no recipe qualifies.
func (s *Selector) Select(candidates []recipe.Recipe, mealTime, role string, index RecencyIndex, date string) (recipe.Recipe, bool) {
	pool := make([]recipe.Recipe, 0, len(candidates))
	for _, r := range candidates {
		if r.HasTag(mealTime) && r.HasTag(role) {
			pool = append(pool, r)
		}
	}
	if len(pool) == 0 {
		return recipe.Recipe{}, false
	}

	// never used first, then oldest; ties keep catalog order
	slices.SortStableFunc(pool, func(a, b recipe.Recipe) int {
		da, usedA := index.LastUsed(a.ID)
		db, usedB := index.LastUsed(b.ID)
		switch {
		case !usedA && !usedB:
			return 0
		case !usedA:
			return -1
		case !usedB:
			return 1
		}
		return cmp.Compare(da, db)
	})

	choice := pool[0]
	if len(pool) > s.window {
		s.mu.Lock()
		choice = pool[s.rnd.IntN(s.window)]
		s.mu.Unlock()
	}

	index.MarkUsed(choice.ID, date)
	return choice, true
}
