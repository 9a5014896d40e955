package menu

import "menu-planner/internal/core/recipe"

// RecencyIndex maps a recipe id to the last date (YYYYMMDD) it was planned.
// Recipes with no entry have never been used within the window. An index
// lives for one day's planning and is never stored.
type RecencyIndex map[string]string

// BuildRecencyIndex scans every slot of every day in window and records the
// most recent date each candidate appears.
func BuildRecencyIndex(window []DayAssignment, candidates []recipe.Recipe) RecencyIndex {
	wanted := make(map[string]struct{}, len(candidates))
	for _, r := range candidates {
		wanted[r.ID] = struct{}{}
	}

	index := make(RecencyIndex)
	for _, day := range window {
		for _, ids := range day.Meals {
			for _, id := range ids {
				if _, ok := wanted[id]; !ok {
					continue
				}
				if day.Date > index[id] {
					index[id] = day.Date
				}
			}
		}
	}
	return index
}

// LastUsed returns the last date id was planned.
func (idx RecencyIndex) LastUsed(id string) (string, bool) {
	date, ok := idx[id]
	return date, ok
}

// MarkUsed records id as planned on date.
func (idx RecencyIndex) MarkUsed(id, date string) {
	idx[id] = date
}
