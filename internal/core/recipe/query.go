package recipe

import "strings"

// FoodQuery selects a page of food items. Search matches names containing
// any of its words, ignoring case. Limit 0 means no limit.
type FoodQuery struct {
	Search string `form:"search"`
	Skip   int    `form:"skip"`
	Limit  int    `form:"limit"`
}

// Terms returns the lower-cased search words.
func (q FoodQuery) Terms() []string {
	return strings.Fields(strings.ToLower(q.Search))
}

// Matches reports whether name satisfies the search. An empty search
// matches everything.
func (q FoodQuery) Matches(name string) bool {
	terms := q.Terms()
	if len(terms) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Page returns the half-open bounds of the requested page within n sorted
// results.
func (q FoodQuery) Page(n int) (lo, hi int) {
	lo = min(max(q.Skip, 0), n)
	hi = n
	if q.Limit > 0 && lo+q.Limit < n {
		hi = lo + q.Limit
	}
	return lo, hi
}

// UsesFoodItem reports whether any ingredient of r refers to id.
func (r Recipe) UsesFoodItem(id string) bool {
	for _, ing := range r.Ingredients {
		if ing.FoodItemID == id {
			return true
		}
	}
	return false
}
