package nutrition

import "math"

// Tree is the nutrition facts of a food item or recipe. A nil leaf means the
// value is unknown, which is different from zero.
type Tree struct {
	Calories      Calories      `json:"calories"`
	Carbohydrates Carbohydrates `json:"carbohydrates"`
	Cholesterol   *float64      `json:"cholesterol,omitempty"`
	Sodium        *float64      `json:"sodium,omitempty"`
	Fat           Fat           `json:"fat"`
	Potassium     *float64      `json:"potassium,omitempty"`
	Protein       *float64      `json:"protein,omitempty"`
	Vitamin       Vitamin       `json:"vitamin"`
}

type Calories struct {
	Total   *float64 `json:"total,omitempty"`
	FromFat *float64 `json:"fromFat,omitempty"`
}

type Carbohydrates struct {
	Total *float64 `json:"total,omitempty"`
	Sugar *float64 `json:"sugar,omitempty"`
	Fiber *float64 `json:"fiber,omitempty"`
}

type Fat struct {
	Total     *float64 `json:"total,omitempty"`
	Saturated *float64 `json:"saturated,omitempty"`
	Trans     *float64 `json:"trans,omitempty"`
	Polyunsat *float64 `json:"polyunsat,omitempty"`
	Monounsat *float64 `json:"monounsat,omitempty"`
}

type Vitamin struct {
	A       *float64 `json:"a,omitempty"`
	C       *float64 `json:"c,omitempty"`
	D       *float64 `json:"d,omitempty"`
	Calcium *float64 `json:"calcium,omitempty"`
	Iron    *float64 `json:"iron,omitempty"`
}

// Value returns a pointer to v, for building trees.
func Value(v float64) *float64 {
	return &v
}

// leaves returns pointers to every leaf slot of t in a fixed order.
func (t *Tree) leaves() []**float64 {
	return []**float64{
		&t.Calories.Total, &t.Calories.FromFat,
		&t.Carbohydrates.Total, &t.Carbohydrates.Sugar, &t.Carbohydrates.Fiber,
		&t.Cholesterol,
		&t.Sodium,
		&t.Fat.Total, &t.Fat.Saturated, &t.Fat.Trans, &t.Fat.Polyunsat, &t.Fat.Monounsat,
		&t.Potassium,
		&t.Protein,
		&t.Vitamin.A, &t.Vitamin.C, &t.Vitamin.D, &t.Vitamin.Calcium, &t.Vitamin.Iron,
	}
}

// IsEmpty reports whether every leaf is absent.
func (t Tree) IsEmpty() bool {
	for _, leaf := range t.leaves() {
		if *leaf != nil {
			return false
		}
	}
	return true
}

// Clone returns a deep copy that shares no leaf pointers with t.
func (t Tree) Clone() Tree {
	out := Tree{}
	src := t.leaves()
	for i, leaf := range out.leaves() {
		if *src[i] != nil {
			*leaf = Value(**src[i])
		}
	}
	return out
}

// Scale multiplies every present leaf by factor and rounds to the nearest
// integer. A factor of 1 returns the tree unchanged.
func Scale(t Tree, factor float64) Tree {
	if factor == 1 {
		return t.Clone()
	}
	out := Tree{}
	src := t.leaves()
	for i, leaf := range out.leaves() {
		if *src[i] != nil {
			*leaf = Value(math.Round(**src[i] * factor))
		}
	}
	return out
}

// Sum adds trees leaf by leaf. A leaf absent from every tree stays absent;
// an absent leaf does not count as zero.
func Sum(trees ...Tree) Tree {
	out := Tree{}
	dst := out.leaves()
	for i := range trees {
		src := trees[i].leaves()
		for j, leaf := range dst {
			if *src[j] == nil {
				continue
			}
			if *leaf == nil {
				*leaf = Value(**src[j])
				continue
			}
			**leaf += **src[j]
		}
	}
	return out
}
