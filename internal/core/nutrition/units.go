package nutrition

import (
	"fmt"
	"strconv"
	"strings"

	"menu-planner/internal/pkg/common"
)

// Class is the canonical basis a measurement normalizes to.
type Class string

const (
	// ClassMass measurements normalize to ounces.
	ClassMass Class = "mass"
	// ClassVolume measurements normalize to milliliters.
	ClassVolume Class = "volume"
)

// defaultUnitWord is rendered when an amount has no unit, so unit-less
// amounts still compare against each other as liquid volume.
const defaultUnitWord = "l"

// Fraction is the proper-fraction part of an amount, e.g. the 1/2 in 1 1/2 cup.
type Fraction struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Amount is a quantity, optional fraction and optional unit code.
type Amount struct {
	Quantity float64   `json:"qty"`
	Fraction *Fraction `json:"fraction,omitempty"`
	Unit     string    `json:"unit,omitempty"`
}

// Measure is an amount expressed in its canonical basis.
type Measure struct {
	Value float64 `json:"value"`
	Class Class   `json:"class"`
}

type unitDef struct {
	class  Class
	word   string
	toBase float64 // ounces for mass, milliliters for volume
}

// unitTable maps unit codes to the word rendered in a measure string.
var unitTable = map[string]unitDef{
	"tsp":  {class: ClassVolume, word: "tsp", toBase: 4.92892159375},
	"tbs":  {class: ClassVolume, word: "tbsp", toBase: 14.78676478125},
	"cup":  {class: ClassVolume, word: "cup", toBase: 236.5882365},
	"floz": {class: ClassVolume, word: "fl-oz", toBase: 29.5735295625},
	"pt":   {class: ClassVolume, word: "pint", toBase: 473.176473},
	"qt":   {class: ClassVolume, word: "quart", toBase: 946.352946},
	"gal":  {class: ClassVolume, word: "gallon", toBase: 3785.411784},
	"ml":   {class: ClassVolume, word: "ml", toBase: 1},
	"l":    {class: ClassVolume, word: "l", toBase: 1000},
	"oz":   {class: ClassMass, word: "oz", toBase: 1},
	"lb":   {class: ClassMass, word: "lb", toBase: 16},
}

// measureWords is the vocabulary ParseMeasure understands.
var measureWords = map[string]string{
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbs": "tbs", "tbsp": "tbs", "tablespoon": "tbs", "tablespoons": "tbs",
	"cup": "cup", "cups": "cup",
	"fl-oz": "floz", "floz": "floz", "fluid-ounce": "floz", "fluid-ounces": "floz",
	"pint": "pt", "pints": "pt", "pt": "pt",
	"quart": "qt", "quarts": "qt", "qt": "qt",
	"gallon": "gal", "gallons": "gal", "gal": "gal",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml",
	"l": "l", "liter": "l", "liters": "l",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
}

var allowedDenominators = map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 8: true}

// UnitCodes lists the accepted unit codes.
func UnitCodes() []string {
	codes := make([]string, 0, len(unitTable))
	for code := range unitTable {
		codes = append(codes, code)
	}
	return codes
}

// ClassOf classifies a unit code: oz and lb are mass, anything else
// (including no unit) is volume.
func ClassOf(unit string) Class {
	switch unit {
	case "oz", "lb":
		return ClassMass
	default:
		return ClassVolume
	}
}

func (f *Fraction) present() bool {
	return f != nil && f.Numerator != 0
}

// Validate checks the amount against the unit table and fraction rules.
func (a Amount) Validate() error {
	if a.Quantity < 0 {
		return common.Wrapf(common.ErrInvalidAmount, "quantity %v is negative", a.Quantity)
	}
	if a.Unit != "" {
		if _, ok := unitTable[a.Unit]; !ok {
			return common.Wrapf(common.ErrInvalidAmount, "unknown unit %q", a.Unit)
		}
	}
	if a.Fraction.present() {
		if a.Fraction.Numerator < 0 {
			return common.Wrapf(common.ErrInvalidAmount, "fraction numerator %d is negative", a.Fraction.Numerator)
		}
		if !allowedDenominators[a.Fraction.Denominator] {
			return common.Wrapf(common.ErrInvalidAmount, "fraction denominator %d not in {2,3,4,5,6,8}", a.Fraction.Denominator)
		}
		if a.Fraction.Numerator >= a.Fraction.Denominator {
			return common.Wrapf(common.ErrInvalidAmount, "fraction %d/%d is not a proper fraction", a.Fraction.Numerator, a.Fraction.Denominator)
		}
	}
	return nil
}

// MeasureString renders the amount as "<qty> <num>/<den> <unit-word>".
func (a Amount) MeasureString() string {
	parts := make([]string, 0, 3)
	if a.Quantity != 0 {
		parts = append(parts, strconv.FormatFloat(a.Quantity, 'f', -1, 64))
	}
	if a.Fraction.present() && a.Fraction.Denominator != 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", a.Fraction.Numerator, a.Fraction.Denominator))
	}
	word := defaultUnitWord
	if def, ok := unitTable[a.Unit]; ok {
		word = def.word
	}
	parts = append(parts, word)
	return strings.Join(parts, " ")
}

// ParseMeasure converts a measure string such as "1 1/2 cup" into its
// canonical basis. The last token is the unit word; the preceding tokens are
// whole numbers, decimals or fractions and are summed.
func ParseMeasure(s string) (Measure, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return Measure{}, common.Wrapf(common.ErrInvalidAmount, "empty measure")
	}

	code, ok := measureWords[fields[len(fields)-1]]
	if !ok {
		return Measure{}, common.Wrapf(common.ErrInvalidAmount, "unknown unit in measure %q", s)
	}
	def := unitTable[code]

	var qty float64
	for _, tok := range fields[:len(fields)-1] {
		v, err := parseNumber(tok)
		if err != nil {
			return Measure{}, common.Wrapf(common.ErrInvalidAmount, "measure %q: %v", s, err)
		}
		qty += v
	}

	return Measure{Value: qty * def.toBase, Class: def.class}, nil
}

func parseNumber(tok string) (float64, error) {
	if num, den, ok := strings.Cut(tok, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("bad fraction %q", tok)
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("bad fraction %q", tok)
		}
		if n < 0 || d < 0 {
			return 0, fmt.Errorf("negative fraction %q", tok)
		}
		return n / d, nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", tok)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative number %q", tok)
	}
	return v, nil
}

// Normalize renders the amount and parses it back into the canonical basis
// of its unit class.
func Normalize(a Amount) (Measure, error) {
	if err := a.Validate(); err != nil {
		return Measure{}, err
	}
	m, err := ParseMeasure(a.MeasureString())
	if err != nil {
		return Measure{}, err
	}
	if class := ClassOf(a.Unit); m.Class != class {
		return Measure{}, common.Wrapf(common.ErrInvalidAmount, "unit %q parsed as %s, want %s", a.Unit, m.Class, class)
	}
	return m, nil
}
