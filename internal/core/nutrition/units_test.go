package nutrition

import (
	"errors"
	"math"
	"testing"

	"menu-planner/internal/pkg/common"
)

func TestMeasureString(t *testing.T) {
	tests := []struct {
		name   string
		amount Amount
		want   string
	}{
		{"quantity and unit", Amount{Quantity: 2, Unit: "cup"}, "2 cup"},
		{"fraction", Amount{Quantity: 1, Fraction: &Fraction{1, 2}, Unit: "tbs"}, "1 1/2 tbsp"},
		{"fraction only", Amount{Fraction: &Fraction{3, 4}, Unit: "lb"}, "3/4 lb"},
		{"zero numerator", Amount{Quantity: 3, Fraction: &Fraction{0, 4}, Unit: "oz"}, "3 oz"},
		{"no unit", Amount{Quantity: 1.5}, "1.5 l"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.MeasureString(); got != tt.want {
				t.Errorf("MeasureString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	for _, unit := range []string{"oz", "lb"} {
		if got := ClassOf(unit); got != ClassMass {
			t.Errorf("ClassOf(%q) = %s, want mass", unit, got)
		}
	}
	for _, unit := range []string{"", "tsp", "cup", "floz", "ml", "l", "gal"} {
		if got := ClassOf(unit); got != ClassVolume {
			t.Errorf("ClassOf(%q) = %s, want volume", unit, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Run("cup against fluid ounces", func(t *testing.T) {
		cup, err := Normalize(Amount{Quantity: 1, Unit: "cup"})
		if err != nil {
			t.Fatalf("Normalize(cup) error = %v", err)
		}
		floz, err := Normalize(Amount{Quantity: 8, Unit: "floz"})
		if err != nil {
			t.Fatalf("Normalize(floz) error = %v", err)
		}
		if cup.Class != ClassVolume || floz.Class != ClassVolume {
			t.Fatalf("classes = %s, %s, want volume", cup.Class, floz.Class)
		}
		if math.Abs(cup.Value-floz.Value) > 0.01 {
			t.Errorf("1 cup = %v ml, 8 fl-oz = %v ml", cup.Value, floz.Value)
		}
	})

	t.Run("pound against ounces", func(t *testing.T) {
		lb, err := Normalize(Amount{Quantity: 1, Unit: "lb"})
		if err != nil {
			t.Fatal(err)
		}
		oz, err := Normalize(Amount{Quantity: 16, Unit: "oz"})
		if err != nil {
			t.Fatal(err)
		}
		if lb != oz {
			t.Errorf("1 lb = %+v, 16 oz = %+v", lb, oz)
		}
	})

	t.Run("ratio is unit independent", func(t *testing.T) {
		tsp, _ := Normalize(Amount{Quantity: 3, Unit: "tsp"})
		tbs, _ := Normalize(Amount{Quantity: 1, Unit: "tbs"})
		if math.Abs(tsp.Value/tbs.Value-1) > 1e-9 {
			t.Errorf("3 tsp / 1 tbsp = %v, want 1", tsp.Value/tbs.Value)
		}
	})

	t.Run("fraction adds to quantity", func(t *testing.T) {
		m, err := Normalize(Amount{Quantity: 1, Fraction: &Fraction{1, 2}, Unit: "oz"})
		if err != nil {
			t.Fatal(err)
		}
		if m.Value != 1.5 || m.Class != ClassMass {
			t.Errorf("got %+v, want 1.5 mass", m)
		}
	})

	t.Run("missing unit is liters", func(t *testing.T) {
		m, err := Normalize(Amount{Quantity: 2})
		if err != nil {
			t.Fatal(err)
		}
		if m.Value != 2000 || m.Class != ClassVolume {
			t.Errorf("got %+v, want 2000 volume", m)
		}
	})

	invalid := []struct {
		name   string
		amount Amount
	}{
		{"negative quantity", Amount{Quantity: -1, Unit: "cup"}},
		{"unknown unit", Amount{Quantity: 1, Unit: "handful"}},
		{"bad denominator", Amount{Quantity: 1, Fraction: &Fraction{1, 7}, Unit: "cup"}},
		{"zero denominator", Amount{Fraction: &Fraction{1, 0}, Unit: "cup"}},
		{"improper fraction", Amount{Quantity: 1, Fraction: &Fraction{5, 4}, Unit: "cup"}},
		{"whole fraction", Amount{Fraction: &Fraction{2, 2}, Unit: "cup"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.amount)
			if !errors.Is(err, common.ErrInvalidAmount) {
				t.Errorf("Normalize() error = %v, want ErrInvalidAmount", err)
			}
		})
	}
}

func TestParseMeasure(t *testing.T) {
	m, err := ParseMeasure("2 1/4 Cups")
	if err != nil {
		t.Fatal(err)
	}
	want := 2.25 * 236.5882365
	if math.Abs(m.Value-want) > 1e-9 || m.Class != ClassVolume {
		t.Errorf("ParseMeasure() = %+v, want %v volume", m, want)
	}

	for _, s := range []string{"", "2 handfuls", "x cup", "1/0 cup"} {
		if _, err := ParseMeasure(s); err == nil {
			t.Errorf("ParseMeasure(%q) succeeded, want error", s)
		}
	}
}
