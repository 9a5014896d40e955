package menu

import (
	"strings"
	"time"

	"menu-planner/internal/pkg/common"
)

// DateLayout is the canonical stored date form. Lexicographic order of
// dates in this layout is chronological order.
const DateLayout = "20060102"

// DateParser normalizes caller dates into DateLayout.
type DateParser struct {
	layouts []string
}

// NewDateParser accepts the given 8-digit layout plus ISO and US slash forms.
func NewDateParser(layout string) DateParser {
	if layout == "" {
		layout = DateLayout
	}
	layouts := []string{layout}
	for _, l := range []string{"2006-01-02", "01/02/2006"} {
		if l != layout {
			layouts = append(layouts, l)
		}
	}
	return DateParser{layouts: layouts}
}

// Normalize returns s in DateLayout.
func (p DateParser) Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", common.Wrapf(common.ErrInvalidDate, "cannot parse %q", s)
}

// NormalizeAll normalizes every date, failing on the first bad one.
func (p DateParser) NormalizeAll(dates []string) ([]string, error) {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		n, err := p.Normalize(d)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// AddDays shifts a canonical date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", common.Wrapf(common.ErrInvalidDate, "cannot parse %q", date)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// Range returns n consecutive canonical dates starting at start.
func Range(start time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}
