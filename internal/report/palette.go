package report

import (
	"strings"

	"github.com/ivanoskov/finance_tracker/internal/model"
)

// NeutralColor is used for categories missing from a palette.
const NeutralColor = "#9E9E9E"

// Palette maps category names to display colors. Lookups are case-insensitive.
type Palette map[string]string

// NewPalette builds a palette from category display metadata. Later
// entries override earlier ones with the same name.
func NewPalette(categories []model.Category) Palette {
	p := make(Palette, len(categories))
	for _, c := range categories {
		if c.Color == "" {
			continue
		}
		p[strings.ToLower(c.Name)] = c.Color
	}
	return p
}

// DefaultPalette returns the colors of the built-in expense categories.
func DefaultPalette() Palette {
	return NewPalette(model.FilterCategories(model.DefaultCategories, model.Expense))
}

func (p Palette) Color(category string) string {
	if c, ok := p[strings.ToLower(category)]; ok {
		return c
	}
	return NeutralColor
}
