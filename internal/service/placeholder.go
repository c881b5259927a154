package service

import "github.com/guttosm/nutrition-service/internal/domain/model"

// Palette is the fixed ingredient color palette, indexed by ingredient position.
var Palette = [...]string{
	"#4CAF50",
	"#FF9800",
	"#2196F3",
	"#E91E63",
	"#9C27B0",
	"#00BCD4",
}

// PaletteSize is the number of palette entries.
const PaletteSize = len(Palette)

// PaletteColor returns the color for the ingredient at position i.
func PaletteColor(i int) string {
	idx := i % PaletteSize
	if idx < 0 {
		idx += PaletteSize
	}
	return Palette[idx]
}

// placeholderRow is the compact source for one placeholder ingredient.
type placeholderRow struct {
	name                string
	weight, calories    float64
	protein, carbs, fat float64
	confidence          int
}

var placeholderRows = [...]placeholderRow{
	{name: "Grilled Chicken Breast", weight: 150, calories: 248, protein: 46.5, carbs: 0, fat: 5.4, confidence: 94},
	{name: "Brown Rice", weight: 180, calories: 218, protein: 4.5, carbs: 45.8, fat: 1.6, confidence: 88},
	{name: "Steamed Broccoli", weight: 90, calories: 31, protein: 2.5, carbs: 6.0, fat: 0.3, confidence: 91},
	{name: "Olive Oil", weight: 10, calories: 88, protein: 0, carbs: 0, fat: 10, confidence: 76},
}

// PlaceholderIngredients returns a fresh copy of the fixed fallback set.
// Callers may mutate the result freely.
func PlaceholderIngredients() []model.NormalizedIngredient {
	out := make([]model.NormalizedIngredient, len(placeholderRows))
	for i, row := range placeholderRows {
		protein, carbs, fat, confidence := row.protein, row.carbs, row.fat, row.confidence
		out[i] = model.NormalizedIngredient{
			Name:       row.name,
			Weight:     row.weight,
			Calories:   row.calories,
			Protein:    &protein,
			Carbs:      &carbs,
			Fat:        &fat,
			Confidence: &confidence,
			Color:      PaletteColor(i),
		}
	}
	return out
}
