// Package model defines the core domain entities for the nutrition service.
package model

// NormalizedIngredient is a fully populated, display-ready ingredient.
//
// Protein, Carbs and Fat are nil when the analysis did not report them, which is
// distinct from an explicit zero. Confidence is an integer percentage in [0,100]
// or nil when unknown.
//
// @Description Normalized ingredient ready for rendering
type NormalizedIngredient struct {
	Name       string   `json:"name" example:"Egg"`
	Weight     float64  `json:"weight" example:"50"`
	Calories   float64  `json:"calories" example:"70"`
	Protein    *float64 `json:"protein" example:"6"`
	Carbs      *float64 `json:"carbs" example:"0.6"`
	Fat        *float64 `json:"fat" example:"5"`
	Confidence *int     `json:"confidence" example:"92"`
	Color      string   `json:"color" example:"#4CAF50"`
} // @name NormalizedIngredient

// NutritionTotals holds sums over normalized ingredients.
// Unknown macros contribute 0 to the sums.
//
// @Description Aggregated calories and macronutrients
type NutritionTotals struct {
	Calories float64 `json:"calories" example:"70"`
	Protein  float64 `json:"protein" example:"6"`
	Carbs    float64 `json:"carbs" example:"0"`
	Fat      float64 `json:"fat" example:"0"`
} // @name NutritionTotals

// MacroAvailability reports, per macro, whether at least one ingredient has a known value.
//
// @Description Whether an aggregate or a placeholder dash should be shown per macro
type MacroAvailability struct {
	Protein bool `json:"protein" example:"true"`
	Carbs   bool `json:"carbs" example:"false"`
	Fat     bool `json:"fat" example:"false"`
} // @name MacroAvailability

// NutritionSummary is the complete view-model derived from one analysis result.
//
// @Description Normalized nutrition breakdown for one analyzed photo
type NutritionSummary struct {
	Ingredients            []NormalizedIngredient `json:"ingredients"`
	Totals                 NutritionTotals        `json:"totals"`
	MacroAvailability      MacroAvailability      `json:"macro_availability"`
	DisplayedTotalCalories float64                `json:"displayed_total_calories" example:"320"`
	// Placeholder is true when the fixed fallback set was substituted.
	Placeholder bool `json:"placeholder" example:"false"`
} // @name NutritionSummary

// Clone returns a deep copy of the ingredient.
func (i NormalizedIngredient) Clone() NormalizedIngredient {
	i.Protein = cloneFloat(i.Protein)
	i.Carbs = cloneFloat(i.Carbs)
	i.Fat = cloneFloat(i.Fat)
	if i.Confidence != nil {
		c := *i.Confidence
		i.Confidence = &c
	}
	return i
}

// Clone returns a deep copy of the summary, so cached values are never shared with callers.
func (s NutritionSummary) Clone() NutritionSummary {
	if s.Ingredients != nil {
		ingredients := make([]NormalizedIngredient, len(s.Ingredients))
		for i, ing := range s.Ingredients {
			ingredients[i] = ing.Clone()
		}
		s.Ingredients = ingredients
	}
	return s
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
