//go:build !integration

package service

import (
	"math"
	"testing"
	"time"

	"github.com/guttosm/nutrition-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string { return &v }

func TestNormalizeIngredients_Placeholder(t *testing.T) {
	tests := []struct {
		name string
		raw  *model.RawAnalysisResult
	}{
		{name: "nil result", raw: nil},
		{name: "empty object", raw: model.ParseRawAnalysisResult([]byte(`{}`))},
		{name: "ingredients not an array", raw: model.ParseRawAnalysisResult([]byte(`{"ingredients": "not-an-array"}`))},
		{name: "empty ingredient list", raw: &model.RawAnalysisResult{Ingredients: []model.RawIngredient{}}},
		{name: "total only", raw: &model.RawAnalysisResult{TotalCalories: f64(500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := NormalizeIngredients(tt.raw)
			second := NormalizeIngredients(tt.raw)

			require.Len(t, first, 4)
			assert.Equal(t, PlaceholderIngredients(), first)
			assert.Equal(t, first, second)
		})
	}
}

func TestPlaceholderIngredients_FreshCopy(t *testing.T) {
	a := PlaceholderIngredients()
	*a[0].Protein = 999
	a[1].Name = "mutated"

	b := PlaceholderIngredients()
	assert.Equal(t, 46.5, *b[0].Protein)
	assert.Equal(t, "Brown Rice", b[1].Name)

	for i, ing := range b {
		assert.NotEmpty(t, ing.Name)
		assert.NotNil(t, ing.Protein)
		assert.NotNil(t, ing.Carbs)
		assert.NotNil(t, ing.Fat)
		require.NotNil(t, ing.Confidence)
		assert.GreaterOrEqual(t, *ing.Confidence, 0)
		assert.LessOrEqual(t, *ing.Confidence, 100)
		assert.Equal(t, Palette[i], ing.Color)
	}
}

func TestNormalizeIngredients_FieldFallbacks(t *testing.T) {
	raw := &model.RawAnalysisResult{
		Ingredients: []model.RawIngredient{
			{Name: str("Egg"), WeightG: f64(50), Weight: f64(999), CaloriesKcal: f64(70), Calories: f64(1)},
			{Name: str(""), Weight: f64(20), Calories: f64(30), Protein: f64(1), Carbs: f64(2), Fat: f64(3)},
			{},
			{ProteinG: f64(0), Protein: f64(5), CarbsG: f64(4), FatG: f64(0.5)},
		},
	}

	got := NormalizeIngredients(raw)
	require.Len(t, got, 4)

	assert.Equal(t, "Egg", got[0].Name)
	assert.Equal(t, 50.0, got[0].Weight)
	assert.Equal(t, 70.0, got[0].Calories)
	assert.Nil(t, got[0].Protein)

	assert.Equal(t, "Ingredient 2", got[1].Name)
	assert.Equal(t, 20.0, got[1].Weight)
	assert.Equal(t, 30.0, got[1].Calories)
	assert.Equal(t, 1.0, *got[1].Protein)
	assert.Equal(t, 2.0, *got[1].Carbs)
	assert.Equal(t, 3.0, *got[1].Fat)

	assert.Equal(t, "Ingredient 3", got[2].Name)
	assert.Zero(t, got[2].Weight)
	assert.Zero(t, got[2].Calories)
	assert.Nil(t, got[2].Protein)
	assert.Nil(t, got[2].Carbs)
	assert.Nil(t, got[2].Fat)
	assert.Nil(t, got[2].Confidence)

	require.NotNil(t, got[3].Protein)
	assert.Equal(t, 0.0, *got[3].Protein, "suffixed field wins even when zero")
	assert.Equal(t, 4.0, *got[3].Carbs)
	assert.Equal(t, 0.5, *got[3].Fat)
}

func TestNormalizeIngredients_DoesNotMutateInput(t *testing.T) {
	raw := &model.RawAnalysisResult{
		Ingredients: []model.RawIngredient{{Name: str("Toast"), ProteinG: f64(3), Confidence: f64(0.5)}},
	}

	got := NormalizeIngredients(raw)
	*got[0].Protein = 100

	assert.Equal(t, 3.0, *raw.Ingredients[0].ProteinG)
	assert.Equal(t, 0.5, *raw.Ingredients[0].Confidence)
}

func TestNormalizeIngredients_ColorByPosition(t *testing.T) {
	names := []string{"Egg", "Egg", "Rice", "Egg", "Beans", "Salt", "Egg", "Rice", "Tea", "Milk", "Egg", "Oat", "Egg"}
	raw := &model.RawAnalysisResult{}
	for _, n := range names {
		raw.Ingredients = append(raw.Ingredients, model.RawIngredient{Name: str(n)})
	}

	got := NormalizeIngredients(raw)
	require.Len(t, got, len(names))
	for i, ing := range got {
		assert.Equal(t, Palette[i%6], ing.Color, "index %d", i)
		assert.Equal(t, names[i], ing.Name, "order is preserved")
	}
}

func TestPaletteColor(t *testing.T) {
	assert.Equal(t, 6, PaletteSize)
	assert.Equal(t, Palette[0], PaletteColor(0))
	assert.Equal(t, Palette[5], PaletteColor(5))
	assert.Equal(t, Palette[0], PaletteColor(6))
	assert.Equal(t, Palette[1], PaletteColor(13))
	assert.Equal(t, Palette[5], PaletteColor(-1))
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		name     string
		raw      *float64
		expected *int
	}{
		{name: "fraction", raw: f64(0.92), expected: intPtr(92)},
		{name: "percentage", raw: f64(92), expected: intPtr(92)},
		{name: "above range is clamped", raw: f64(150), expected: intPtr(100)},
		{name: "negative is clamped", raw: f64(-5), expected: intPtr(0)},
		{name: "negative fraction is clamped", raw: f64(-0.05), expected: intPtr(0)},
		{name: "zero", raw: f64(0), expected: intPtr(0)},
		{name: "exactly one reads as fraction", raw: f64(1), expected: intPtr(100)},
		{name: "rounds half up", raw: f64(0.875), expected: intPtr(88)},
		{name: "rounds fractional percentage", raw: f64(45.4), expected: intPtr(45)},
		{name: "absent", raw: nil, expected: nil},
		{name: "not a number", raw: f64(math.NaN()), expected: nil},
		{name: "infinite", raw: f64(math.Inf(1)), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeConfidence(tt.raw))
		})
	}
}

func TestNormalizeIngredients_NonNumericConfidence(t *testing.T) {
	raw := model.ParseRawAnalysisResult([]byte(`{"ingredients": [{"name": "Egg", "confidence": "high"}]}`))
	got := NormalizeIngredients(raw)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Confidence)
}

func TestComputeTotals(t *testing.T) {
	ingredients := []model.NormalizedIngredient{
		{Calories: 70, Protein: f64(6)},
		{Calories: 200.5, Carbs: f64(40), Fat: f64(2)},
		{Calories: 102.9, Protein: f64(0), Fat: f64(11.5)},
	}

	got := ComputeTotals(ingredients)
	assert.InDelta(t, 373.4, got.Calories, 1e-9)
	assert.InDelta(t, 6.0, got.Protein, 1e-9)
	assert.InDelta(t, 40.0, got.Carbs, 1e-9)
	assert.InDelta(t, 13.5, got.Fat, 1e-9)

	assert.Equal(t, model.NutritionTotals{}, ComputeTotals(nil))
}

func TestComputeTotals_PermutationInvariant(t *testing.T) {
	ingredients := []model.NormalizedIngredient{
		{Calories: 10, Protein: f64(1)},
		{Calories: 20, Carbs: f64(2)},
		{Calories: 30, Fat: f64(3)},
		{Calories: 40, Protein: f64(4), Carbs: f64(4), Fat: f64(4)},
	}
	expected := ComputeTotals(ingredients)

	permutations := [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, perm := range permutations {
		shuffled := make([]model.NormalizedIngredient, len(perm))
		for i, idx := range perm {
			shuffled[i] = ingredients[idx]
		}
		got := ComputeTotals(shuffled)
		assert.InDelta(t, expected.Calories, got.Calories, 1e-9)
		assert.InDelta(t, expected.Protein, got.Protein, 1e-9)
		assert.InDelta(t, expected.Carbs, got.Carbs, 1e-9)
		assert.InDelta(t, expected.Fat, got.Fat, 1e-9)
	}
}

func TestComputeMacroAvailability(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []model.NormalizedIngredient
		expected    model.MacroAvailability
	}{
		{
			name:        "all unknown",
			ingredients: []model.NormalizedIngredient{{}, {}},
			expected:    model.MacroAvailability{},
		},
		{
			name:        "explicit zero counts as known",
			ingredients: []model.NormalizedIngredient{{}, {Protein: f64(0)}},
			expected:    model.MacroAvailability{Protein: true},
		},
		{
			name: "each macro independent",
			ingredients: []model.NormalizedIngredient{
				{Carbs: f64(3)},
				{Fat: f64(1)},
			},
			expected: model.MacroAvailability{Carbs: true, Fat: true},
		},
		{
			name:        "empty list",
			ingredients: nil,
			expected:    model.MacroAvailability{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeMacroAvailability(tt.ingredients))
		})
	}
}

func TestResolveDisplayedTotalCalories(t *testing.T) {
	tests := []struct {
		name     string
		raw      *model.RawAnalysisResult
		totals   model.NutritionTotals
		expected float64
	}{
		{name: "prefers raw total", raw: &model.RawAnalysisResult{TotalCalories: f64(500)}, totals: model.NutritionTotals{Calories: 10}, expected: 500},
		{name: "rounds raw total", raw: &model.RawAnalysisResult{TotalCalories: f64(499.5)}, totals: model.NutritionTotals{}, expected: 500},
		{name: "falls back to sum", raw: &model.RawAnalysisResult{}, totals: model.NutritionTotals{Calories: 373.4}, expected: 373},
		{name: "nil raw", raw: nil, totals: model.NutritionTotals{Calories: 584.6}, expected: 585},
		{name: "negative half rounds up", raw: &model.RawAnalysisResult{TotalCalories: f64(-2.5)}, expected: -2},
		{name: "negative below half rounds down", raw: &model.RawAnalysisResult{TotalCalories: f64(-2.6)}, expected: -3},
		{name: "largest float below half", raw: &model.RawAnalysisResult{TotalCalories: f64(0.49999999999999994)}, expected: 0},
		{name: "odd integer beyond 2^52 is kept", raw: &model.RawAnalysisResult{TotalCalories: f64(4503599627370497)}, expected: 4503599627370497},
		{name: "negative largest float below half", raw: &model.RawAnalysisResult{TotalCalories: f64(-0.49999999999999994)}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDisplayedTotalCalories(tt.raw, tt.totals))
		})
	}
}

func TestBuildSummary_EggScenario(t *testing.T) {
	raw := model.ParseRawAnalysisResult([]byte(
		`{"total_calories": 320, "ingredients": [{"name": "Egg", "calories_kcal": 70, "protein_g": 6}]}`,
	))

	summary := BuildSummary(raw)

	require.Len(t, summary.Ingredients, 1)
	assert.Equal(t, model.NormalizedIngredient{
		Name:     "Egg",
		Weight:   0,
		Calories: 70,
		Protein:  f64(6),
		Color:    Palette[0],
	}, summary.Ingredients[0])
	assert.Equal(t, model.NutritionTotals{Calories: 70, Protein: 6}, summary.Totals)
	assert.Equal(t, model.MacroAvailability{Protein: true}, summary.MacroAvailability)
	assert.Equal(t, 320.0, summary.DisplayedTotalCalories)
	assert.False(t, summary.Placeholder)
}

func TestBuildSummary_OutOfRangeFieldFallsBackAlone(t *testing.T) {
	raw := model.ParseRawAnalysisResult([]byte(
		`{"total_calories": 320, "ingredients": [{"name": "Egg", "calories_kcal": 70, "weight_g": 1e400}]}`,
	))

	summary := BuildSummary(raw)

	assert.False(t, summary.Placeholder)
	require.Len(t, summary.Ingredients, 1)
	assert.Equal(t, "Egg", summary.Ingredients[0].Name)
	assert.Equal(t, 70.0, summary.Ingredients[0].Calories)
	assert.Equal(t, 0.0, summary.Ingredients[0].Weight)
	assert.Equal(t, 320.0, summary.DisplayedTotalCalories)
}

func TestBuildSummary_PlaceholderTotals(t *testing.T) {
	summary := BuildSummary(nil)

	assert.True(t, summary.Placeholder)
	assert.Equal(t, model.MacroAvailability{Protein: true, Carbs: true, Fat: true}, summary.MacroAvailability)
	assert.InDelta(t, 585.0, summary.Totals.Calories, 1e-9)
	assert.Equal(t, 585.0, summary.DisplayedTotalCalories)
}

func TestNutritionNormalizerService_SummarizePayload(t *testing.T) {
	payload := []byte(`{"ingredients": [{"name": "Rice", "calories": 200, "carbs_g": 44}]}`)

	t.Run("without cache", func(t *testing.T) {
		svc := NewNutritionNormalizerService()
		summary := svc.SummarizePayload(payload, SourcePayload)
		require.Len(t, summary.Ingredients, 1)
		assert.Equal(t, "Rice", summary.Ingredients[0].Name)
		_, ok := svc.CacheMetrics()
		assert.False(t, ok)
	})

	t.Run("cached results are isolated copies", func(t *testing.T) {
		svc := NewNutritionNormalizerService(WithCache(16, time.Minute))
		defer svc.Close()

		first := svc.SummarizePayload(payload, SourcePayload)
		*first.Ingredients[0].Carbs = 0
		first.Ingredients[0].Name = "mutated"

		second := svc.SummarizePayload(payload, SourcePayload)
		assert.Equal(t, "Rice", second.Ingredients[0].Name)
		assert.Equal(t, 44.0, *second.Ingredients[0].Carbs)

		m, ok := svc.CacheMetrics()
		require.True(t, ok)
		assert.Equal(t, int64(1), m.Hits)
		assert.Equal(t, int64(1), m.Misses)
	})

	t.Run("invalidate clears entries", func(t *testing.T) {
		svc := NewNutritionNormalizerService(WithCache(16, time.Minute))
		defer svc.Close()

		svc.SummarizePayload(payload, SourcePayload)
		svc.InvalidateCache()

		m, _ := svc.CacheMetrics()
		assert.Equal(t, 0, m.Size)
	})

	t.Run("malformed payload yields placeholder", func(t *testing.T) {
		svc := NewNutritionNormalizerService()
		summary := svc.SummarizePayload([]byte(`not json`), SourcePayload)
		assert.True(t, summary.Placeholder)
		assert.Len(t, summary.Ingredients, 4)
	})

	t.Run("zero capacity disables cache", func(t *testing.T) {
		svc := NewNutritionNormalizerService(WithCache(0, time.Minute))
		_, ok := svc.CacheMetrics()
		assert.False(t, ok)
	})
}

func TestPayloadDigest(t *testing.T) {
	a := PayloadDigest([]byte(`{"a":1}`))
	assert.Equal(t, a, PayloadDigest([]byte(`{"a":1}`)))
	assert.NotEqual(t, a, PayloadDigest([]byte(`{"a":2}`)))
}

func intPtr(v int) *int { return &v }

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(nil))
	assert.True(t, IsPlaceholder(&model.RawAnalysisResult{TotalCalories: f64(10)}))
	assert.True(t, IsPlaceholder(&model.RawAnalysisResult{Ingredients: []model.RawIngredient{}}))
	assert.False(t, IsPlaceholder(&model.RawAnalysisResult{Ingredients: []model.RawIngredient{{}}}))
}
