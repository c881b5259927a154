package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
)

// RawIngredient is one ingredient as reported by the analysis service.
// Every field is optional; nil means the value was absent or not of the expected JSON kind.
type RawIngredient struct {
	Name         *string  `json:"name,omitempty"`
	WeightG      *float64 `json:"weight_g,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	CaloriesKcal *float64 `json:"calories_kcal,omitempty"`
	Calories     *float64 `json:"calories,omitempty"`
	ProteinG     *float64 `json:"protein_g,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	CarbsG       *float64 `json:"carbs_g,omitempty"`
	Carbs        *float64 `json:"carbs,omitempty"`
	FatG         *float64 `json:"fat_g,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
	// Confidence is either a fraction in [0,1] or a percentage in [0,100].
	Confidence *float64 `json:"confidence,omitempty"`
}

// RawAnalysisResult is the untrusted payload returned by the photo analysis service.
// Ingredients is nil when the field was absent or was not a JSON array.
type RawAnalysisResult struct {
	TotalCalories *float64        `json:"total_calories,omitempty"`
	Ingredients   []RawIngredient `json:"ingredients,omitempty"`
}

// ParseRawAnalysisResult decodes a payload leniently.
// It returns nil when the payload is not valid JSON, is null, or is not a JSON object.
// A number outside the float64 range only drops its own field.
func ParseRawAnalysisResult(data []byte) *RawAnalysisResult {
	v, err := decodeValue(data)
	if err != nil {
		return nil
	}
	return RawAnalysisResultFromValue(v)
}

// decodeValue decodes exactly one JSON value, keeping numbers as json.Number.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// RawAnalysisResultFromValue builds a result from an already decoded JSON value.
// Numbers may be float64 or json.Number. Non-object values yield nil.
func RawAnalysisResultFromValue(v any) *RawAnalysisResult {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	result := &RawAnalysisResult{
		TotalCalories: numberField(obj, "total_calories"),
	}

	items, ok := obj["ingredients"].([]any)
	if !ok {
		return result
	}
	result.Ingredients = make([]RawIngredient, len(items))
	for i, item := range items {
		result.Ingredients[i] = rawIngredientFromValue(item)
	}
	return result
}

// UnmarshalJSON decodes leniently: wrong kinds and unknown fields are ignored, never rejected.
func (r *RawAnalysisResult) UnmarshalJSON(data []byte) error {
	*r = RawAnalysisResult{}
	if parsed := ParseRawAnalysisResult(data); parsed != nil {
		*r = *parsed
	}
	return nil
}

// UnmarshalJSON decodes leniently; a non-object yields an ingredient with every field unknown.
func (r *RawIngredient) UnmarshalJSON(data []byte) error {
	v, err := decodeValue(data)
	if err != nil {
		*r = RawIngredient{}
		return nil
	}
	*r = rawIngredientFromValue(v)
	return nil
}

func rawIngredientFromValue(v any) RawIngredient {
	obj, ok := v.(map[string]any)
	if !ok {
		return RawIngredient{}
	}
	return RawIngredient{
		Name:         stringField(obj, "name"),
		WeightG:      numberField(obj, "weight_g"),
		Weight:       numberField(obj, "weight"),
		CaloriesKcal: numberField(obj, "calories_kcal"),
		Calories:     numberField(obj, "calories"),
		ProteinG:     numberField(obj, "protein_g"),
		Protein:      numberField(obj, "protein"),
		CarbsG:       numberField(obj, "carbs_g"),
		Carbs:        numberField(obj, "carbs"),
		FatG:         numberField(obj, "fat_g"),
		Fat:          numberField(obj, "fat"),
		Confidence:   numberField(obj, "confidence"),
	}
}

// numberField returns the value only when it is a finite JSON number.
// Numeric strings are not coerced; out-of-range literals yield nil.
func numberField(obj map[string]any, key string) *float64 {
	var f float64
	switch n := obj[key].(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func stringField(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok {
		return nil
	}
	return &s
}
