package service

import (
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/guttosm/nutrition-service/internal/domain/model"
	"github.com/guttosm/nutrition-service/internal/metrics"
	"github.com/guttosm/nutrition-service/internal/service/cache"
)

// Analysis sources recorded on the normalization metrics.
const (
	SourcePayload  = "payload"
	SourceAnalyzer = "analyzer"
	SourceMCP      = "mcp"
)

// NormalizeIngredients maps a raw result onto display-ready ingredients.
// A nil result or one without an ingredient list yields the placeholder set.
// The input is never modified.
func NormalizeIngredients(raw *model.RawAnalysisResult) []model.NormalizedIngredient {
	if IsPlaceholder(raw) {
		return PlaceholderIngredients()
	}

	out := make([]model.NormalizedIngredient, len(raw.Ingredients))
	for i, ing := range raw.Ingredients {
		out[i] = normalizeIngredient(i, ing)
	}
	return out
}

// IsPlaceholder reports whether raw lacks a usable ingredient list.
// An empty list is treated like a missing one so the result is never empty.
func IsPlaceholder(raw *model.RawAnalysisResult) bool {
	return raw == nil || len(raw.Ingredients) == 0
}

func normalizeIngredient(i int, ing model.RawIngredient) model.NormalizedIngredient {
	name := "Ingredient " + strconv.Itoa(i+1)
	if ing.Name != nil && *ing.Name != "" {
		name = *ing.Name
	}

	return model.NormalizedIngredient{
		Name:       name,
		Weight:     valueOrZero(firstOf(ing.WeightG, ing.Weight)),
		Calories:   valueOrZero(firstOf(ing.CaloriesKcal, ing.Calories)),
		Protein:    copyOf(firstOf(ing.ProteinG, ing.Protein)),
		Carbs:      copyOf(firstOf(ing.CarbsG, ing.Carbs)),
		Fat:        copyOf(firstOf(ing.FatG, ing.Fat)),
		Confidence: NormalizeConfidence(ing.Confidence),
		Color:      PaletteColor(i),
	}
}

// NormalizeConfidence converts a raw confidence to an integer percentage.
// Values <= 1 are read as fractions, so an actual 1% reads as 100%.
// The result is clamped to [0,100]; nil or non-finite input yields nil.
func NormalizeConfidence(raw *float64) *int {
	if raw == nil || math.IsNaN(*raw) || math.IsInf(*raw, 0) {
		return nil
	}

	pct := *raw
	if pct <= 1 {
		pct *= 100
	}
	pct = math.Max(0, math.Min(100, pct))

	v := int(roundHalfUp(pct))
	return &v
}

// ComputeTotals sums calories and macros. Unknown macros count as 0.
func ComputeTotals(ingredients []model.NormalizedIngredient) model.NutritionTotals {
	var totals model.NutritionTotals
	for _, ing := range ingredients {
		totals.Calories += ing.Calories
		totals.Protein += valueOrZero(ing.Protein)
		totals.Carbs += valueOrZero(ing.Carbs)
		totals.Fat += valueOrZero(ing.Fat)
	}
	return totals
}

// ComputeMacroAvailability reports which macros have at least one known value.
// An explicit zero counts as known.
func ComputeMacroAvailability(ingredients []model.NormalizedIngredient) model.MacroAvailability {
	var avail model.MacroAvailability
	for _, ing := range ingredients {
		avail.Protein = avail.Protein || ing.Protein != nil
		avail.Carbs = avail.Carbs || ing.Carbs != nil
		avail.Fat = avail.Fat || ing.Fat != nil
	}
	return avail
}

// ResolveDisplayedTotalCalories prefers the analysis' own total over the computed sum.
// Both are rounded to the nearest integer. The two may differ; that is not an error.
func ResolveDisplayedTotalCalories(raw *model.RawAnalysisResult, totals model.NutritionTotals) float64 {
	if raw != nil && raw.TotalCalories != nil {
		return roundHalfUp(*raw.TotalCalories)
	}
	return roundHalfUp(totals.Calories)
}

// BuildSummary runs the whole pipeline for one raw result.
func BuildSummary(raw *model.RawAnalysisResult) model.NutritionSummary {
	ingredients := NormalizeIngredients(raw)
	totals := ComputeTotals(ingredients)

	return model.NutritionSummary{
		Ingredients:            ingredients,
		Totals:                 totals,
		MacroAvailability:      ComputeMacroAvailability(ingredients),
		DisplayedTotalCalories: ResolveDisplayedTotalCalories(raw, totals),
		Placeholder:            IsPlaceholder(raw),
	}
}

// roundHalfUp rounds to the nearest integer with halves going towards +Inf.
// math.Round is exact at float edges but rounds negative halves away from zero.
func roundHalfUp(x float64) float64 {
	r := math.Round(x)
	if x < 0 && r-x == -0.5 {
		r++
	}
	return r
}

func firstOf(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func copyOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// NutritionNormalizer defines the normalization operations exposed to transports.
type NutritionNormalizer interface {
	// Summarize normalizes an already decoded result. source labels the metrics.
	Summarize(raw *model.RawAnalysisResult, source string) model.NutritionSummary
	// SummarizePayload decodes a raw JSON payload leniently and normalizes it.
	// Identical payloads are served from the cache when one is configured.
	SummarizePayload(payload []byte, source string) model.NutritionSummary
	// InvalidateCache drops every memoized summary.
	InvalidateCache()
}

// NormalizerOption configures a NutritionNormalizerService.
type NormalizerOption func(*NutritionNormalizerService)

// NutritionNormalizerService implements NutritionNormalizer.
type NutritionNormalizerService struct {
	cache cache.Cache
}

// NewNutritionNormalizerService creates a normalizer with the given options.
func NewNutritionNormalizerService(opts ...NormalizerOption) *NutritionNormalizerService {
	s := &NutritionNormalizerService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCache memoizes summaries by payload digest with the given capacity and TTL.
func WithCache(capacity int, ttl time.Duration) NormalizerOption {
	return func(s *NutritionNormalizerService) {
		if capacity > 0 {
			s.cache = NewShardedCache(capacity, ttl, defaultShardCount)
		}
	}
}

// WithCacheInterface injects a custom cache implementation.
func WithCacheInterface(c cache.Cache) NormalizerOption {
	return func(s *NutritionNormalizerService) {
		s.cache = c
	}
}

// Summarize normalizes raw and records the outcome.
func (s *NutritionNormalizerService) Summarize(raw *model.RawAnalysisResult, source string) model.NutritionSummary {
	start := time.Now()
	summary := BuildSummary(raw)
	metrics.RecordNormalization(source, summary.Placeholder, len(summary.Ingredients), time.Since(start))
	return summary
}

// SummarizePayload decodes payload and normalizes it, consulting the cache first.
// Callers receive their own copy and may mutate it.
func (s *NutritionNormalizerService) SummarizePayload(payload []byte, source string) model.NutritionSummary {
	if s.cache == nil {
		return s.Summarize(model.ParseRawAnalysisResult(payload), source)
	}

	key := PayloadDigest(payload)
	if cached, ok := s.cache.Get(key); ok {
		return cached.Clone()
	}

	summary := s.Summarize(model.ParseRawAnalysisResult(payload), source)
	s.cache.Set(key, summary.Clone())
	return summary
}

// InvalidateCache clears the summary cache, if any.
func (s *NutritionNormalizerService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Close releases the cache's background resources.
func (s *NutritionNormalizerService) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

// CacheMetrics reports cache counters when the cache exposes them.
func (s *NutritionNormalizerService) CacheMetrics() (cache.Metrics, bool) {
	if c, ok := s.cache.(cache.CacheWithMetrics); ok {
		return c.Metrics(), true
	}
	return cache.Metrics{}, false
}

// PayloadDigest returns the cache key for a raw payload.
func PayloadDigest(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}
