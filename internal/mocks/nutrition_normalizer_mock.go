// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/nutrition-service/internal/domain/model"
)

type MockNutritionNormalizer struct {
	mock.Mock
}

func (m *MockNutritionNormalizer) Summarize(raw *model.RawAnalysisResult, source string) model.NutritionSummary {
	args := m.Called(raw, source)
	return args.Get(0).(model.NutritionSummary)
}

func (m *MockNutritionNormalizer) SummarizePayload(payload []byte, source string) model.NutritionSummary {
	args := m.Called(payload, source)
	return args.Get(0).(model.NutritionSummary)
}

func (m *MockNutritionNormalizer) InvalidateCache() {
	m.Called()
}
