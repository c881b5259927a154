// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueAccessToken(subject string, scopes []string) (*dto.TokenResponse, error) {
	args := m.Called(subject, scopes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*dto.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}
