// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import "slices"

// Access token scopes.
const (
	// ScopeNutrition grants access to the nutrition endpoints.
	ScopeNutrition = "nutrition"
	// ScopeLogs grants read access to the activity log.
	ScopeLogs = "logs:read"
)

// KnownScopes lists every scope a token may carry.
var KnownScopes = []string{ScopeNutrition, ScopeLogs}

// TokenRequest is the optional JSON body of the token exchange endpoint.
// An empty scope list requests the default nutrition scope.
//
// @Description Request to exchange an API key for a short-lived bearer token
type TokenRequest struct {
	Scopes []string `json:"scopes,omitempty" example:"nutrition"`
} // @name TokenRequest

// Validate rejects unknown scopes.
func (r *TokenRequest) Validate() error {
	for _, s := range r.Scopes {
		if !slices.Contains(KnownScopes, s) {
			return &ValidationError{
				Field:   "scopes",
				Message: "unknown scope " + s,
			}
		}
	}
	return nil
}

// RequestedScopes returns the scopes to grant, defaulting to ScopeNutrition.
func (r *TokenRequest) RequestedScopes() []string {
	if len(r.Scopes) == 0 {
		return []string{ScopeNutrition}
	}
	scopes := slices.Clone(r.Scopes)
	slices.Sort(scopes)
	return slices.Compact(scopes)
}

// TokenResponse represents the JSON response body of the token exchange endpoint.
//
// @Description Bearer token issued for an API key
type TokenResponse struct {
	AccessToken string   `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string   `json:"token_type" example:"Bearer"`
	ExpiresIn   int64    `json:"expires_in" example:"900"` // seconds
	Scopes      []string `json:"scopes" example:"nutrition"`
} // @name TokenResponse

// Claims is the validated content of an access token.
type Claims struct {
	Subject string   `json:"sub"`
	Scopes  []string `json:"scopes"`
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return c != nil && slices.Contains(c.Scopes, scope)
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
