package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_ValidStudyPlanRequest(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	body := `{
		"company_id": "acme",
		"role_family": "backend",
		"timeline_days": 14,
		"hours_per_day": 2,
		"difficulty": ["Easy", "Medium"],
		"topic_focus": ["graphs"],
		"blind75_only": true
	}`

	result := sv.ValidateStudyPlanRequest(body)
	assert.True(t, result.Valid, "errors: %v", result.Errors)
}

func TestSchemaValidator_InvalidStudyPlanRequests(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing required fields",
			body: `{"company_id": "acme"}`,
		},
		{
			name: "unknown role family",
			body: `{"company_id": "acme", "role_family": "wizard", "timeline_days": 14, "hours_per_day": 2}`,
		},
		{
			name: "timeline out of range",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 120, "hours_per_day": 2}`,
		},
		{
			name: "hours below minimum",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 14, "hours_per_day": 0.1}`,
		},
		{
			name: "unknown difficulty level",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 14, "hours_per_day": 2, "difficulty": ["Trivial"]}`,
		},
		{
			name: "too many focus topics",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 14, "hours_per_day": 2, "topic_focus": ["a","b","c","d","e","f"]}`,
		},
		{
			name: "unexpected field",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 14, "hours_per_day": 2, "surprise": true}`,
		},
		{
			name: "fractional timeline",
			body: `{"company_id": "acme", "role_family": "backend", "timeline_days": 7.5, "hours_per_day": 2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateStudyPlanRequest(tt.body)
			assert.False(t, result.Valid)
			assert.NotEmpty(t, result.Errors)
		})
	}
}

func TestSchemaValidator_AuthRequest(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.True(t, sv.ValidateAuthRequest(`{"api_key": "prepforge-free-key"}`).Valid)
	assert.False(t, sv.ValidateAuthRequest(`{}`).Valid)
	assert.False(t, sv.ValidateAuthRequest(`{"api_key": ""}`).Valid)
}

func TestValidationResult_ToAPIError(t *testing.T) {
	sv, err := NewSchemaValidator()
	require.NoError(t, err)

	result := sv.ValidateStudyPlanRequest(`{"company_id": "acme"}`)
	require.False(t, result.Valid)

	apiError := result.ToAPIError()
	require.NotNil(t, apiError)

	errorBody, ok := apiError["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errorBody["code"])
}

func TestValidationResult_ToAPIErrorNilWhenValid(t *testing.T) {
	result := &ValidationResult{Valid: true}
	assert.Nil(t, result.ToAPIError())
}
