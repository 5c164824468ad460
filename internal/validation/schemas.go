package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Schemas are compiled into the binary so request validation never
// depends on a schema directory being deployed alongside it.
const studyPlanRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "study-plan-request",
	"type": "object",
	"required": ["company_id", "role_family", "timeline_days", "hours_per_day"],
	"properties": {
		"company_id": {
			"type": "string",
			"minLength": 1
		},
		"role_family": {
			"type": "string",
			"enum": ["backend", "frontend", "ml", "security", "devops"]
		},
		"timeline_days": {
			"type": "integer",
			"minimum": 1,
			"maximum": 90
		},
		"hours_per_day": {
			"type": "number",
			"minimum": 0.5,
			"maximum": 8
		},
		"difficulty": {
			"type": "array",
			"items": {
				"type": "string",
				"enum": ["Easy", "Medium", "Hard"]
			},
			"uniqueItems": true
		},
		"topic_focus": {
			"type": "array",
			"items": {
				"type": "string",
				"minLength": 1
			},
			"maxItems": 5
		},
		"blind75_only": {
			"type": "boolean"
		}
	},
	"additionalProperties": false
}`

const authRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "auth-request",
	"type": "object",
	"required": ["api_key"],
	"properties": {
		"api_key": {
			"type": "string",
			"minLength": 1
		}
	},
	"additionalProperties": false
}`

// SchemaValidator handles JSON schema validation for API requests
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the embedded schemas
func NewSchemaValidator() (*SchemaValidator, error) {
	sources := map[string]string{
		"study-plan-request": studyPlanRequestSchema,
		"auth-request":       authRequestSchema,
	}

	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
	}

	for name, source := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}

	return sv, nil
}

// ValidateStudyPlanRequest validates a plan request body against its schema
func (sv *SchemaValidator) ValidateStudyPlanRequest(data interface{}) *ValidationResult {
	return sv.validate("study-plan-request", data)
}

// ValidateAuthRequest validates an auth request body against its schema
func (sv *SchemaValidator) ValidateAuthRequest(data interface{}) *ValidationResult {
	return sv.validate("auth-request", data)
}

// validate performs the actual validation against a named schema
func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
					Code:    "JSON_MARSHAL_ERROR",
				}},
			}
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: fmt.Sprintf("Validation error: %v", err),
				Code:    "VALIDATION_ERROR",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}

	if !result.Valid() {
		for _, err := range result.Errors() {
			validationResult.Errors = append(validationResult.Errors, ValidationError{
				Field:   err.Field(),
				Message: err.Description(),
				Code:    "VALIDATION_ERROR",
				Value:   err.Value(),
				Context: err.Context().String(),
			})
		}
	}

	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ToAPIError converts validation errors to API error format
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	errorDetails := make(map[string]interface{})
	errorDetails["validationErrors"] = vr.Errors

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	if len(fieldErrors) > 0 {
		errorDetails["fieldErrors"] = fieldErrors
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": errorDetails,
		},
	}
}
