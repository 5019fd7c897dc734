package util

import "fmt"

// ValidationError represents parameter validation errors with detailed
// information about the offending field.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ParamSpec describes a single tool parameter: its JSON type, an optional
// default applied when the argument is absent, and a description exposed
// to planners.
type ParamSpec struct {
	Type        string `json:"type"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Schema maps parameter names to their specs.
type Schema map[string]ParamSpec

// ApplyDefaults returns a copy of args with defaults filled in for absent
// parameters that declare one. The input map is never mutated.
func ApplyDefaults(args map[string]any, schema Schema) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for name, spec := range schema {
		if _, ok := out[name]; !ok && spec.Default != nil {
			out[name] = spec.Default
		}
	}
	return out
}

// ValidateArgs checks provided arguments against a schema. Parameters
// without a default are required; extra arguments are allowed. Type
// checking covers the JSON type vocabulary (string, integer, number,
// boolean, array, object).
func ValidateArgs(args map[string]any, schema Schema) error {
	for name, spec := range schema {
		v, present := args[name]
		if !present {
			if spec.Default == nil {
				return &ValidationError{Field: name, Message: "required field is missing"}
			}
			continue
		}
		if !isValidType(v, spec.Type) {
			return &ValidationError{
				Field:   name,
				Value:   v,
				Message: fmt.Sprintf("expected type %s, got %T", spec.Type, v),
			}
		}
	}
	return nil
}

// isValidType checks a value against the expected JSON schema type.
func isValidType(value any, expectedType string) bool {
	if value == nil {
		return true
	}
	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64: // JSON unmarshaling produces float64 for numbers
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true // Unknown types are assumed valid
	}
}
