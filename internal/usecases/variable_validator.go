package usecases

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/domain/errors"
)

// ValidateVariables checks a raw variable map against a template schema and
// returns the values normalized to their declared types. The normalized map,
// not the raw input, is what gets persisted and rendered.
//
// Pure; safe to call speculatively before committing to issuance.
func ValidateVariables(schema []entities.VariableDef, values map[string]interface{}) (entities.VariableValues, error) {
	defs := make(map[string]entities.VariableDef, len(schema))
	for _, def := range schema {
		defs[def.Key] = def
	}

	// unknown keys first, in stable order
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := defs[k]; !ok {
			return nil, errors.UnknownVariable(k)
		}
	}

	normalized := make(entities.VariableValues, len(schema))
	for _, def := range schema {
		raw, present := values[def.Key]
		if !present || isEmptyValue(raw) {
			if def.Required {
				return nil, errors.MissingRequiredVariable(def.Key)
			}
			continue
		}
		value, err := coerceValue(def, raw)
		if err != nil {
			return nil, err
		}
		normalized[def.Key] = value
	}
	return normalized, nil
}

func isEmptyValue(raw interface{}) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func coerceValue(def entities.VariableDef, raw interface{}) (entities.VariableValue, error) {
	switch def.Type {
	case entities.VariableTypeString:
		s, ok := raw.(string)
		if !ok {
			return entities.VariableValue{}, mismatch(def, raw)
		}
		return entities.StringValue(s), nil

	case entities.VariableTypeNumber:
		switch v := raw.(type) {
		case float64:
			return entities.NumberValue(v), nil
		case int:
			return entities.NumberValue(float64(v)), nil
		case int64:
			return entities.NumberValue(float64(v)), nil
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return entities.VariableValue{}, mismatch(def, raw)
			}
			return entities.NumberValue(f), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return entities.VariableValue{}, mismatch(def, raw)
			}
			return entities.NumberValue(f), nil
		}
		return entities.VariableValue{}, mismatch(def, raw)

	case entities.VariableTypeDate:
		switch v := raw.(type) {
		case time.Time:
			return entities.DateValue(v), nil
		case string:
			s := strings.TrimSpace(v)
			if t, err := time.Parse(entities.DateLayout, s); err == nil {
				return entities.DateValue(t), nil
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return entities.DateValue(t), nil
			}
		}
		return entities.VariableValue{}, mismatch(def, raw)

	case entities.VariableTypeBoolean:
		switch v := raw.(type) {
		case bool:
			return entities.BooleanValue(v), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true":
				return entities.BooleanValue(true), nil
			case "false":
				return entities.BooleanValue(false), nil
			}
		}
		return entities.VariableValue{}, mismatch(def, raw)
	}
	return entities.VariableValue{}, errors.TypeMismatch(def.Key, string(def.Type), describeValue(raw))
}

func mismatch(def entities.VariableDef, raw interface{}) *errors.ValidationError {
	return errors.TypeMismatch(def.Key, string(def.Type), describeValue(raw))
}

func describeValue(raw interface{}) string {
	switch raw.(type) {
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case time.Time:
		return "date"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
