package entities

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// VariableType is the declared data type of a template variable
type VariableType string

const (
	VariableTypeString  VariableType = "string"
	VariableTypeNumber  VariableType = "number"
	VariableTypeDate    VariableType = "date"
	VariableTypeBoolean VariableType = "boolean"
)

// DateLayout is the canonical layout for date variables
const DateLayout = "2006-01-02"

// IsValid reports whether t is one of the supported variable types
func (t VariableType) IsValid() bool {
	switch t {
	case VariableTypeString, VariableTypeNumber, VariableTypeDate, VariableTypeBoolean:
		return true
	}
	return false
}

// VariableDef declares one variable of a contract template
type VariableDef struct {
	Key      string       `json:"key"`
	Type     VariableType `json:"type"`
	Required bool         `json:"required"`
}

// VariableValue is a variable value normalized to its declared type.
// Exactly one of the value fields is meaningful, selected by Type.
type VariableValue struct {
	Type    VariableType `json:"type"`
	String  string       `json:"string,omitempty"`
	Number  float64      `json:"number,omitempty"`
	Date    string       `json:"date,omitempty"` // DateLayout
	Boolean bool         `json:"boolean,omitempty"`
}

// VariableValues is a validated, normalized variable map keyed by variable key
type VariableValues map[string]VariableValue

// Text returns the textual representation substituted into the rendered body
func (v VariableValue) Text() string {
	switch v.Type {
	case VariableTypeNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case VariableTypeDate:
		return v.Date
	case VariableTypeBoolean:
		return strconv.FormatBool(v.Boolean)
	default:
		return v.String
	}
}

// StringValue builds a normalized string value
func StringValue(s string) VariableValue {
	return VariableValue{Type: VariableTypeString, String: s}
}

// NumberValue builds a normalized number value
func NumberValue(n float64) VariableValue {
	return VariableValue{Type: VariableTypeNumber, Number: n}
}

// DateValue builds a normalized date value
func DateValue(t time.Time) VariableValue {
	return VariableValue{Type: VariableTypeDate, Date: t.Format(DateLayout)}
}

// BooleanValue builds a normalized boolean value
func BooleanValue(b bool) VariableValue {
	return VariableValue{Type: VariableTypeBoolean, Boolean: b}
}

// ContractTemplate is a reusable contract definition: declared variables plus
// a body containing {{key}} placeholders
type ContractTemplate struct {
	ID          uuid.UUID     `json:"id"`
	SKU         string        `json:"sku"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Variables   []VariableDef `json:"variables"`
	Body        string        `json:"body"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	DeletedAt   *time.Time    `json:"-"`
}
