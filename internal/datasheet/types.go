// Package datasheet defines the contract between the widget core and the
// host record store. The core never talks to a concrete backend directly;
// it sees fields, records with loosely-typed cell values, and a write API.
package datasheet

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType describes the host-side type of a field.
type FieldType string

const (
	FieldTypeText         FieldType = "Text"
	FieldTypeSingleText   FieldType = "SingleText"
	FieldTypeSingleSelect FieldType = "SingleSelect"
	FieldTypeNumber       FieldType = "Number"
	FieldTypeCurrency     FieldType = "Currency"
	FieldTypeDateTime     FieldType = "DateTime"
	FieldTypeCreatedTime  FieldType = "CreatedTime"
	FieldTypeCheckbox     FieldType = "Checkbox"
	FieldTypeLink         FieldType = "Link"
)

// Field is one column of a view, as reported by the host.
type Field struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Record is one row of a view. Cells holds the raw cell values keyed by
// field ID; values are whatever the host produced (string, float64, bool,
// or a []interface{} of linked-entity maps for link fields).
type Record struct {
	ID    string                 `json:"id"`
	Cells map[string]interface{} `json:"cells"`
}

// CellValue returns the raw cell value for a field, or nil when absent.
func (r Record) CellValue(fieldID string) interface{} {
	if r.Cells == nil {
		return nil
	}
	return r.Cells[fieldID]
}

// CellValueString returns the cell value coerced to a display string,
// or "" when the cell is absent or empty.
func (r Record) CellValueString(fieldID string) string {
	return CoerceString(r.CellValue(fieldID))
}

// CoerceString converts a raw cell value to a display string. Numbers keep
// their shortest representation, booleans become "true"/"false", and linked
// lists join their entry names with ", ".
func CoerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := CoerceString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		for _, key := range []string{"title", "name", "text", "value"} {
			if s := CoerceString(val[key]); s != "" {
				return s
			}
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// CoerceNumber converts a raw cell value to a float64. Non-numeric or
// missing values coerce to 0; a bad amount cell never fails a refresh.
func CoerceNumber(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// CoerceBool converts a raw cell value to a bool. Checkbox cells arrive as
// bool; anything else follows JS-style truthiness for the common shapes.
func CoerceBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val == "true" || val == "1" || val == "checked"
	default:
		return false
	}
}
