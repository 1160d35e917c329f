package datasheet

import "testing"

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string trims", "  hi  ", "hi"},
		{"float drops trailing zeros", float64(42.50), "42.5"},
		{"int", 7, "7"},
		{"bool", true, "true"},
		{"list joins names", []interface{}{
			map[string]interface{}{"title": "Milk"},
			map[string]interface{}{"name": "Bread"},
		}, "Milk, Bread"},
		{"map title wins over name", map[string]interface{}{"title": "A", "name": "B"}, "A"},
		{"map falls back to value", map[string]interface{}{"value": "X"}, "X"},
		{"map with no known key", map[string]interface{}{"foo": "bar"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceString(tt.in); got != tt.want {
				t.Errorf("CoerceString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"float", float64(3.5), 3.5},
		{"int", 4, 4},
		{"numeric string", " 12.25 ", 12.25},
		{"bad string", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceNumber(tt.in); got != tt.want {
				t.Errorf("CoerceNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		in   interface{}
		want bool
	}{
		{true, true},
		{false, false},
		{float64(1), true},
		{float64(0), false},
		{"true", true},
		{"1", true},
		{"checked", true},
		{"no", false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := CoerceBool(tt.in); got != tt.want {
			t.Errorf("CoerceBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRecordCellValue(t *testing.T) {
	rec := Record{ID: "r1", Cells: map[string]interface{}{"fld1": "hello"}}
	if got := rec.CellValue("fld1"); got != "hello" {
		t.Errorf("CellValue() = %v", got)
	}
	if got := rec.CellValue("missing"); got != nil {
		t.Errorf("CellValue(missing) = %v, want nil", got)
	}

	empty := Record{ID: "r2"}
	if got := empty.CellValueString("fld1"); got != "" {
		t.Errorf("CellValueString on nil cells = %q, want empty", got)
	}
}
