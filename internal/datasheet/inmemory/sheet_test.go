package inmemory

import (
	"context"
	"testing"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

var sheetFields = []datasheet.Field{
	{ID: "fldTitle", Name: "Title", Type: datasheet.FieldTypeSingleText},
	{ID: "fldAmount", Name: "Amount", Type: datasheet.FieldTypeNumber},
}

func TestNewSheet_AssignsMissingIDs(t *testing.T) {
	s := NewSheet(sheetFields, []datasheet.Record{
		{Cells: map[string]interface{}{"fldTitle": "a"}},
		{ID: "keep", Cells: map[string]interface{}{"fldTitle": "b"}},
	})

	recs, err := s.Records(context.Background())
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if recs[0].ID == "" {
		t.Error("missing ID was not assigned")
	}
	if recs[1].ID != "keep" {
		t.Errorf("existing ID changed to %q", recs[1].ID)
	}
}

func TestRecords_ReturnsCopies(t *testing.T) {
	s := NewSheet(sheetFields, []datasheet.Record{
		{ID: "r1", Cells: map[string]interface{}{"fldTitle": "original"}},
	})

	recs, _ := s.Records(context.Background())
	recs[0].Cells["fldTitle"] = "mutated"

	again, _ := s.Records(context.Background())
	if got := again[0].CellValueString("fldTitle"); got != "original" {
		t.Errorf("stored record was mutated through the returned copy: %q", got)
	}
}

func TestAddRecords(t *testing.T) {
	s := NewSheet(sheetFields, nil)

	ids, err := s.AddRecords(context.Background(), []datasheet.RecordData{
		{ValuesMap: map[string]interface{}{"fldTitle": "new", "fldAmount": float64(5)}},
	})
	if err != nil {
		t.Fatalf("AddRecords() error: %v", err)
	}
	if len(ids) != 1 || ids[0] == "" {
		t.Fatalf("ids = %v", ids)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestAddRecords_UnknownField(t *testing.T) {
	s := NewSheet(sheetFields, nil)

	check := s.CheckPermissionsForAddRecords([]datasheet.RecordData{
		{ValuesMap: map[string]interface{}{"bogus": 1}},
	})
	if check.Acceptable {
		t.Error("unknown field should not be acceptable")
	}

	if _, err := s.AddRecords(context.Background(), []datasheet.RecordData{
		{ValuesMap: map[string]interface{}{"bogus": 1}},
	}); err == nil {
		t.Error("AddRecords should fail for unknown field")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestCheckPermissions_NilValues(t *testing.T) {
	s := NewSheet(sheetFields, nil)
	check := s.CheckPermissionsForAddRecords([]datasheet.RecordData{{}})
	if check.Acceptable {
		t.Error("record with no values should not be acceptable")
	}
}
