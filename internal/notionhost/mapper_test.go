package notionhost

import (
	"testing"

	"github.com/jomei/notionapi"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

func TestCellFromProperty(t *testing.T) {
	tests := []struct {
		name string
		prop notionapi.Property
		want interface{}
	}{
		{
			name: "title",
			prop: &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Grocery Run"}}},
			want: "Grocery Run",
		},
		{
			name: "rich text joins segments",
			prop: &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "Super"}, {PlainText: "Mart"}}},
			want: "SuperMart",
		},
		{
			name: "number",
			prop: &notionapi.NumberProperty{Number: 42.5},
			want: 42.5,
		},
		{
			name: "select",
			prop: &notionapi.SelectProperty{Select: notionapi.Option{Name: "Expense"}},
			want: "Expense",
		},
		{
			name: "checkbox",
			prop: &notionapi.CheckboxProperty{Checkbox: true},
			want: true,
		},
		{
			name: "empty date",
			prop: &notionapi.DateProperty{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellFromProperty(tt.prop, nil); got != tt.want {
				t.Errorf("cellFromProperty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCellFromProperty_Relation(t *testing.T) {
	prop := &notionapi.RelationProperty{
		Relation: []notionapi.Relation{{ID: "p1"}, {ID: "p2"}},
	}
	resolve := func(pageID string) string {
		if pageID == "p1" {
			return "Milk"
		}
		return ""
	}

	got, ok := cellFromProperty(prop, resolve).([]interface{})
	if !ok || len(got) != 2 {
		t.Fatalf("cellFromProperty() = %v, want 2 link entries", got)
	}

	first := got[0].(map[string]interface{})
	if first["id"] != "p1" || first["title"] != "Milk" {
		t.Errorf("first entry = %v", first)
	}
	second := got[1].(map[string]interface{})
	if second["id"] != "p2" {
		t.Errorf("second entry = %v", second)
	}
	if _, hasTitle := second["title"]; hasTitle {
		t.Error("unresolved title should be omitted from the entry")
	}
}

func TestPropertyFromValue(t *testing.T) {
	if p := propertyFromValue(datasheet.FieldTypeCheckbox, false); p == nil {
		t.Error("checkbox false must still produce a property")
	} else if cb, ok := p.(notionapi.CheckboxProperty); !ok || cb.Checkbox {
		t.Errorf("checkbox property = %+v, want unchecked", p)
	}

	if p := propertyFromValue(datasheet.FieldTypeNumber, float64(60)); p == nil {
		t.Fatal("number property missing")
	} else if np := p.(notionapi.NumberProperty); np.Number != 60 {
		t.Errorf("number = %v, want 60", np.Number)
	}

	if p := propertyFromValue(datasheet.FieldTypeLink, []string{"p1"}); p == nil {
		t.Fatal("relation property missing")
	} else if rp := p.(notionapi.RelationProperty); len(rp.Relation) != 1 || rp.Relation[0].ID != "p1" {
		t.Errorf("relation = %+v", rp.Relation)
	}

	if p := propertyFromValue(datasheet.FieldTypeLink, []string{}); p != nil {
		t.Errorf("empty link list should map to no property, got %+v", p)
	}

	if p := propertyFromValue(datasheet.FieldTypeDateTime, "not a date"); p != nil {
		t.Errorf("unparseable date should map to no property, got %+v", p)
	}

	if p := propertyFromValue(datasheet.FieldTypeDateTime, "2026-08-01"); p == nil {
		t.Error("parseable date should produce a property")
	}
}
