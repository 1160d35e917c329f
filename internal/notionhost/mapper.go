package notionhost

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// fieldTypeFromConfig maps a Notion property schema entry to a field type.
func fieldTypeFromConfig(cfg notionapi.PropertyConfig) datasheet.FieldType {
	switch cfg.GetType() {
	case notionapi.PropertyConfigTypeTitle:
		return datasheet.FieldTypeSingleText
	case notionapi.PropertyConfigTypeRichText:
		return datasheet.FieldTypeText
	case notionapi.PropertyConfigTypeNumber:
		return datasheet.FieldTypeNumber
	case notionapi.PropertyConfigTypeSelect:
		return datasheet.FieldTypeSingleSelect
	case notionapi.PropertyConfigTypeDate:
		return datasheet.FieldTypeDateTime
	case notionapi.PropertyConfigCreatedTime:
		return datasheet.FieldTypeCreatedTime
	case notionapi.PropertyConfigTypeCheckbox:
		return datasheet.FieldTypeCheckbox
	case notionapi.PropertyConfigTypeRelation:
		return datasheet.FieldTypeLink
	default:
		return datasheet.FieldTypeText
	}
}

// cellFromProperty converts one page property to a raw cell value.
// resolveTitle turns a related page ID into its display title; relations map
// to the linked-entity list shape the core expects.
func cellFromProperty(prop notionapi.Property, resolveTitle func(pageID string) string) interface{} {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return joinRichText(p.Title)
	case *notionapi.RichTextProperty:
		return joinRichText(p.RichText)
	case *notionapi.NumberProperty:
		return p.Number
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.CheckboxProperty:
		return p.Checkbox
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return nil
		}
		return time.Time(*p.Date.Start).Format("2006-01-02")
	case *notionapi.RelationProperty:
		if len(p.Relation) == 0 {
			return nil
		}
		out := make([]interface{}, 0, len(p.Relation))
		for _, rel := range p.Relation {
			id := string(rel.ID)
			entry := map[string]interface{}{"id": id}
			if resolveTitle != nil {
				if title := resolveTitle(id); title != "" {
					entry["title"] = title
				}
			}
			out = append(out, entry)
		}
		return out
	default:
		return nil
	}
}

func joinRichText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range parts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}

// pageTitle extracts the title property text of a page, or "".
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return joinRichText(title.Title)
		}
	}
	return ""
}

// propertyFromValue converts one write value into a Notion property matching
// the field's schema type. A nil return means the value cannot be expressed
// for that property and is skipped.
func propertyFromValue(fieldType datasheet.FieldType, v interface{}) notionapi.Property {
	switch fieldType {
	case datasheet.FieldTypeSingleText:
		return notionapi.TitleProperty{
			Title: []notionapi.RichText{richText(datasheet.CoerceString(v))},
		}
	case datasheet.FieldTypeText:
		return notionapi.RichTextProperty{
			RichText: []notionapi.RichText{richText(datasheet.CoerceString(v))},
		}
	case datasheet.FieldTypeNumber, datasheet.FieldTypeCurrency:
		return notionapi.NumberProperty{Number: datasheet.CoerceNumber(v)}
	case datasheet.FieldTypeSingleSelect:
		return notionapi.SelectProperty{
			Select: notionapi.Option{Name: datasheet.CoerceString(v)},
		}
	case datasheet.FieldTypeCheckbox:
		return notionapi.CheckboxProperty{Checkbox: datasheet.CoerceBool(v)}
	case datasheet.FieldTypeDateTime:
		t, ok := parseDate(datasheet.CoerceString(v))
		if !ok {
			return nil
		}
		d := notionapi.Date(t)
		return notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	case datasheet.FieldTypeLink:
		ids := linkIDs(v)
		if len(ids) == 0 {
			return nil
		}
		relations := make([]notionapi.Relation, 0, len(ids))
		for _, id := range ids {
			relations = append(relations, notionapi.Relation{ID: notionapi.PageID(id)})
		}
		return notionapi.RelationProperty{Relation: relations}
	default:
		return nil
	}
}

func richText(s string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}
}

func linkIDs(v interface{}) []string {
	switch val := v.(type) {
	case []string:
		return val
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []interface{}:
		var out []string
		for _, item := range val {
			if s := datasheet.CoerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
