package ledger

import (
	"strings"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// ResolveProducts parses the raw product cell of a record into a deduplicated
// product list. Two cell shapes are accepted: a plain string holding
// comma-separated names, and a list of linked-entity maps from a link field.
// Entries with no usable name are dropped. Duplicates collapse keep-first,
// preserving the order of first appearance.
func ResolveProducts(v interface{}) []Product {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return productsFromText(val)
	case []interface{}:
		return productsFromLinks(val)
	default:
		return nil
	}
}

func productsFromText(s string) []Product {
	var out []Product
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		p := Product{Name: name}
		if key := p.DedupKey(); !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

func productsFromLinks(items []interface{}) []Product {
	var out []Product
	seen := map[string]bool{}
	for _, item := range items {
		p := productFromLink(item)
		if p.Name == "" {
			continue
		}
		if key := p.DedupKey(); !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// productFromLink extracts a product from one linked entity. The name comes
// from the first non-empty of title, name, text, value; the ID from the
// first non-empty of id, recordId, key, _id.
func productFromLink(item interface{}) Product {
	switch val := item.(type) {
	case string:
		return Product{Name: strings.TrimSpace(val)}
	case map[string]interface{}:
		var p Product
		for _, key := range []string{"title", "name", "text", "value"} {
			if s := datasheet.CoerceString(val[key]); s != "" {
				p.Name = s
				break
			}
		}
		for _, key := range []string{"id", "recordId", "key", "_id"} {
			if s := datasheet.CoerceString(val[key]); s != "" {
				p.ID = s
				break
			}
		}
		return p
	default:
		return Product{}
	}
}
