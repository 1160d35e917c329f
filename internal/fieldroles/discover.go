package fieldroles

import (
	"strings"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// Discover resolves a RoleMap from the fields of a view using the same
// name-substring and field-type heuristics the widgets apply. For each role
// the first matching field in view order wins; roles with no match are left
// unresolved.
func Discover(fields []datasheet.Field) RoleMap {
	roles := RoleMap{}

	assign := func(role Role, match func(datasheet.Field) bool) {
		for _, f := range fields {
			if match(f) {
				roles[role] = f.ID
				return
			}
		}
	}

	assign(RoleTitle, func(f datasheet.Field) bool {
		return nameContains(f, "title") ||
			f.Type == datasheet.FieldTypeSingleText || f.Type == datasheet.FieldTypeText
	})
	assign(RoleType, func(f datasheet.Field) bool {
		return nameContains(f, "type")
	})
	assign(RoleAmount, func(f datasheet.Field) bool {
		return nameContains(f, "amount") ||
			f.Type == datasheet.FieldTypeNumber || f.Type == datasheet.FieldTypeCurrency
	})
	assign(RoleCategory, func(f datasheet.Field) bool {
		return nameContains(f, "category")
	})
	assign(RoleMerchant, func(f datasheet.Field) bool {
		return nameContains(f, "merchant")
	})
	assign(RoleDate, func(f datasheet.Field) bool {
		return nameContains(f, "date") ||
			f.Type == datasheet.FieldTypeDateTime || f.Type == datasheet.FieldTypeCreatedTime
	})
	assign(RoleProduct, func(f datasheet.Field) bool {
		return nameContains(f, "product")
	})
	assign(RoleReconciled, func(f datasheet.Field) bool {
		return nameContains(f, "reconciled") || f.Type == datasheet.FieldTypeCheckbox
	})

	return roles
}

func nameContains(f datasheet.Field, substr string) bool {
	return strings.Contains(strings.ToLower(f.Name), substr)
}
