// Package fieldroles maps semantic column roles to concrete field IDs.
// The widget core never inspects raw field metadata itself; it receives a
// RoleMap resolved once per refresh by this collaborator.
package fieldroles

import (
	"fmt"
	"strings"
)

// Role is a semantic column meaning.
type Role string

const (
	RoleTitle      Role = "title"
	RoleType       Role = "type"
	RoleAmount     Role = "amount"
	RoleCategory   Role = "category"
	RoleMerchant   Role = "merchant"
	RoleDate       Role = "date"
	RoleProduct    Role = "product"
	RoleReconciled Role = "reconciled"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{
	RoleTitle, RoleType, RoleAmount, RoleCategory,
	RoleMerchant, RoleDate, RoleProduct, RoleReconciled,
}

// RoleMap maps a role to the ID of the field serving it.
// Absent optional roles mean the corresponding Transaction field falls back
// to its default value.
type RoleMap map[Role]string

// FieldID returns the field ID for a role and whether it is resolved.
func (m RoleMap) FieldID(role Role) (string, bool) {
	id, ok := m[role]
	return id, ok && id != ""
}

// SetupIncompleteError reports which mandatory roles are unresolved.
// It is a blocking precondition, not a computation failure: callers must
// refuse to normalize or split until the sheet is set up.
type SetupIncompleteError struct {
	Missing []Role
}

func (e *SetupIncompleteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	return fmt.Sprintf("setup incomplete: missing field roles: %s", strings.Join(names, ", "))
}

// RequireSummaryRoles verifies the mandatory roles for the read path
// (title, type, amount).
func (m RoleMap) RequireSummaryRoles() error {
	return m.require(RoleTitle, RoleType, RoleAmount)
}

// RequireSplitRoles verifies the mandatory roles for the split path
// (title, type, amount, product).
func (m RoleMap) RequireSplitRoles() error {
	return m.require(RoleTitle, RoleType, RoleAmount, RoleProduct)
}

func (m RoleMap) require(roles ...Role) error {
	var missing []Role
	for _, r := range roles {
		if _, ok := m.FieldID(r); !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &SetupIncompleteError{Missing: missing}
	}
	return nil
}
