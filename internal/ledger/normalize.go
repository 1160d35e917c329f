package ledger

import (
	"math"
	"strings"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
)

// Defaults applied when a cell is missing or empty.
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "Other"
	DefaultMerchant = "Unknown"
)

// Normalize converts one raw record into a Transaction using the resolved
// role map. It never fails: missing roles and malformed cells fall back to
// defaults. Amounts are stored as absolute values; a type cell containing
// "revenue" (case-insensitive, substring) marks revenue, anything else is
// an expense.
func Normalize(rec datasheet.Record, roles fieldroles.RoleMap) Transaction {
	tx := Transaction{
		ID:       rec.ID,
		Title:    DefaultTitle,
		Kind:     KindExpense,
		Category: DefaultCategory,
		Merchant: DefaultMerchant,
	}

	if id, ok := roles.FieldID(fieldroles.RoleTitle); ok {
		if s := rec.CellValueString(id); s != "" {
			tx.Title = s
		}
	}
	if id, ok := roles.FieldID(fieldroles.RoleType); ok {
		if s := rec.CellValueString(id); strings.Contains(strings.ToLower(s), "revenue") {
			tx.Kind = KindRevenue
		}
	}
	if id, ok := roles.FieldID(fieldroles.RoleAmount); ok {
		tx.Amount = math.Abs(datasheet.CoerceNumber(rec.CellValue(id)))
	}
	if id, ok := roles.FieldID(fieldroles.RoleCategory); ok {
		if s := rec.CellValueString(id); s != "" {
			tx.Category = s
		}
	}
	if id, ok := roles.FieldID(fieldroles.RoleMerchant); ok {
		if s := rec.CellValueString(id); s != "" {
			tx.Merchant = s
		}
	}
	if id, ok := roles.FieldID(fieldroles.RoleDate); ok {
		tx.Date = rec.CellValueString(id)
	}
	if id, ok := roles.FieldID(fieldroles.RoleProduct); ok {
		tx.Products = ResolveProducts(rec.CellValue(id))
	}
	if id, ok := roles.FieldID(fieldroles.RoleReconciled); ok {
		tx.Reconciled = datasheet.CoerceBool(rec.CellValue(id))
	}

	return tx
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(recs []datasheet.Record, roles fieldroles.RoleMap) []Transaction {
	out := make([]Transaction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Normalize(rec, roles))
	}
	return out
}
