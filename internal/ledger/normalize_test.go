package ledger

import (
	"reflect"
	"testing"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
)

func fullRoles() fieldroles.RoleMap {
	return fieldroles.RoleMap{
		fieldroles.RoleTitle:      "fldTitle",
		fieldroles.RoleType:       "fldType",
		fieldroles.RoleAmount:     "fldAmount",
		fieldroles.RoleCategory:   "fldCategory",
		fieldroles.RoleMerchant:   "fldMerchant",
		fieldroles.RoleDate:       "fldDate",
		fieldroles.RoleProduct:    "fldProduct",
		fieldroles.RoleReconciled: "fldReconciled",
	}
}

func TestNormalize(t *testing.T) {
	roles := fullRoles()

	tests := []struct {
		name string
		rec  datasheet.Record
		want Transaction
	}{
		{
			name: "complete revenue record",
			rec: datasheet.Record{
				ID: "rec1",
				Cells: map[string]interface{}{
					"fldTitle":      "Consulting invoice",
					"fldType":       "Revenue",
					"fldAmount":     float64(1200),
					"fldCategory":   "Services",
					"fldMerchant":   "Acme Co",
					"fldDate":       "2026-03-15",
					"fldReconciled": true,
				},
			},
			want: Transaction{
				ID: "rec1", Title: "Consulting invoice", Kind: KindRevenue,
				Amount: 1200, Category: "Services", Merchant: "Acme Co",
				Date: "2026-03-15", Reconciled: true,
			},
		},
		{
			name: "empty record falls back to defaults",
			rec:  datasheet.Record{ID: "rec2", Cells: map[string]interface{}{}},
			want: Transaction{
				ID: "rec2", Title: DefaultTitle, Kind: KindExpense,
				Amount: 0, Category: DefaultCategory, Merchant: DefaultMerchant,
			},
		},
		{
			name: "negative amount stored as absolute value",
			rec: datasheet.Record{
				ID:    "rec3",
				Cells: map[string]interface{}{"fldAmount": float64(-42.5)},
			},
			want: Transaction{
				ID: "rec3", Title: DefaultTitle, Kind: KindExpense,
				Amount: 42.5, Category: DefaultCategory, Merchant: DefaultMerchant,
			},
		},
		{
			name: "non-numeric amount coerces to zero",
			rec: datasheet.Record{
				ID:    "rec4",
				Cells: map[string]interface{}{"fldAmount": "not a number"},
			},
			want: Transaction{
				ID: "rec4", Title: DefaultTitle, Kind: KindExpense,
				Amount: 0, Category: DefaultCategory, Merchant: DefaultMerchant,
			},
		},
		{
			name: "kind matches revenue as substring, case-insensitive",
			rec: datasheet.Record{
				ID:    "rec5",
				Cells: map[string]interface{}{"fldType": "Recurring REVENUE stream"},
			},
			want: Transaction{
				ID: "rec5", Title: DefaultTitle, Kind: KindRevenue,
				Category: DefaultCategory, Merchant: DefaultMerchant,
			},
		},
		{
			name: "unrelated type stays expense",
			rec: datasheet.Record{
				ID:    "rec6",
				Cells: map[string]interface{}{"fldType": "Refund"},
			},
			want: Transaction{
				ID: "rec6", Title: DefaultTitle, Kind: KindExpense,
				Category: DefaultCategory, Merchant: DefaultMerchant,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.rec, roles)
			got.Products = nil
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_MissingOptionalRoles(t *testing.T) {
	roles := fieldroles.RoleMap{
		fieldroles.RoleTitle:  "fldTitle",
		fieldroles.RoleType:   "fldType",
		fieldroles.RoleAmount: "fldAmount",
	}
	rec := datasheet.Record{
		ID: "rec1",
		Cells: map[string]interface{}{
			"fldTitle":  "Lunch",
			"fldType":   "Expense",
			"fldAmount": float64(18),
		},
	}

	tx := Normalize(rec, roles)
	if tx.Category != DefaultCategory {
		t.Errorf("Category = %q, want %q", tx.Category, DefaultCategory)
	}
	if tx.Merchant != DefaultMerchant {
		t.Errorf("Merchant = %q, want %q", tx.Merchant, DefaultMerchant)
	}
	if tx.Date != "" {
		t.Errorf("Date = %q, want empty", tx.Date)
	}
	if tx.Products != nil {
		t.Errorf("Products = %v, want nil", tx.Products)
	}
	if tx.Reconciled {
		t.Error("Reconciled = true, want false")
	}
}

func TestNormalize_ProductsFromLinkCell(t *testing.T) {
	roles := fullRoles()
	rec := datasheet.Record{
		ID: "rec1",
		Cells: map[string]interface{}{
			"fldProduct": []interface{}{
				map[string]interface{}{"id": "p1", "title": "Widget A"},
				map[string]interface{}{"id": "p2", "title": "Widget B"},
			},
		},
	}

	tx := Normalize(rec, roles)
	if tx.ProductCount() != 2 {
		t.Fatalf("ProductCount() = %d, want 2", tx.ProductCount())
	}
	if tx.Products[0] != (Product{ID: "p1", Name: "Widget A"}) {
		t.Errorf("Products[0] = %+v", tx.Products[0])
	}
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	roles := fullRoles()
	recs := []datasheet.Record{
		{ID: "a", Cells: map[string]interface{}{"fldTitle": "First"}},
		{ID: "b", Cells: map[string]interface{}{"fldTitle": "Second"}},
		{ID: "c", Cells: map[string]interface{}{"fldTitle": "Third"}},
	}

	txs := NormalizeAll(recs, roles)
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if txs[i].Title != want {
			t.Errorf("txs[%d].Title = %q, want %q", i, txs[i].Title, want)
		}
	}
}
