// Package ledger turns raw datasheet records into typed transactions.
// Normalization is total: malformed cells fall back to defaults instead of
// producing errors, so one bad row never blocks a refresh.
package ledger

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindRevenue Kind = "Revenue"
	KindExpense Kind = "Expense"
)

// Product is one linked product reference on a transaction. ID is empty for
// products parsed from a plain comma-separated text cell.
type Product struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// DedupKey identifies a product within one transaction. Identity is the
// host-assigned ID when present, otherwise the display name.
func (p Product) DedupKey() string {
	if p.ID != "" {
		return "id:" + p.ID
	}
	return "name:" + p.Name
}

// Transaction is a normalized financial record. Amount is always
// non-negative; direction lives in Kind.
type Transaction struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Kind       Kind      `json:"kind"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	Merchant   string    `json:"merchant"`
	Date       string    `json:"date"`
	Products   []Product `json:"products,omitempty"`
	Reconciled bool      `json:"reconciled"`
}

// ProductCount returns the number of distinct products on the transaction.
func (t Transaction) ProductCount() int {
	return len(t.Products)
}
