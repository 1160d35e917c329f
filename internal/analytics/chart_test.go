package analytics

import (
	"reflect"
	"testing"

	"github.com/rooshmintted/apitable-widgets/internal/ledger"
)

func TestGroupForChart_ByCategory(t *testing.T) {
	txs := []ledger.Transaction{
		{Kind: ledger.KindRevenue, Amount: 900, Category: "Services"},
		{Kind: ledger.KindExpense, Amount: 100, Category: "Services"},
		{Kind: ledger.KindExpense, Amount: 50, Category: "Office"},
		{Kind: ledger.KindRevenue, Amount: 200, Category: "Licensing"},
	}

	got := GroupForChart(txs, GroupByCategory)
	want := []ChartBucket{
		{Label: "Services", Revenue: 900, Expenses: 100, Net: 800, Count: 2},
		{Label: "Licensing", Revenue: 200, Net: 200, Count: 1},
		{Label: "Office", Expenses: 50, Net: -50, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupForChart() = %+v, want %+v", got, want)
	}
}

func TestGroupForChart_TiesKeepFirstSeenOrder(t *testing.T) {
	// Alpha and Beta both net to 100; Alpha appeared first and must stay first.
	txs := []ledger.Transaction{
		{Kind: ledger.KindRevenue, Amount: 100, Merchant: "Alpha"},
		{Kind: ledger.KindRevenue, Amount: 100, Merchant: "Beta"},
	}

	got := GroupForChart(txs, GroupByMerchant)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	if got[0].Label != "Alpha" || got[1].Label != "Beta" {
		t.Errorf("bucket order = [%s, %s], want [Alpha, Beta]", got[0].Label, got[1].Label)
	}
}

func TestGroupForChart_ByType(t *testing.T) {
	txs := []ledger.Transaction{
		{Kind: ledger.KindExpense, Amount: 40},
		{Kind: ledger.KindRevenue, Amount: 70},
	}

	got := GroupForChart(txs, GroupByType)
	if len(got) != 2 {
		t.Fatalf("got %d buckets, want 2", len(got))
	}
	// Revenue bucket nets positive and sorts first.
	if got[0].Label != string(ledger.KindRevenue) {
		t.Errorf("first bucket = %q, want Revenue", got[0].Label)
	}
	if got[1].Label != string(ledger.KindExpense) {
		t.Errorf("second bucket = %q, want Expense", got[1].Label)
	}
}

func TestGroupForChart_ByDate(t *testing.T) {
	txs := []ledger.Transaction{
		{Kind: ledger.KindRevenue, Amount: 100, Date: "2026-03-15"},
		{Kind: ledger.KindRevenue, Amount: 50, Date: "2026-03-01T10:00:00Z"},
		{Kind: ledger.KindExpense, Amount: 20, Date: "gibberish"},
		{Kind: ledger.KindExpense, Amount: 10, Date: ""},
	}

	got := GroupForChart(txs, GroupByDate)
	want := []ChartBucket{
		{Label: "Mar 2026", Revenue: 150, Net: 150, Count: 2},
		{Label: UnknownDateLabel, Expenses: 30, Net: -30, Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupForChart() = %+v, want %+v", got, want)
	}
}

func TestGroupForChart_Empty(t *testing.T) {
	if got := GroupForChart(nil, GroupByCategory); len(got) != 0 {
		t.Errorf("got %d buckets for empty input, want 0", len(got))
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2026-03-15", "Mar 2026"},
		{"2026/03/15", "Mar 2026"},
		{"03/15/2026", "Mar 2026"},
		{"Mar 15, 2026", "Mar 2026"},
		{"2026-03-15T08:30:00Z", "Mar 2026"},
		{"not a date", UnknownDateLabel},
		{"", UnknownDateLabel},
	}
	for _, tt := range tests {
		if got := monthLabel(tt.raw); got != tt.want {
			t.Errorf("monthLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
