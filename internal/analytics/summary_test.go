package analytics

import (
	"testing"

	"github.com/rooshmintted/apitable-widgets/internal/ledger"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		txs  []ledger.Transaction
		want Summary
	}{
		{
			name: "empty input yields all zeros",
			txs:  nil,
			want: Summary{},
		},
		{
			name: "mixed revenue and expenses",
			txs: []ledger.Transaction{
				{Kind: ledger.KindRevenue, Amount: 1000},
				{Kind: ledger.KindRevenue, Amount: 500},
				{Kind: ledger.KindExpense, Amount: 300},
			},
			want: Summary{
				TotalRevenue:        1500,
				TotalExpenses:       300,
				NetProfit:           1200,
				ProfitMargin:        80,
				Transactions:        3,
				RevenueTransactions: 2,
				ExpenseTransactions: 1,
			},
		},
		{
			name: "zero revenue reports zero margin",
			txs: []ledger.Transaction{
				{Kind: ledger.KindExpense, Amount: 250},
			},
			want: Summary{
				TotalExpenses:       250,
				NetProfit:           -250,
				ProfitMargin:        0,
				Transactions:        1,
				ExpenseTransactions: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.txs); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	txs := []ledger.Transaction{
		{ID: "a", Kind: ledger.KindRevenue},
		{ID: "b", Kind: ledger.KindExpense},
		{ID: "c", Kind: ledger.KindRevenue},
	}

	revenue, expenses := Partition(txs)
	if len(revenue) != 2 || revenue[0].ID != "a" || revenue[1].ID != "c" {
		t.Errorf("revenue = %+v", revenue)
	}
	if len(expenses) != 1 || expenses[0].ID != "b" {
		t.Errorf("expenses = %+v", expenses)
	}

	revenue, expenses = Partition(nil)
	if revenue != nil || expenses != nil {
		t.Errorf("Partition(nil) = %v, %v, want nil, nil", revenue, expenses)
	}
}
