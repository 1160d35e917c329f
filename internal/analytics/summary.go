// Package analytics computes the dashboard aggregates over normalized
// transactions.
package analytics

import "github.com/rooshmintted/apitable-widgets/internal/ledger"

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalExpenses       float64 `json:"total_expenses"`
	NetProfit           float64 `json:"net_profit"`
	ProfitMargin        float64 `json:"profit_margin"`
	Transactions        int     `json:"transactions"`
	RevenueTransactions int     `json:"revenue_transactions"`
	ExpenseTransactions int     `json:"expense_transactions"`
}

// Summarize computes the summary over all transactions. ProfitMargin is the
// net profit as a percentage of revenue; with zero revenue it is reported as
// 0 rather than dividing.
func Summarize(txs []ledger.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		s.Transactions++
		switch tx.Kind {
		case ledger.KindRevenue:
			s.TotalRevenue += tx.Amount
			s.RevenueTransactions++
		default:
			s.TotalExpenses += tx.Amount
			s.ExpenseTransactions++
		}
	}
	s.NetProfit = s.TotalRevenue - s.TotalExpenses
	if s.TotalRevenue != 0 {
		s.ProfitMargin = s.NetProfit / s.TotalRevenue * 100
	}
	return s
}

// Partition splits transactions into the revenue and expense lists, both in
// input order.
func Partition(txs []ledger.Transaction) (revenue, expenses []ledger.Transaction) {
	for _, tx := range txs {
		if tx.Kind == ledger.KindRevenue {
			revenue = append(revenue, tx)
		} else {
			expenses = append(expenses, tx)
		}
	}
	return revenue, expenses
}
