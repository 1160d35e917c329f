package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// SummaryRow is one dashboard summary snapshot in widgets.summaries.
type SummaryRow struct {
	SnapshotID string     `bigquery:"snapshot_id"` // REQUIRED
	SheetID    string     `bigquery:"sheet_id"`    // REQUIRED
	AsOfDate   civil.Date `bigquery:"as_of_date"`  // REQUIRED

	TotalRevenue  float64 `bigquery:"total_revenue"`
	TotalExpenses float64 `bigquery:"total_expenses"`
	NetProfit     float64 `bigquery:"net_profit"`
	ProfitMargin  float64 `bigquery:"profit_margin"`

	Transactions        int64 `bigquery:"transactions"`
	RevenueTransactions int64 `bigquery:"revenue_transactions"`
	ExpenseTransactions int64 `bigquery:"expense_transactions"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// ChartBucketRow is one chart bucket in widgets.chart_buckets, tied to a
// summary snapshot.
type ChartBucketRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	GroupBy    string `bigquery:"group_by"`    // REQUIRED

	Label    string  `bigquery:"label"` // REQUIRED
	Revenue  float64 `bigquery:"revenue"`
	Expenses float64 `bigquery:"expenses"`
	Net      float64 `bigquery:"net"`
	Count    int64   `bigquery:"bucket_count"`

	Position  int64     `bigquery:"position"` // rank within the snapshot
	CreatedTS time.Time `bigquery:"created_ts"`
}

// SplitCommitRow is one committed split child in widgets.split_commits.
type SplitCommitRow struct {
	CommitID string `bigquery:"commit_id"` // REQUIRED, one per commit
	SheetID  string `bigquery:"sheet_id"`  // REQUIRED

	ParentRecordID string `bigquery:"parent_record_id"` // REQUIRED
	ChildRecordID  string `bigquery:"child_record_id"`  // REQUIRED

	ProductID   bigquery.NullString `bigquery:"product_id"` // NULLABLE
	ProductName string              `bigquery:"product_name"`

	BaseAmount   float64 `bigquery:"base_amount"`
	EditedAmount float64 `bigquery:"edited_amount"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}
