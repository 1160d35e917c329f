// Package bigquery exports widget aggregates to BigQuery for reporting.
// Exports are fire-and-forget from the widget's point of view; the sheet
// stays the source of truth.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/rooshmintted/apitable-widgets/internal/analytics"
	"github.com/rooshmintted/apitable-widgets/internal/split"
)

const (
	summariesTable    = "summaries"
	chartBucketsTable = "chart_buckets"
	splitCommitsTable = "split_commits"
)

// Exporter writes widget snapshots into one BigQuery dataset.
type Exporter struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewExporter creates an exporter bound to a project and dataset.
func NewExporter(ctx context.Context, projectID, datasetID string) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: bigquery client: %w", err)
	}
	return &Exporter{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close releases the underlying client.
func (e *Exporter) Close() error {
	return e.client.Close()
}

func (e *Exporter) table(name string) *bigquery.Table {
	return e.client.DatasetInProject(e.projectID, e.datasetID).Table(name)
}

// InsertSummary writes one summary snapshot and returns its snapshot ID.
func (e *Exporter) InsertSummary(ctx context.Context, sheetID string, summary analytics.Summary) (string, error) {
	now := time.Now().UTC()
	row := &SummaryRow{
		SnapshotID:          uuid.NewString(),
		SheetID:             sheetID,
		AsOfDate:            civil.DateOf(now),
		TotalRevenue:        summary.TotalRevenue,
		TotalExpenses:       summary.TotalExpenses,
		NetProfit:           summary.NetProfit,
		ProfitMargin:        summary.ProfitMargin,
		Transactions:        int64(summary.Transactions),
		RevenueTransactions: int64(summary.RevenueTransactions),
		ExpenseTransactions: int64(summary.ExpenseTransactions),
		CreatedTS:           now,
	}

	if err := e.table(summariesTable).Inserter().Put(ctx, row); err != nil {
		return "", fmt.Errorf("InsertSummary: inserting row: %w", err)
	}
	return row.SnapshotID, nil
}

// InsertChartBuckets writes the buckets of one snapshot, preserving their
// rank as position.
func (e *Exporter) InsertChartBuckets(ctx context.Context, snapshotID string, groupBy analytics.GroupBy, buckets []analytics.ChartBucket) error {
	if len(buckets) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([]*ChartBucketRow, 0, len(buckets))
	for i, b := range buckets {
		rows = append(rows, &ChartBucketRow{
			SnapshotID: snapshotID,
			GroupBy:    string(groupBy),
			Label:      b.Label,
			Revenue:    b.Revenue,
			Expenses:   b.Expenses,
			Net:        b.Net,
			Count:      int64(b.Count),
			Position:   int64(i),
			CreatedTS:  now,
		})
	}

	if err := e.table(chartBucketsTable).Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertChartBuckets: inserting rows: %w", err)
	}
	return nil
}

// InsertSplitCommit records the children written by one split commit.
// childIDs and allocations correspond by index.
func (e *Exporter) InsertSplitCommit(ctx context.Context, sheetID string, childIDs []string, allocations []split.Allocation) error {
	if len(childIDs) != len(allocations) {
		return fmt.Errorf("InsertSplitCommit: %d child IDs for %d allocations", len(childIDs), len(allocations))
	}
	if len(allocations) == 0 {
		return nil
	}

	commitID := uuid.NewString()
	now := time.Now().UTC()
	rows := make([]*SplitCommitRow, 0, len(allocations))
	for i, alloc := range allocations {
		row := &SplitCommitRow{
			CommitID:       commitID,
			SheetID:        sheetID,
			ParentRecordID: alloc.OriginalID,
			ChildRecordID:  childIDs[i],
			ProductName:    alloc.Product.Name,
			BaseAmount:     alloc.BaseAmount,
			EditedAmount:   alloc.EditedAmount,
			CreatedTS:      now,
		}
		if alloc.Product.ID != "" {
			row.ProductID = bigquery.NullString{StringVal: alloc.Product.ID, Valid: true}
		}
		rows = append(rows, row)
	}

	if err := e.table(splitCommitsTable).Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertSplitCommit: inserting rows: %w", err)
	}
	return nil
}

// QueryRecentSummaries returns the latest summary snapshots for a sheet,
// newest first.
func (e *Exporter) QueryRecentSummaries(ctx context.Context, sheetID string, limit int) ([]*SummaryRow, error) {
	if limit <= 0 {
		limit = 30
	}

	q := e.client.Query(fmt.Sprintf(`
		SELECT
			snapshot_id,
			sheet_id,
			as_of_date,
			total_revenue,
			total_expenses,
			net_profit,
			profit_margin,
			transactions,
			revenue_transactions,
			expense_transactions,
			created_ts
		FROM %s.%s
		WHERE sheet_id = @sheet_id
		ORDER BY created_ts DESC
		LIMIT @row_limit
	`, e.datasetID, summariesTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "sheet_id", Value: sheetID},
		{Name: "row_limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryRecentSummaries: query read: %w", err)
	}

	var rows []*SummaryRow
	for {
		var r SummaryRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryRecentSummaries: iterating rows: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
