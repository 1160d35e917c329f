package analytics

import (
	"sort"
	"time"

	"github.com/rooshmintted/apitable-widgets/internal/ledger"
)

// GroupBy selects the dimension transactions are bucketed on.
type GroupBy string

const (
	GroupByType     GroupBy = "type"
	GroupByMerchant GroupBy = "merchant"
	GroupByCategory GroupBy = "category"
	GroupByDate     GroupBy = "date"
)

// UnknownDateLabel is the bucket for date cells no layout can parse.
const UnknownDateLabel = "Unknown Date"

// ChartBucket is one bar of the dashboard chart.
type ChartBucket struct {
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
	Count    int     `json:"count"`
}

// GroupForChart buckets transactions by the given dimension and returns the
// buckets sorted by net descending. Ties keep the order buckets were first
// seen in. Date grouping collapses to a month label ("Jan 2026"); cells that
// parse under no known layout fall into the UnknownDateLabel bucket.
func GroupForChart(txs []ledger.Transaction, by GroupBy) []ChartBucket {
	index := map[string]int{}
	var buckets []ChartBucket

	for _, tx := range txs {
		label := bucketLabel(tx, by)
		i, ok := index[label]
		if !ok {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, ChartBucket{Label: label})
		}
		if tx.Kind == ledger.KindRevenue {
			buckets[i].Revenue += tx.Amount
		} else {
			buckets[i].Expenses += tx.Amount
		}
		buckets[i].Count++
	}

	for i := range buckets {
		buckets[i].Net = buckets[i].Revenue - buckets[i].Expenses
	}

	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].Net > buckets[b].Net
	})
	return buckets
}

func bucketLabel(tx ledger.Transaction, by GroupBy) string {
	switch by {
	case GroupByMerchant:
		return tx.Merchant
	case GroupByCategory:
		return tx.Category
	case GroupByDate:
		return monthLabel(tx.Date)
	default:
		return string(tx.Kind)
	}
}

// dateLayouts are tried in order when parsing a date cell. Hosts emit a mix
// of ISO timestamps and locale-formatted display strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

func monthLabel(raw string) string {
	if raw == "" {
		return UnknownDateLabel
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return UnknownDateLabel
}
