package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rooshmintted/apitable-widgets/internal/analytics"
	"github.com/rooshmintted/apitable-widgets/internal/archive"
	"github.com/rooshmintted/apitable-widgets/internal/datasheet/inmemory"
	"github.com/rooshmintted/apitable-widgets/internal/fieldroles"
	infraBQ "github.com/rooshmintted/apitable-widgets/internal/infra/bigquery"
	"github.com/rooshmintted/apitable-widgets/internal/ledger"
	"github.com/rooshmintted/apitable-widgets/internal/logger"
	"github.com/rooshmintted/apitable-widgets/internal/split"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(log)
	case "chart":
		runChart(log)
	case "split":
		runSplit(log)
	case "export":
		runExport(log)
	case "recent":
		runRecent(log)
	case "suggest-roles":
		runSuggestRoles(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Widget CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary        Print the financial summary of a records fixture")
	fmt.Println("  chart          Print chart buckets grouped by a dimension")
	fmt.Println("  split          Split one transaction across its products")
	fmt.Println("  export         Export summary and chart snapshots to BigQuery")
	fmt.Println("  recent         List recent exported summary snapshots")
	fmt.Println("  suggest-roles  Ask Gemini to map columns to field roles")
	fmt.Println("  help           Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// loadTransactions loads a fixture and normalizes its records.
func loadTransactions(log zerolog.Logger, path string) ([]ledger.Transaction, fieldroles.RoleMap, *inmemory.Sheet) {
	if path == "" {
		log.Fatal().Msg("Error: --records is required")
	}

	sheet, err := inmemory.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load records fixture")
	}

	ctx := context.Background()
	fields, err := sheet.Fields(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fields")
	}

	roles := fieldroles.Discover(fields)
	if err := roles.RequireSummaryRoles(); err != nil {
		log.Fatal().Err(err).Msg("Sheet is not set up for the widget")
	}

	recs, err := sheet.Records(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load records")
	}

	return ledger.NormalizeAll(recs, roles), roles, sheet
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	recordsPath := fs.String("records", "", "Path to a JSON records fixture")
	fs.Parse(os.Args[2:])

	txs, _, _ := loadTransactions(log, *recordsPath)
	printJSON(analytics.Summarize(txs))
}

func runChart(log zerolog.Logger) {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	recordsPath := fs.String("records", "", "Path to a JSON records fixture")
	groupBy := fs.String("group-by", "type", "Grouping dimension: type, merchant, category, date")
	fs.Parse(os.Args[2:])

	txs, _, _ := loadTransactions(log, *recordsPath)
	printJSON(analytics.GroupForChart(txs, analytics.GroupBy(*groupBy)))
}

func runSplit(log zerolog.Logger) {
	fs := flag.NewFlagSet("split", flag.ExitOnError)
	recordsPath := fs.String("records", "", "Path to a JSON records fixture")
	recordID := fs.String("record-id", "", "ID of the transaction to split")
	amounts := fs.String("amounts", "", "Overrides as key=amount pairs, comma-separated (e.g. id:p1=60,name:Beans=40)")
	archiveBucket := fs.String("archive-bucket", os.Getenv("ARCHIVE_BUCKET"), "GCS bucket for commit snapshots (or set ARCHIVE_BUCKET env)")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project for commit audit rows (or set BQ_PROJECT env)")
	datasetID := fs.String("dataset", "widgets", "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *recordID == "" {
		log.Fatal().Msg("Error: --record-id is required")
	}

	_, roles, sheet := loadTransactions(log, *recordsPath)
	if err := roles.RequireSplitRoles(); err != nil {
		log.Fatal().Err(err).Msg("Sheet is not set up for splitting")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	engine := split.NewEngine(sheet, roles, split.NewGuard(), log)

	candidates, err := engine.Candidates(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list candidates")
	}

	var selected *ledger.Transaction
	for i := range candidates {
		if candidates[i].ID == *recordID {
			selected = &candidates[i]
			break
		}
	}
	if selected == nil {
		log.Fatal().Str("record_id", *recordID).Msg("Record is not a split candidate")
	}

	allocations, err := engine.SelectForSplit(*selected)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start split session")
	}

	for _, pair := range parseAmountOverrides(log, *amounts) {
		if err := engine.EditAllocationAmount(pair.key, pair.amount); err != nil {
			log.Fatal().Err(err).Str("product_key", pair.key).Msg("Failed to override allocation amount")
		}
	}

	allocations, err = engine.Allocations()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read allocations")
	}

	ids, err := engine.Commit(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Split commit failed")
	}

	fmt.Printf("Created %d child records: %s\n", len(ids), strings.Join(ids, ", "))

	if *archiveBucket != "" {
		uri, err := archive.NewArchiver(*archiveBucket).WriteCommitSnapshot(ctx, archive.CommitSnapshot{
			SheetID:        *recordsPath,
			ParentRecordID: *recordID,
			ChildIDs:       ids,
			Allocations:    allocations,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to archive commit snapshot")
		}
		fmt.Printf("Snapshot archived at %s\n", uri)
	}

	if *projectID != "" {
		exporter, err := infraBQ.NewExporter(ctx, *projectID, *datasetID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery exporter")
		}
		defer exporter.Close()

		if err := exporter.InsertSplitCommit(ctx, *recordsPath, ids, allocations); err != nil {
			log.Fatal().Err(err).Msg("Failed to record split commit")
		}
		log.Info().Int("rows", len(ids)).Msg("Split commit recorded in BigQuery")
	}
}

type amountOverride struct {
	key    string
	amount float64
}

func parseAmountOverrides(log zerolog.Logger, raw string) []amountOverride {
	if raw == "" {
		return nil
	}

	var out []amountOverride
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			log.Fatal().Str("pair", pair).Msg("Invalid --amounts pair, expected key=amount")
		}
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Fatal().Str("pair", pair).Msg("Invalid amount value")
		}
		out = append(out, amountOverride{key: key, amount: amount})
	}
	return out
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	recordsPath := fs.String("records", "", "Path to a JSON records fixture")
	sheetID := fs.String("sheet-id", "", "Logical sheet identifier for the snapshot")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT env)")
	datasetID := fs.String("dataset", "widgets", "BigQuery dataset ID")
	groupBy := fs.String("group-by", "category", "Chart grouping dimension to export")
	fs.Parse(os.Args[2:])

	if *sheetID == "" || *projectID == "" {
		log.Fatal().Msg("Usage: cli export -records PATH -sheet-id ID -project PROJECT")
	}

	txs, _, _ := loadTransactions(log, *recordsPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	exporter, err := infraBQ.NewExporter(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery exporter")
	}
	defer exporter.Close()

	summary := analytics.Summarize(txs)
	snapshotID, err := exporter.InsertSummary(ctx, *sheetID, summary)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to export summary")
	}

	buckets := analytics.GroupForChart(txs, analytics.GroupBy(*groupBy))
	if err := exporter.InsertChartBuckets(ctx, snapshotID, analytics.GroupBy(*groupBy), buckets); err != nil {
		log.Fatal().Err(err).Msg("Failed to export chart buckets")
	}

	log.Info().
		Str("snapshot_id", snapshotID).
		Int("buckets", len(buckets)).
		Msg("Export completed")
	fmt.Printf("Exported snapshot %s with %d chart buckets.\n", snapshotID, len(buckets))
}

func runRecent(log zerolog.Logger) {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	sheetID := fs.String("sheet-id", "", "Logical sheet identifier")
	projectID := fs.String("project", os.Getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT env)")
	datasetID := fs.String("dataset", "widgets", "BigQuery dataset ID")
	limit := fs.Int("limit", 10, "Maximum snapshots to list")
	fs.Parse(os.Args[2:])

	if *sheetID == "" || *projectID == "" {
		log.Fatal().Msg("Usage: cli recent -sheet-id ID -project PROJECT")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	exporter, err := infraBQ.NewExporter(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery exporter")
	}
	defer exporter.Close()

	rows, err := exporter.QueryRecentSummaries(ctx, *sheetID, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to query snapshots")
	}

	for _, row := range rows {
		fmt.Printf("%s  %s  net=%.2f  margin=%.1f%%  (%d transactions)\n",
			row.CreatedTS.Format(time.RFC3339), row.SnapshotID,
			row.NetProfit, row.ProfitMargin, row.Transactions)
	}
	if len(rows) == 0 {
		fmt.Println("No snapshots found.")
	}
}

func runSuggestRoles(log zerolog.Logger) {
	fs := flag.NewFlagSet("suggest-roles", flag.ExitOnError)
	recordsPath := fs.String("records", "", "Path to a JSON records fixture")
	fs.Parse(os.Args[2:])

	if *recordsPath == "" {
		log.Fatal().Msg("Error: --records is required")
	}

	sheet, err := inmemory.LoadFile(*recordsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *recordsPath).Msg("Failed to load records fixture")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	fields, err := sheet.Fields(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fields")
	}

	roles, err := fieldroles.NewGeminiSuggester().SuggestRoles(ctx, fields)
	if err != nil {
		log.Fatal().Err(err).Msg("Role suggestion failed")
	}

	printJSON(roles)
}
