// Package report renders the end-of-run text report, grounded on
// ReportGenerator's fixed-width layout and ExportStatistics's summary
// arithmetic.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/EslamSife/database-exporter/internal/schema"
)

const (
	separator = "===================================================================================================="
	line      = "----------------------------------------------------------------------------------------------------"
)

// Statistics aggregates per-table results into the run-level summary the
// report prints.
type Statistics struct {
	Results   []schema.ExportResult
	StartTime time.Time
	EndTime   time.Time
}

func (s Statistics) totalRows() int64 {
	var total int64
	for _, r := range s.Results {
		total += r.RowCount
	}
	return total
}

func (s Statistics) avgRowsPerTable() float64 {
	if len(s.Results) == 0 {
		return 0
	}
	return float64(s.totalRows()) / float64(len(s.Results))
}

func (s Statistics) throughput(durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return float64(s.totalRows()) / durationSeconds
}

func (s Statistics) summary() string {
	duration := s.EndTime.Sub(s.StartTime).Seconds()
	return fmt.Sprintf(
		"\n%s\nExport Statistics\n%s\nTables Processed: %d\nTotal Rows Exported: %d\nDuration: %.0f seconds (%.2f minutes)\nAvg Rows/Table: %.2f\nThroughput: %.2f rows/second\n%s\n",
		separator, separator,
		len(s.Results), s.totalRows(), duration, duration/60.0,
		s.avgRowsPerTable(), s.throughput(duration),
		separator,
	)
}

// Write renders export_report_<timestamp>.txt into outputDirectory. runID is
// the run's correlation id, shared with the structured log records.
func Write(fs afero.Fs, outputDirectory, dbName, runID string, rowLimit int, stats Statistics) (string, error) {
	if err := fs.MkdirAll(outputDirectory, 0o755); err != nil {
		return "", fmt.Errorf("report: create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := outputDirectory + "/export_report_" + timestamp + ".txt"

	var b strings.Builder
	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b, "DATABASE EXPORT REPORT")
	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Database:", dbName)
	fmt.Fprintln(&b, "Run ID:", runID)
	fmt.Fprintln(&b, "Generated:", time.Now().Format(time.RFC3339))
	fmt.Fprintln(&b, "Row Limit per Table:", rowLimit)
	fmt.Fprintln(&b)

	fmt.Fprint(&b, stats.summary())

	fmt.Fprintln(&b, "\nDETAILED TABLE EXPORT COUNTS")
	fmt.Fprintln(&b, line)
	for _, r := range sortedByRowCountDesc(stats.Results) {
		fmt.Fprintf(&b, "  %-50s : %10d rows\n", r.TableName, r.RowCount)
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b, "END OF REPORT")
	fmt.Fprintln(&b, separator)

	if err := afero.WriteFile(fs, path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}

	return path, nil
}

func sortedByRowCountDesc(results []schema.ExportResult) []schema.ExportResult {
	sorted := make([]schema.ExportResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RowCount > sorted[j].RowCount })
	return sorted
}
