package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/EslamSife/database-exporter/internal/report"
	"github.com/EslamSife/database-exporter/internal/schema"
)

func TestWrite_OrdersTablesByRowCountDescending(t *testing.T) {
	fs := afero.NewMemMapFs()
	stats := report.Statistics{
		Results: []schema.ExportResult{
			{TableName: "Small", RowCount: 3},
			{TableName: "Big", RowCount: 300},
		},
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 1, 0, 0, 10, 0, time.UTC),
	}

	path, err := report.Write(fs, "./exports", "northwind", "run-abc-123", 200, stats)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(contents)

	bigIdx := strings.Index(text, "Big")
	smallIdx := strings.Index(text, "Small")
	if bigIdx == -1 || smallIdx == -1 || bigIdx > smallIdx {
		t.Fatalf("expected Big before Small in report, got:\n%s", text)
	}
	if !strings.Contains(text, "Tables Processed: 2") {
		t.Errorf("expected tables processed count, got:\n%s", text)
	}
	if !strings.Contains(text, "Total Rows Exported: 303") {
		t.Errorf("expected total rows, got:\n%s", text)
	}
	if !strings.Contains(text, "run-abc-123") {
		t.Errorf("expected run id in report, got:\n%s", text)
	}
}
