package config_test

import (
	"strings"
	"testing"

	"github.com/EslamSife/database-exporter/internal/config"
)

func TestNew_DefaultsApply(t *testing.T) {
	cfg, err := config.New("db.internal", "1433", "Northwind", "svc", "secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.SchemaName != "dbo" {
		t.Errorf("expected default schema dbo, got %s", cfg.SchemaName)
	}
	if cfg.RowLimit != 200 {
		t.Errorf("expected default row limit 200, got %d", cfg.RowLimit)
	}
	if cfg.OutputDirectory != "./exports" {
		t.Errorf("expected default output dir, got %s", cfg.OutputDirectory)
	}
}

func TestNew_RejectsOutOfRangePort(t *testing.T) {
	_, err := config.New("db.internal", "99999", "Northwind", "svc", "secret")
	if err == nil {
		t.Fatal("expected error for out-of-range port")
	}
	if !strings.Contains(err.Error(), "dbPort") {
		t.Errorf("error should name the offending field, got: %v", err)
	}
}

func TestNew_RejectsEmptyRequiredField(t *testing.T) {
	_, err := config.New("", "1433", "Northwind", "svc", "secret")
	if err == nil || !strings.Contains(err.Error(), "dbHost") {
		t.Fatalf("expected dbHost error, got %v", err)
	}
}

func TestNew_RejectsRowLimitOutOfRange(t *testing.T) {
	_, err := config.New("h", "1433", "d", "u", "p", config.WithRowLimit(2_000_000))
	if err == nil || !strings.Contains(err.Error(), "rowLimit") {
		t.Fatalf("expected rowLimit error, got %v", err)
	}
}

func TestNew_RejectsParallelThreadsOutOfRange(t *testing.T) {
	_, err := config.New("h", "1433", "d", "u", "p", config.WithParallelThreads(64))
	if err == nil || !strings.Contains(err.Error(), "parallelThreads") {
		t.Fatalf("expected parallelThreads error, got %v", err)
	}
}

func TestConnectionString_Shape(t *testing.T) {
	cfg, err := config.New("dbhost", "1433", "mydb", "user1", "pw")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dsn := cfg.ConnectionString()
	for _, want := range []string{"sqlserver://dbhost:1433", "databaseName=mydb", "user=user1", "password=pw", "loginTimeout=30"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("expected dsn to contain %q, got %s", want, dsn)
		}
	}
}
