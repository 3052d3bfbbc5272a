package scheduler_test

import (
	"context"
	"testing"

	"github.com/EslamSife/database-exporter/internal/schema"
	"github.com/EslamSife/database-exporter/internal/scheduler"
)

func fk(table string) []schema.ForeignKeyInfo {
	return []schema.ForeignKeyInfo{{ReferencedTable: table}}
}

func TestBuildWaves_LinearChainProducesOneWavePerLevel(t *testing.T) {
	tables := []schema.TableMetadata{
		{TableName: "A"},
		{TableName: "B", ForeignKeys: fk("A")},
		{TableName: "C", ForeignKeys: fk("B")},
		{TableName: "D"},
	}

	waves := scheduler.BuildWaves(tables, nil)

	if len(waves) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(waves))
	}

	wave0 := names(waves[0].Tables)
	if !contains(wave0, "A") || !contains(wave0, "D") || len(wave0) != 2 {
		t.Fatalf("expected wave 0 to contain A and D, got %v", wave0)
	}

	wave1 := names(waves[1].Tables)
	if len(wave1) != 1 || wave1[0] != "B" {
		t.Fatalf("expected wave 1 to contain only B, got %v", wave1)
	}

	wave2 := names(waves[2].Tables)
	if len(wave2) != 1 || wave2[0] != "C" {
		t.Fatalf("expected wave 2 to contain only C, got %v", wave2)
	}
}

func TestBuildWaves_CycleGoesToFinalWaveNotBroken(t *testing.T) {
	tables := []schema.TableMetadata{
		{TableName: "X", ForeignKeys: fk("Y")},
		{TableName: "Y", ForeignKeys: fk("X")},
	}

	waves := scheduler.BuildWaves(tables, nil)

	if len(waves) != 1 {
		t.Fatalf("expected exactly 1 wave for a pure cycle, got %d", len(waves))
	}
	if !waves[0].Cyclic {
		t.Fatal("expected the wave to be flagged cyclic")
	}
	got := names(waves[0].Tables)
	if !contains(got, "X") || !contains(got, "Y") {
		t.Fatalf("expected both cyclic tables present, got %v", got)
	}
}

func TestBuildWaves_SelfReferenceIgnoredForLeveling(t *testing.T) {
	tables := []schema.TableMetadata{
		{TableName: "Employee", ForeignKeys: fk("Employee")},
	}

	waves := scheduler.BuildWaves(tables, nil)

	if len(waves) != 1 || waves[0].Level != 0 || waves[0].Cyclic {
		t.Fatalf("expected self-referencing table to resolve to level 0, got %+v", waves)
	}
}

func TestRun_ExecutesWavesInOrderAndCollectsResults(t *testing.T) {
	tables := []schema.TableMetadata{
		{TableName: "A"},
		{TableName: "B", ForeignKeys: fk("A")},
	}
	waves := scheduler.BuildWaves(tables, nil)

	var order []string
	exportFn := func(ctx context.Context, table schema.TableMetadata) (schema.ExportResult, error) {
		order = append(order, table.TableName)
		return schema.ExportResult{TableName: table.TableName, RowCount: 1}, nil
	}

	results, err := scheduler.Run(context.Background(), waves, exportFn, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if order[0] != "A" || order[1] != "B" {
		t.Fatalf("expected A before B, got %v", order)
	}
}

func names(tables []schema.TableMetadata) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.TableName
	}
	return out
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
