package schema_test

import (
	"testing"

	"github.com/EslamSife/database-exporter/internal/schema"
)

func col(name string, t schema.SQLTypeCode) schema.ColumnInfo {
	return schema.ColumnInfo{Name: name, SQLTypeCode: t}
}

func TestResolveSortStrategy_PrefersUpdatedOverCreated(t *testing.T) {
	columns := []schema.ColumnInfo{
		col("id", schema.TypeInteger),
		col("created_at", schema.TypeTimestamp),
		col("updated_at", schema.TypeTimestamp),
	}

	s := schema.ResolveSortStrategy("orders", []string{"id"}, columns, nil)

	if s.Kind() != schema.SortDateTime {
		t.Fatalf("expected date-time strategy, got %v", s.Kind())
	}
	if s.ColumnName() != "updated_at" {
		t.Fatalf("expected updated_at, got %s", s.ColumnName())
	}
	if s.DateKind() != schema.DateUpdated {
		t.Fatalf("expected DateUpdated, got %v", s.DateKind())
	}
	if s.SortClause() != "updated_at DESC" {
		t.Fatalf("unexpected sort clause: %s", s.SortClause())
	}
}

func TestResolveSortStrategy_FallsBackToPrimaryKey(t *testing.T) {
	columns := []schema.ColumnInfo{col("id", schema.TypeInteger), col("name", schema.TypeVarChar)}

	s := schema.ResolveSortStrategy("users", []string{"id"}, columns, nil)

	if s.Kind() != schema.SortPrimaryKey {
		t.Fatalf("expected primary-key strategy, got %v", s.Kind())
	}
	if s.SortClause() != "[id] DESC" {
		t.Fatalf("unexpected sort clause: %s", s.SortClause())
	}
}

func TestResolveSortStrategy_CompositePrimaryKey(t *testing.T) {
	s := schema.ResolveSortStrategy("order_items", []string{"order_id", "line_no"}, nil, nil)

	if got := s.SortClause(); got != "[order_id] DESC, [line_no] DESC" {
		t.Fatalf("unexpected sort clause: %s", got)
	}
}

func TestResolveSortStrategy_NoSortWarns(t *testing.T) {
	var warned string
	s := schema.ResolveSortStrategy("audit_log", nil, nil, func(msg string) { warned = msg })

	if s.Kind() != schema.SortNone {
		t.Fatalf("expected no-sort strategy, got %v", s.Kind())
	}
	if s.SortClause() != "" {
		t.Fatalf("expected empty sort clause, got %q", s.SortClause())
	}
	if warned == "" {
		t.Fatal("expected a warning callback invocation")
	}
}

func TestResolveSortStrategy_GenericDateWhenNoNameMatches(t *testing.T) {
	columns := []schema.ColumnInfo{col("birth_date", schema.TypeDate)}

	s := schema.ResolveSortStrategy("people", nil, columns, nil)

	if s.DateKind() != schema.DateGeneric {
		t.Fatalf("expected generic date kind, got %v", s.DateKind())
	}
}
