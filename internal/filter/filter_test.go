package filter_test

import (
	"testing"

	"github.com/EslamSife/database-exporter/internal/filter"
)

func TestShouldExclude_DefaultsScenario(t *testing.T) {
	f := filter.New(filter.Config{})

	cases := map[string]bool{
		"audit_log":       true,
		"users":           false,
		"users_backup":    true,
		"sysjobs":         true,
		"tmp_import":      true,
		"orders_20240101": true,
	}

	for name, wantExcluded := range cases {
		if got := f.ShouldExclude(name, 100); got != wantExcluded {
			t.Errorf("ShouldExclude(%q) = %v, want %v", name, got, wantExcluded)
		}
	}
}

func TestShouldExclude_EmptyName(t *testing.T) {
	f := filter.New(filter.Config{})
	if !f.ShouldExclude("", 0) {
		t.Fatal("expected empty table name to be excluded")
	}
	if !f.ShouldExclude("   ", 0) {
		t.Fatal("expected blank table name to be excluded")
	}
}

func TestShouldExclude_CustomOverridesDefault(t *testing.T) {
	f := filter.New(filter.Config{ExactMatches: []string{"temp_seed"}})

	if f.ShouldExclude("dtproperties", 1) {
		t.Fatal("default exact match should not apply once ExactMatches is set")
	}
	if !f.ShouldExclude("temp_seed", 1) {
		t.Fatal("custom exact match should apply")
	}
}

func TestShouldExclude_EmptyTablePolicy(t *testing.T) {
	f := filter.New(filter.Config{ExcludeEmptyTables: true})
	if !f.ShouldExclude("widgets", 0) {
		t.Fatal("expected zero-row table to be excluded when policy enabled")
	}
	if f.ShouldExclude("widgets", 1) {
		t.Fatal("non-empty table must not be excluded by the empty-table policy")
	}
}
