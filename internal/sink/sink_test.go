package sink_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/EslamSife/database-exporter/internal/sink"
)

func TestOpen_EmptySchemaProducesValidFileWithZeroInserts(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := sink.Open(fs, "./exports", "northwind", 0, 200)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(0); err != nil {
		t.Fatalf("Close: %v", err)
	}

	contents, err := afero.ReadFile(fs, s.OutputPath())
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	text := string(contents)
	if !strings.Contains(text, "SET NOCOUNT ON;") {
		t.Error("expected header to contain SET NOCOUNT ON;")
	}
	if !strings.Contains(text, "Export Complete") {
		t.Error("expected footer banner")
	}
	if strings.Contains(text, "INSERT INTO") {
		t.Error("expected zero INSERT statements")
	}
}

func TestWriteInserts_AppendsBetweenHeaderAndFooter(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := sink.Open(fs, "./out", "db", 1, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	s.WriteTableHeader("Users", []string{"id"}, 0)
	s.WriteInserts([]string{"INSERT INTO [dbo].[Users] ([id]) VALUES (1);"})
	s.WriteTableFooter()
	if err := s.Close(1); err != nil {
		t.Fatalf("Close: %v", err)
	}

	contents, _ := afero.ReadFile(fs, s.OutputPath())
	text := string(contents)

	headerIdx := strings.Index(text, "-- Table: Users")
	insertIdx := strings.Index(text, "INSERT INTO [dbo].[Users]")
	footerIdx := strings.LastIndex(text, "GO")

	if headerIdx == -1 || insertIdx == -1 || footerIdx == -1 {
		t.Fatalf("missing expected sections: %s", text)
	}
	if !(headerIdx < insertIdx && insertIdx < footerIdx) {
		t.Fatalf("expected header < insert < footer ordering, got %d %d %d", headerIdx, insertIdx, footerIdx)
	}
}

func TestOpen_CreatesOutputDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := sink.Open(fs, "./nested/exports", "db", 0, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(0)

	exists, err := afero.DirExists(fs, "./nested/exports")
	if err != nil || !exists {
		t.Fatalf("expected output directory to exist, err=%v exists=%v", err, exists)
	}
}
