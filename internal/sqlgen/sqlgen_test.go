package sqlgen_test

import (
	"strings"
	"testing"

	"github.com/EslamSife/database-exporter/internal/schema"
	"github.com/EslamSife/database-exporter/internal/sqlgen"
)

func testMetadata() schema.TableMetadata {
	return schema.TableMetadata{
		TableName:  "Orders",
		SchemaName: "dbo",
		Columns: []schema.ColumnInfo{
			{Name: "id", SQLTypeCode: schema.TypeInteger, Ordinal: 1},
			{Name: "updated_at", SQLTypeCode: schema.TypeTimestamp, Ordinal: 2},
		},
		SortStrategy: schema.NewDateTimeSortStrategy("updated_at", schema.DateUpdated),
	}
}

func TestBuildSelect_WithRowLimitAndSort(t *testing.T) {
	got := sqlgen.BuildSelect(testMetadata(), 10)
	want := "SELECT TOP 10 [id], [updated_at] FROM [dbo].[Orders] ORDER BY updated_at DESC"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuildSelect_NoLimitNoSort(t *testing.T) {
	md := testMetadata()
	md.SortStrategy = schema.NewNoSortStrategy()
	md.SchemaName = ""

	got := sqlgen.BuildSelect(md, 0)
	if strings.Contains(got, "TOP") {
		t.Fatalf("did not expect TOP clause: %q", got)
	}
	if strings.Contains(got, "ORDER BY") {
		t.Fatalf("did not expect ORDER BY clause: %q", got)
	}
	if !strings.Contains(got, "FROM [Orders]") {
		t.Fatalf("expected unqualified table name, got %q", got)
	}
}

type fakeCursor struct {
	names []string
	types []schema.SQLTypeCode
	vals  []interface{}
}

func (f fakeCursor) ColumnNames() []string                        { return f.names }
func (f fakeCursor) ColumnTypeCode(i int) schema.SQLTypeCode      { return f.types[i] }
func (f fakeCursor) Values() []interface{}                        { return f.vals }

func TestBuildInsert_ColumnListMatchesCursorNotMetadata(t *testing.T) {
	md := testMetadata()
	row := fakeCursor{
		names: []string{"id", "name"},
		types: []schema.SQLTypeCode{schema.TypeInteger, schema.TypeVarChar},
		vals:  []interface{}{int64(1), "Ann"},
	}

	got := sqlgen.BuildInsert(md, row)
	want := "INSERT INTO [dbo].[Orders] ([id], [name]) VALUES (1, N'Ann');"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
