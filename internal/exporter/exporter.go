// Package exporter runs the per-table export worker: acquire a pooled
// session, stream the SELECT cursor, and batch INSERT statements into the
// sink. Grounded on TableDataExporter.exportTable, generalized to the
// pooled/batched/timeout-bound semantics spec §4.9 adds on top of it.
package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/EslamSife/database-exporter/internal/pool"
	"github.com/EslamSife/database-exporter/internal/schema"
	"github.com/EslamSife/database-exporter/internal/sink"
	"github.com/EslamSife/database-exporter/internal/sqlgen"
)

// queryTimeout bounds a single table's SELECT, matching the 300s ceiling
// in spec §4.9.
const queryTimeout = 300 * time.Second

// Exporter exports one table per ExportTable call. Calls may run
// concurrently: each acquires its own session from the shared pool and
// writes to the shared sink.
type Exporter struct {
	pool      *pool.Pool
	sink      *sink.Sink
	rowLimit  int
	batchSize int
	log       *slog.Logger
}

func New(p *pool.Pool, s *sink.Sink, rowLimit, batchSize int, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{pool: p, sink: s, rowLimit: rowLimit, batchSize: batchSize, log: log}
}

// ExportTable acquires a session, streams the table's rows into batched
// INSERTs, and always releases the session, even on error.
func (e *Exporter) ExportTable(ctx context.Context, metadata schema.TableMetadata) (schema.ExportResult, error) {
	start := time.Now()

	conn, err := e.pool.Acquire(ctx)
	if err != nil {
		return schema.ExportResult{}, fmt.Errorf("exporter: acquire session for %s: %w", metadata.TableName, err)
	}
	defer e.pool.Release(conn)

	e.sink.WriteTableHeader(metadata.FullTableName(), metadata.PrimaryKeyColumns, len(metadata.ForeignKeys))

	rowCount, err := e.streamRows(ctx, conn, metadata)
	if err != nil {
		return schema.ExportResult{}, fmt.Errorf("exporter: export %s: %w", metadata.TableName, err)
	}

	e.sink.WriteTableFooter()

	elapsed := time.Since(start).Seconds()
	e.log.Info("table export complete", "table", metadata.TableName, "rows", rowCount, "seconds", elapsed)

	return schema.ExportResult{TableName: metadata.TableName, RowCount: rowCount, DurationSeconds: elapsed}, nil
}

func (e *Exporter) streamRows(ctx context.Context, conn *sql.Conn, metadata schema.TableMetadata) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := sqlgen.BuildSelect(metadata, e.rowLimit)
	rows, err := conn.QueryContext(queryCtx, query)
	if err != nil {
		return 0, fmt.Errorf("select: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("read columns: %w", err)
	}

	typeByName := make(map[string]schema.SQLTypeCode, len(metadata.Columns))
	for _, c := range metadata.Columns {
		typeByName[c.Name] = c.SQLTypeCode
	}

	var rowCount int64
	var batch []string

	for rows.Next() && (e.rowLimit <= 0 || rowCount < int64(e.rowLimit)) {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return rowCount, fmt.Errorf("scan row: %w", err)
		}

		cursor := &scannedRow{columns: columns, values: values, types: typeByName}
		batch = append(batch, sqlgen.BuildInsert(metadata, cursor))
		rowCount++

		if len(batch) >= e.batchSize {
			e.sink.WriteInserts(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return rowCount, fmt.Errorf("iterate rows: %w", err)
	}

	if len(batch) > 0 {
		e.sink.WriteInserts(batch)
	}

	return rowCount, nil
}

// scannedRow adapts a single *sql.Rows scan into sqlgen.RowCursor, binding
// the INSERT's column list to what the cursor actually reported rather
// than to the catalog's column list, so a projection mismatch can never
// desync columns from values.
type scannedRow struct {
	columns []string
	values  []interface{}
	types   map[string]schema.SQLTypeCode
}

func (r *scannedRow) ColumnNames() []string { return r.columns }

func (r *scannedRow) Values() []interface{} { return r.values }

func (r *scannedRow) ColumnTypeCode(index int) schema.SQLTypeCode {
	return r.types[r.columns[index]]
}
