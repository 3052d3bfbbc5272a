// Package sink owns the single append-only output artifact that holds every
// generated INSERT statement plus the per-table headers and footers around
// them.
package sink

import (
	"bufio"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const timestampLayout = "20060102_150405"

// Sink is shared mutable state across every table-export worker. It is not
// safe for unsynchronized concurrent writers; every exported method takes
// an internal mutex so callers may route writes through it directly instead
// of funneling through a dedicated writer goroutine — both are valid per the
// scheduler's ordering contract, and this implementation picks the mutex.
type Sink struct {
	mu         sync.Mutex
	fs         afero.Fs
	file       afero.File
	writer     *bufio.Writer
	outputPath string
}

// Open creates the output directory if missing, creates
// export_<YYYYMMDD_HHMMSS>.sql inside it, and writes the file header.
func Open(fs afero.Fs, outputDirectory, dbName string, totalTables, rowLimit int) (*Sink, error) {
	if err := fs.MkdirAll(outputDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	timestamp := time.Now().Format(timestampLayout)
	path := outputDirectory + "/export_" + timestamp + ".sql"

	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	s := &Sink{
		fs:         fs,
		file:       f,
		writer:     bufio.NewWriter(f),
		outputPath: path,
	}

	s.writeHeader(dbName, totalTables, rowLimit)
	return s, nil
}

// OutputPath returns the path of the artifact this sink is writing.
func (s *Sink) OutputPath() string {
	return s.outputPath
}

func (s *Sink) writeHeader(dbName string, totalTables, rowLimit int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.writer
	fmt.Fprintln(w, "-- ============================================")
	fmt.Fprintln(w, "-- Database Export")
	fmt.Fprintln(w, "-- Database:", dbName)
	fmt.Fprintln(w, "-- Generated:", time.Now().Format(time.RFC3339))
	fmt.Fprintln(w, "-- Tables:", totalTables)
	fmt.Fprintln(w, "-- Row Limit per Table:", rowLimit)
	fmt.Fprintln(w, "-- ============================================")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SET NOCOUNT ON;")
	fmt.Fprintln(w, "GO")
	fmt.Fprintln(w)
	w.Flush()
}

// WriteTableHeader emits the per-table comment block that precedes its
// batched INSERTs.
func (s *Sink) WriteTableHeader(tableName string, primaryKeys []string, foreignKeyCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.writer
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- ============================================")
	fmt.Fprintln(w, "-- Table:", tableName)
	fmt.Fprintln(w, "-- Primary Key:", primaryKeys)
	fmt.Fprintln(w, "-- Foreign Keys:", foreignKeyCount)
	fmt.Fprintln(w, "-- ============================================")
	fmt.Fprintln(w)
	w.Flush()
}

// WriteInserts appends a chunk of already-formatted INSERT statements.
func (s *Sink) WriteInserts(statements []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range statements {
		fmt.Fprintln(s.writer, stmt)
	}
	s.writer.Flush()
}

// WriteTableFooter closes out a table's block with a batch separator.
func (s *Sink) WriteTableFooter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(s.writer, "GO")
	fmt.Fprintln(s.writer)
	s.writer.Flush()
}

// Close writes the completion banner and releases the underlying file.
func (s *Sink) Close(totalTables int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.writer
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- ============================================")
	fmt.Fprintln(w, "-- Export Complete")
	fmt.Fprintln(w, "-- Total Tables:", totalTables)
	fmt.Fprintln(w, "-- Generated:", time.Now().Format(time.RFC3339))
	fmt.Fprintln(w, "-- ============================================")

	if err := w.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}
