// Package runlog configures the per-run structured logger, grounded on
// ExportLogger's console+file dual-handler setup and
// maksim-edush-db_inner_migrator_syncer/internal/logging's
// slog.NewJSONHandler idiom: one JSON-formatted logger whose output is
// written to both the per-run log file and stderr.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Open creates outputDirectory/logs, opens export_<ts>.log inside it, and
// returns a logger that writes JSON records to both that file and stderr.
// runID is stamped on every record so a single run's log file and report
// can be correlated.
func Open(fs afero.Fs, outputDirectory string) (*slog.Logger, string, func() error, error) {
	logDir := outputDirectory + "/logs"
	if err := fs.MkdirAll(logDir, 0o755); err != nil {
		return nil, "", nil, fmt.Errorf("runlog: create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := logDir + "/export_" + timestamp + ".log"

	file, err := fs.Create(logPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("runlog: create log file: %w", err)
	}

	runID := uuid.New().String()

	handler := slog.NewJSONHandler(io.MultiWriter(file, os.Stderr), &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler).With("run_id", runID)

	return logger, runID, file.Close, nil
}
