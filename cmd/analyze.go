package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EslamSife/database-exporter/internal/orchestrator"
	"github.com/EslamSife/database-exporter/internal/runlog"
	"github.com/spf13/afero"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the dependency-level export plan without writing any output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildExportConfig()
		if err != nil {
			return err
		}

		db, err := sql.Open("sqlserver", cfg.ConnectionString())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		log, _, closeLog, err := runlog.Open(afero.NewMemMapFs(), ".")
		if err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
		defer closeLog()

		plan, err := orchestrator.BuildPlan(context.Background(), db, cfg, log)
		if err != nil {
			return err
		}

		printPlan(plan)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)
}
