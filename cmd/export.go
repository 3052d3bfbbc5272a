package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/EslamSife/database-exporter/internal/orchestrator"
	"github.com/EslamSife/database-exporter/internal/runlog"
)

var dryRun bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tables to a .sql file of INSERT statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildExportConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Connecting to %s:%s/%s (schema %s)\n", cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.SchemaName)

		db, err := sql.Open("sqlserver", cfg.ConnectionString())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}

		fs := afero.NewOsFs()
		ctx := context.Background()

		logFs := fs
		if dryRun {
			logFs = afero.NewMemMapFs()
		}
		log, runID, closeLog, err := runlog.Open(logFs, cfg.OutputDirectory)
		if err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
		defer closeLog()

		log.Info("export run starting", "host", cfg.DBHost, "database", cfg.DBName, "schema", cfg.SchemaName)

		if dryRun {
			plan, err := orchestrator.BuildPlan(ctx, db, cfg, log)
			if err != nil {
				return err
			}
			printPlan(plan)
			return nil
		}

		result, err := orchestrator.Run(ctx, db, fs, cfg, runID, log)
		if err != nil {
			return err
		}

		printSummary(result)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the export plan without writing any output")
}

func printPlan(plan orchestrator.Plan) {
	fmt.Printf("Analysis Results (dry run, no files written):\n")
	fmt.Printf("  Tables analyzed: %d\n", len(plan.AllTables))
	fmt.Printf("  Tables after filtering: %d\n", len(plan.FilteredTables))
	for _, wave := range plan.Waves {
		marker := ""
		if wave.Cyclic {
			marker = " (circular dependency, exported last)"
		}
		fmt.Printf("  Wave %d: %d tables%s\n", wave.Level, len(wave.Tables), marker)
	}
}

func printSummary(result orchestrator.RunResult) {
	var totalRows int64
	for _, r := range result.Results {
		totalRows += r.RowCount
	}

	fmt.Println()
	fmt.Println("Export complete!")
	fmt.Printf("  Tables exported:   %d\n", len(result.Results))
	fmt.Printf("  Total rows:        %d\n", totalRows)
	fmt.Printf("  Schema analysis:   %.2f seconds\n", result.Timings.Introspection.Seconds())
	fmt.Printf("  Table filtering:   %.2f seconds\n", result.Timings.Filtering.Seconds())
	fmt.Printf("  Data export:       %.2f seconds\n", result.Timings.Export.Seconds())
	fmt.Printf("  Total duration:    %.2f seconds\n", result.Timings.Total.Seconds())
	fmt.Printf("  Output file:       %s\n", result.OutputPath)
	fmt.Printf("  Report:            %s\n", result.ReportPath)
	fmt.Printf("  Run id:            %s\n", result.RunID)
}
