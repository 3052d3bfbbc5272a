package cmd

import (
	"github.com/spf13/viper"

	"github.com/EslamSife/database-exporter/internal/config"
)

// yamlFilterConfig mirrors the filter section of the YAML document; viper
// unmarshals directly into it rather than into config.FilterConfig so the
// mapstructure tags stay local to the CLI layer.
type yamlFilterConfig struct {
	ExactMatches       []string `mapstructure:"exactMatches"`
	Prefixes           []string `mapstructure:"prefixes"`
	Wildcards          []string `mapstructure:"wildcards"`
	Regexes            []string `mapstructure:"regexes"`
	ExcludeEmptyTables bool     `mapstructure:"excludeEmptyTables"`
}

// buildExportConfig assembles a validated config.ExportConfig from whatever
// combination of environment variables, YAML document, and defaults viper
// has layered together (env > config file > default). No per-field
// command-line flags are bound; --config only selects the YAML file.
func buildExportConfig() (config.ExportConfig, error) {
	var yamlFilter yamlFilterConfig
	_ = viper.UnmarshalKey("filter", &yamlFilter)

	return config.New(
		viper.GetString("database.host"),
		viper.GetString("database.port"),
		viper.GetString("database.name"),
		viper.GetString("database.user"),
		viper.GetString("database.password"),
		config.WithSchemaName(viper.GetString("database.schema")),
		config.WithRowLimit(viper.GetInt("export.rowLimit")),
		config.WithBatchSize(viper.GetInt("export.batchSize")),
		config.WithParallelThreads(viper.GetInt("parallel.threads")),
		config.WithOutputDirectory(viper.GetString("export.outputDirectory")),
		config.WithIncludeSystemTables(viper.GetBool("export.includeSystemTables")),
		config.WithGenerateCreateStatements(viper.GetBool("export.generateCreateStatements")),
		config.WithGenerateDropStatements(viper.GetBool("export.generateDropStatements")),
		config.WithFilter(config.FilterConfig{
			ExactMatches:       yamlFilter.ExactMatches,
			Prefixes:           yamlFilter.Prefixes,
			Wildcards:          yamlFilter.Wildcards,
			Regexes:            yamlFilter.Regexes,
			ExcludeEmptyTables: yamlFilter.ExcludeEmptyTables,
		}),
	)
}
