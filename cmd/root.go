package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "dbxport",
	Short: "A read-only SQL Server table exporter",
	Long: `
      _ _
   __| | |____  ___ __   ___  _ __| |_
  / _  | '_ \ \/ / '_ \ / _ \| '__| __|
 | (_| | |_) >  <| |_) | (_) | |  | |_
  \__,_|_.__/_/\_\ .__/ \___/|_|   \__|
                 |_|
dbxport - exports SQL Server tables to INSERT statements
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dbxport.yaml)")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "1433")
	viper.SetDefault("database.schema", "dbo")
	viper.SetDefault("export.rowLimit", 200)
	viper.SetDefault("export.batchSize", 1000)
	viper.SetDefault("export.outputDirectory", "./exports")
	viper.SetDefault("parallel.threads", runtime.NumCPU())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("dbxport")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
