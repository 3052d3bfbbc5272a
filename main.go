package main

import (
	"github.com/EslamSife/database-exporter/cmd"

	_ "github.com/denisenkom/go-mssqldb"
)

func main() {
	cmd.Execute()
}
