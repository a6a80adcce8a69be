// atelierctl tareas administrativas del taller: migraciones, catálogo de ejemplo,
// importación de materiales, usuarios y reporte de reposición.
//
// Uso: atelierctl <comando> [flags]
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&migrateCmd{}, "base de datos")
	commander.Register(&seedCmd{}, "base de datos")
	commander.Register(&importMaterialsCmd{}, "catálogo")
	commander.Register(&createUserCmd{}, "usuarios")
	commander.Register(&restockReportCmd{}, "reportes")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
