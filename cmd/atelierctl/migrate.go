package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/atelier-api/internal/infrastructure/postgres"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica las migraciones pendientes" }
func (*migrateCmd) Usage() string {
	return `atelierctl migrate

  Aplica en orden los archivos SQL embebidos que aún no figuran en schema_migrations.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, log, pool, err := openDB(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, log.Component("migrate"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if len(applied) == 0 {
		fmt.Println("Esquema al día, nada para aplicar.")
		return subcommands.ExitSuccess
	}
	for _, v := range applied {
		fmt.Println("aplicada:", v)
	}
	return subcommands.ExitSuccess
}
