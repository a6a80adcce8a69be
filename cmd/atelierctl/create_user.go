package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/atelier-api/internal/application/dto"
	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

type createUserCmd struct {
	email    string
	password string
	name     string
	role     string
}

func (*createUserCmd) Name() string     { return "create-user" }
func (*createUserCmd) Synopsis() string { return "crea un usuario (por defecto admin)" }
func (*createUserCmd) Usage() string {
	return `atelierctl create-user -email <email> -password <password> [-name <nombre>] [-role admin|staff]

  Crea el primer administrador u otros usuarios sin pasar por la API.
`
}

func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email del usuario.")
	f.StringVar(&c.password, "password", "", "Contraseña (mínimo 8 caracteres).")
	f.StringVar(&c.name, "name", "", "Nombre para mostrar.")
	f.StringVar(&c.role, "role", string(entity.RoleAdmin), "Rol: admin o staff.")
}

func (c *createUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	svc, err := openServices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	u, err := svc.Auth.RegisterUser(ctx, dto.RegisterRequest{
		Email:    c.email,
		Password: c.password,
		Name:     c.name,
		Role:     c.role,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear usuario: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Usuario %s creado (%s, id %s)\n", u.Email, u.Role, u.ID)
	return subcommands.ExitSuccess
}
