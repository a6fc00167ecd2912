// Command admin manages back-office accounts for the store API.
//
//	admin create -u gerente -p segredo1 -n "Gerente" [-r viewer]
//	admin list
//	admin passwd -u gerente -p novaSenha
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/auth"
	authdomain "github.com/brjatoba92/loja-materiais-utilidades/internal/auth/domain"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/config"
	"github.com/brjatoba92/loja-materiais-utilidades/internal/migration"
	"github.com/brjatoba92/loja-materiais-utilidades/pkg/db"
	"github.com/bwmarrin/snowflake"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const usage = `usage: admin <command> [flags]

commands:
  create   create an admin, or reset it when the username exists
  list     list admins
  passwd   change the password of an existing admin
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cmd, err := parseCommand(args[0], args[1:])
	if err != nil {
		return err
	}

	var svc authdomain.Service
	app := fx.New(
		fx.NopLogger,
		config.Module,
		fx.Provide(newLogger),
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		auth.Module,
		fx.Invoke(migration.Apply),
		fx.Populate(&svc),
	)

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}()

	return cmd.exec(ctx, svc, out)
}

type command struct {
	name     string
	username string
	password string
	fullName string
	role     string
}

func parseCommand(name string, args []string) (*command, error) {
	cmd := &command{name: name}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	switch name {
	case "create":
		fs.StringVarP(&cmd.username, "username", "u", "", "admin username")
		fs.StringVarP(&cmd.password, "password", "p", os.Getenv("ADMIN_PASSWORD"), "password (min 6 chars, defaults to $ADMIN_PASSWORD)")
		fs.StringVarP(&cmd.fullName, "name", "n", "", "display name")
		fs.StringVarP(&cmd.role, "role", "r", authdomain.RoleAdmin, "admin or viewer")
	case "passwd":
		fs.StringVarP(&cmd.username, "username", "u", "", "admin username")
		fs.StringVarP(&cmd.password, "password", "p", os.Getenv("ADMIN_PASSWORD"), "new password (defaults to $ADMIN_PASSWORD)")
	case "list":
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if name != "list" && strings.TrimSpace(cmd.username) == "" {
		return nil, errors.New("--username is required")
	}
	return cmd, nil
}

func (c *command) exec(ctx context.Context, svc authdomain.Service, out io.Writer) error {
	switch c.name {
	case "create":
		admin, created, err := svc.EnsureAdmin(ctx, authdomain.EnsureAdminRequest{
			Username: c.username,
			Password: c.password,
			Name:     c.fullName,
			Role:     c.role,
		})
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "Administrador criado: %s (%s)\n", admin.Username, admin.Role)
		} else {
			fmt.Fprintf(out, "Administrador atualizado: %s (%s)\n", admin.Username, admin.Role)
		}
		return nil

	case "passwd":
		existing, err := findAdmin(ctx, svc, c.username)
		if err != nil {
			return err
		}
		_, _, err = svc.EnsureAdmin(ctx, authdomain.EnsureAdminRequest{
			Username: existing.Username,
			Password: c.password,
			Name:     existing.Name,
			Role:     existing.Role,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Senha alterada: %s\n", existing.Username)
		return nil

	default:
		admins, err := svc.ListAdmins(ctx)
		if err != nil {
			return err
		}
		return printAdmins(out, admins)
	}
}

func findAdmin(ctx context.Context, svc authdomain.Service, username string) (*authdomain.AdminView, error) {
	admins, err := svc.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	for i := range admins {
		if admins[i].Username == strings.TrimSpace(username) {
			return &admins[i], nil
		}
	}
	return nil, fmt.Errorf("administrador não encontrado: %s", username)
}

func printAdmins(out io.Writer, admins []authdomain.AdminView) error {
	if len(admins) == 0 {
		fmt.Fprintln(out, "Nenhum administrador encontrado.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSUARIO\tNOME\tTIPO\tULTIMO ACESSO\tCRIADO EM")
	for _, a := range admins {
		lastAccess := "nunca"
		if a.LastAccessAt != nil {
			lastAccess = a.LastAccessAt.Format("02/01/2006 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Username, a.Name, a.Role, lastAccess, a.CreatedAt.Format("02/01/2006 15:04"))
	}
	return tw.Flush()
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
