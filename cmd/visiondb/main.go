// Package main implements visiondb, a command-line tool for the vision
// screening data store. It applies schema migrations and runs single
// account operations against the configured database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/visiondb/internal/config"
	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/phrazzld/visiondb/internal/platform/logger"
	"github.com/phrazzld/visiondb/internal/userdata"
)

const usage = `usage: visiondb <command> [flags]

commands:
  migrate up|down|reset|status   manage the database schema
  register -name N -email E -password P
  login -email E -password P
  counts -email E                 print the user's test counts
  delete -email E                 delete the user's account
`

// errNegativeStatus is returned when an operation completed but did not
// succeed, so the process exits non-zero.
var errNegativeStatus = errors.New("operation did not succeed")

// errUsage marks command-line mistakes.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		if !errors.Is(err, errNegativeStatus) {
			fmt.Fprintf(os.Stderr, "visiondb: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries what every subcommand needs once initialization is done.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	dialect database.Dialect
	logger  *slog.Logger
	out     io.Writer
}

// run parses args, initializes the application and executes one command.
// Results go to stdout, logs to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	a, err := initializeApp(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		return a.migrate(ctx, rest)
	case "register", "login", "counts", "delete":
		return a.account(ctx, cmd, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// initializeApp loads configuration, sets up logging and opens the database.
func initializeApp(ctx context.Context, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.SetupWithWriter(cfg.Log, stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Debug("configuration loaded",
		slog.String("log_level", cfg.Log.Level),
		slog.String("driver", cfg.Database.Driver),
		slog.String("password_scheme", cfg.Auth.PasswordScheme),
		slog.Bool("cascade_all_results", cfg.Store.CascadeAllResults))

	db, dialect, err := database.Open(ctx, cfg.Database, l)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		db:      db,
		dialect: dialect,
		logger:  l,
		out:     stdout,
	}, nil
}

func (a *app) migrate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate takes exactly one of up, down, reset, status", errUsage)
	}

	switch args[0] {
	case "status":
		statuses, err := database.MigrationStatus(ctx, a.db, a.dialect)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			fmt.Fprintf(a.out, "%05d  %-8s  %s\n", s.Source.Version, s.State, s.Source.Path)
		}
		return nil
	case database.MigrateUp, database.MigrateDown, database.MigrateReset:
		if err := database.Migrate(ctx, a.db, a.dialect, args[0], a.logger); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "migrate %s: done\n", args[0])
		return nil
	default:
		return fmt.Errorf("%w: unknown migrate command %q", errUsage, args[0])
	}
}

func (a *app) account(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "display name (register)")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (register, login)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", errUsage)
	}

	s, err := userdata.New(a.db, a.dialect, userdata.OptionsFromConfig(a.cfg), a.logger)
	if err != nil {
		return err
	}

	var status userdata.Status
	switch cmd {
	case "register":
		if *name == "" || *password == "" {
			return fmt.Errorf("%w: register needs -name and -password", errUsage)
		}
		status = s.Register(ctx, *name, *email, *password)
	case "login":
		status = s.Login(ctx, *email, *password)
	case "counts":
		return a.counts(ctx, s, *email)
	case "delete":
		id, ok := s.GetUserID(ctx, *email)
		if !ok {
			status = userdata.StatusEmailNotFound
			break
		}
		status = s.DeleteAccount(ctx, id)
	}

	fmt.Fprintln(a.out, status)
	if !status.OK() {
		return errNegativeStatus
	}
	return nil
}

func (a *app) counts(ctx context.Context, s *userdata.Store, email string) error {
	id, ok := s.GetUserID(ctx, email)
	if !ok {
		fmt.Fprintln(a.out, userdata.StatusEmailNotFound)
		return errNegativeStatus
	}

	counts := s.TestCount(ctx, id)
	for _, v := range domain.Variants {
		fmt.Fprintf(a.out, "%-16s %d\n", v, counts[string(v)])
	}
	fmt.Fprintf(a.out, "%-16s %d\n", "total", s.GetTotalTestsCount(ctx, id))
	return nil
}
