// Command migrate manages the LORO database schema.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/loro/backend/internal/infrastructure/migration"
	"github.com/loro/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	dir      string
	logLevel string
	confirm  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the LORO database schema",
		Long:          "Applies and inspects versioned SQL migrations. Without --dir the migrations compiled into the binary are used.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations; a negative n rolls back",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(v))
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the applied version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(opts, func(m *migration.Migrator, log *zap.Logger, _ []string) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if v == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark a version as applied without running it",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		},
		newDropCmd(opts),
		newCreateCmd(opts),
		newListCmd(opts),
	)
	return root
}

func newDropCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object",
		Args:  cobra.NoArgs,
		RunE: withMigrator(opts, func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
			if !opts.confirm {
				return errors.New("refusing to drop without --confirm")
			}
			return m.Drop()
		}),
	}
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "really drop everything")
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Write the next numbered up/down pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			dir := opts.dir
			if dir == "" {
				dir = "migrations"
			}
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], desc)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up", mf.UpPath),
				zap.String("down", mf.DownPath),
			)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := migration.ListMigrations(source(opts))
			if err != nil {
				return err
			}
			for _, m := range list {
				down := ""
				if !m.HasDown {
					down = "  (no down)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", m, down)
			}
			return nil
		},
	}
}

func source(opts *options) fs.FS {
	if opts.dir != "" {
		return os.DirFS(opts.dir)
	}
	return migrations.FS
}

func newLogger(opts *options) (*zap.Logger, error) {
	return logger.New(config.LogConfig{Level: opts.logLevel, Format: "console", Output: "stdout"})
}

type migratorFunc func(m *migration.Migrator, log *zap.Logger, args []string) error

// withMigrator opens the database from config and hands fn a ready Migrator
func withMigrator(opts *options, fn migratorFunc) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		log, err := newLogger(opts)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		m, err := migration.New(db, source(opts), log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Closing migrator", zap.Error(err))
			}
		}()
		return fn(m, log, args)
	}
}
