package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/shared/utils"
)

var (
	module      string
	databaseURL string
)

func main() {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Run SQL migrations for the inbox database",
	}
	root.PersistentFlags().StringVarP(&module, "module", "m", "inbox", "migration set under migrations/")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database URL (default: DATABASE_URL)")

	root.AddCommand(upCmd())
	root.AddCommand(downCmd())
	root.AddCommand(versionCmd())
	root.AddCommand(forceCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newMigrate() (*migrate.Migrate, error) {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, cfg.Env)

	url := databaseURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	url = migrateURL(url)
	path := fmt.Sprintf("file://migrations/%s", module)

	log.Info().Str("module", module).Str("path", path).Str("database", utils.MaskURL(url)).Msg("preparing migrations")

	m, err := migrate.New(path, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateURL maps the plain sqlite file paths accepted by the api onto the
// sqlite:// scheme golang-migrate expects.
func migrateURL(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), strings.HasPrefix(url, "sqlite://"):
		return url
	default:
		return "sqlite://" + url
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration up failed: %w", err)
			}
			log.Info().Msg("migrations up completed")
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (all, or --steps N)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate()
			if err != nil {
				return err
			}
			defer m.Close()

			if steps > 0 {
				err = m.Steps(-steps)
			} else {
				err = m.Down()
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
			log.Info().Int("steps", steps).Msg("migrations down completed")
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 = all)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrate()
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
				return fmt.Errorf("failed to get version: %w", err)
			}
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current schema version")
			return nil
		},
	}
}

func forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}

			m, err := newMigrate()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Force(version); err != nil {
				return fmt.Errorf("force failed: %w", err)
			}
			log.Info().Int("version", version).Msg("schema version forced")
			return nil
		},
	}
}
