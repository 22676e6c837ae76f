package migrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/cmd/setup"
	"github.com/mpapenbr/pitstop-service-go/pkg/config"
	dbmigrate "github.com/mpapenbr/pitstop-service-go/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd)
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		"",
		"url to migration files (default: migrations embedded in the binary)")

	return cmd
}

func startMigration(cmd *cobra.Command) error {
	setup.Loggers()
	if err := setup.WaitForServices(cmd.Context(), true); err != nil {
		return err
	}
	dbURL := prepareURLForDB(config.DB)

	if config.MigrationSourceURL == "" {
		log.Info("Using embedded migrations")
		if err := dbmigrate.MigrateDB(dbURL); err != nil {
			return err
		}
	} else {
		log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
		m, err := migrate.New(config.MigrationSourceURL,
			strings.Replace(dbURL, "postgresql://", "pgx5://", 1))
		if err != nil {
			return fmt.Errorf("could not create migration: %w", err)
		}
		defer m.Close()
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	}
	version, dirty, err := dbmigrate.Version(dbURL)
	if err != nil {
		return err
	}
	log.Info("Database schema", log.Int("version", int(version)), log.Bool("dirty", dirty))
	return nil
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
