package cmd

import (
	"fmt"

	"github.com/buildline/rfitrack/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateVersionCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush := loadConfig(cmd)
			defer flush()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return db.RunMigrations(database.DB, cfg.DBDriver)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush := loadConfig(cmd)
			defer flush()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			return db.MigrateDown(database.DB, cfg.DBDriver)
		},
	}
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush := loadConfig(cmd)
			defer flush()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := db.Version(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
