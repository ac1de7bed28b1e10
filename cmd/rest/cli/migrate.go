package cli

import (
	"notabene-be/pkg/database"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			applied, err := database.MigrateUp(cfg.Database.URL)
			if err != nil {
				return err
			}
			if !applied {
				cmd.Println("Schema is up to date")
				return nil
			}
			return printVersion(cmd, cfg.Database.URL)
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := database.MigrateDown(cfg.Database.URL, steps); err != nil {
				return err
			}
			return printVersion(cmd, cfg.Database.URL)
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back, 0 for all")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printVersion(cmd, cfg.Database.URL)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, connString string) error {
	version, dirty, err := database.MigrationVersion(connString)
	if err != nil {
		return err
	}
	cmd.Printf("Schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
