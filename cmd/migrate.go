package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/videodiary/diary-api/internal/database"
	"github.com/videodiary/diary-api/internal/models"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the database schema for the Video Diary API.

Available subcommands:
  up      - Apply the schema
  status  - Show which tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply the database schema",
	Long: `Create or update the database schema to match the current models.

Safe to run repeatedly; existing tables are altered in place and data
is preserved.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema status",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func openDatabase() (*database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.VideoEntry{}); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Schema Status")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	for _, model := range []interface{}{&models.VideoEntry{}} {
		name := fmt.Sprintf("%T", model)
		if db.Migrator().HasTable(model) {
			fmt.Fprintf(out, "%-40s present\n", name)
		} else {
			fmt.Fprintf(out, "%-40s missing\n", name)
		}
	}

	return nil
}
