package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/killallgit/corpus-api/internal/database"
	"github.com/killallgit/corpus-api/internal/models"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage the record tables of the corpus-api database.

The schema follows the record models, so migrations create missing
tables and columns rather than replaying numbered scripts.

Available subcommands:
  up      - Create or update the record tables
  down    - Drop the record tables
  status  - Show the record tables and their row counts`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the record tables",
	Long: `Create or update the record tables.

Missing tables, columns and indexes are added. Existing rows are kept.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the record tables
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop the record tables",
	Long: `Drop the audio and text record tables.

Every stored record is lost. Uploaded files are left on disk; run
"corpus-api reconcile --remove-orphans" after migrating up again to
remove them.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows table status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the record tables",
	Long: `Display the current status of the record tables.

Each table is listed with whether it exists and how many rows it holds.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func tableNames() []string {
	var names []string
	for _, model := range models.All() {
		if tabler, ok := model.(interface{ TableName() string }); ok {
			names = append(names, tabler.TableName())
		}
	}
	return names
}

func withDatabase(cmd *cobra.Command, fn func(db *database.DB) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		fmt.Fprintf(out, "Would migrate tables: %s\n", strings.Join(tableNames(), ", "))
		return nil
	}

	return withDatabase(cmd, func(db *database.DB) error {
		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Migrated tables: %s\n", strings.Join(tableNames(), ", "))
		return nil
	})
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		fmt.Fprintf(out, "Would drop tables: %s\n", strings.Join(tableNames(), ", "))
		return nil
	}

	// Confirmation prompt for destructive action
	if !yes {
		fmt.Fprintf(out, "WARNING: This will drop %s and every stored record. Continue? (y/N): ", strings.Join(tableNames(), ", "))
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Migration rollback cancelled")
			return nil
		}
	}

	return withDatabase(cmd, func(db *database.DB) error {
		if err := db.DropTables(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Dropped tables: %s\n", strings.Join(tableNames(), ", "))
		return nil
	})
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	return withDatabase(cmd, func(db *database.DB) error {
		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Database Table Status")
		fmt.Fprintln(out, strings.Repeat("=", 50))
		for _, stat := range stats {
			if !stat.Exists {
				fmt.Fprintf(out, "  %-20s missing\n", stat.Name)
				continue
			}
			fmt.Fprintf(out, "  %-20s %d rows\n", stat.Name, stat.Rows)
		}
		return nil
	})
}
