package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/corpus-api/internal/services/cleanup"
	"github.com/killallgit/corpus-api/pkg/config"
	"github.com/spf13/cobra"
)

// reconcileCmd runs one reconciliation pass and exits
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile records with stored files",
	Long: `Bring the record tables and the storage roots back in line.

Pending records whose file was stored are marked as uploaded, pending
records without a file are deleted, stale staged uploads are purged and
stored files without a record are reported.`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Bool("remove-orphans", false, "delete stored files that no record refers to")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("remove-orphans") {
		removeOrphans, _ := cmd.Flags().GetBool("remove-orphans")
		config.Set("storage.remove_orphans", removeOrphans)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app, err := buildComponents(cmd.Context(), cfg, false)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.reconciler.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, report *cleanup.Report) {
	if !report.Changed() {
		fmt.Fprintln(out, "Records and storage are consistent")
		return
	}
	printRoot(out, "audio", report.Audio)
	printRoot(out, "text", report.Text)
}

func printRoot(out io.Writer, name string, root cleanup.RootReport) {
	fmt.Fprintf(out, "%s:\n", name)
	for _, line := range []struct {
		label string
		files []string
	}{
		{"promoted", root.Promoted},
		{"dropped", root.Dropped},
		{"orphans", root.Orphans},
		{"removed", root.Removed},
		{"purged", root.Purged},
	} {
		if len(line.files) == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-9s %s\n", line.label+":", strings.Join(line.files, ", "))
	}
}
