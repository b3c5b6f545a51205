package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"drive-mirror/internal/journal"

	"github.com/spf13/cobra"
)

var (
	reportLimit int
	reportRunID string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recent mirror runs from the journal",
	Long: `Lists recent runs recorded in the journal, newest first. With --run it
lists the items that failed during that run instead.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 10, "Number of runs to show")
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "Show the failed items of this run")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	j, err := journal.Open(cfg.JournalFile)
	if err != nil {
		return fmt.Errorf("failed to open journal %s: %w", cfg.JournalFile, err)
	}
	defer j.Close()

	if reportRunID != "" {
		return printFailedItems(j, reportRunID)
	}
	return printRecentRuns(j, reportLimit)
}

func printRecentRuns(j *journal.Journal, limit int) error {
	runs, err := j.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tFOLDERS\tFILES\tBYTES\tSKIPPED\tFAILED\tDESTINATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Format(time.DateTime), r.Status,
			r.Folders, r.Files, r.Bytes, r.Skipped, r.Failed, r.Destination)
	}
	return w.Flush()
}

func printFailedItems(j *journal.Journal, runID string) error {
	items, err := j.FailedItems(runID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Printf("No failed items recorded for run %s.\n", runID)
		return nil
	}

	for _, item := range items {
		fmt.Printf("%-6s %s: %s\n", item.Kind, item.Path, item.Error)
	}
	return nil
}
