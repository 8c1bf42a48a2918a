package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ponder-agent/ponder/internal/archive"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

var (
	archiveDBPath    string
	archiveStatus    string
	archiveLimit     int
	archiveOlderThan time.Duration
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect saved processing results",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved results, newest first",
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved result in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete results older than the cutoff",
	RunE:  runArchivePrune,
}

func init() {
	archiveCmd.PersistentFlags().StringVar(&archiveDBPath, "db", "", "Archive database path (default $PONDER_HOME/ponder.db)")
	archiveListCmd.Flags().StringVar(&archiveStatus, "status", "", "Filter by terminal status")
	archiveListCmd.Flags().IntVar(&archiveLimit, "limit", 20, "Maximum rows to return")
	archivePruneCmd.Flags().DurationVar(&archiveOlderThan, "older-than", 168*time.Hour, "Age cutoff for pruning")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archivePruneCmd)
}

func openArchive() (*archive.Store, error) {
	path := archiveDBPath
	if path == "" {
		path = defaultDBPath()
	}
	return archive.Open(path)
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), archive.ListFilter{
		Status: session.Status(archiveStatus),
		Limit:  archiveLimit,
	})
	if err != nil {
		return err
	}

	if jsonFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved results")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-22s  %-8s  %.2f  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Status, e.Effort, e.Confidence, e.Input)
		fmt.Fprintf(out, "    id %s\n", e.ID)
	}
	return nil
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	id, err := types.ParseID(args[0])
	if err != nil {
		return fmt.Errorf("invalid result id: %w", err)
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if jsonFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
	return nil
}

func runArchivePrune(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.Prune(cmd.Context(), time.Now().Add(-archiveOlderThan))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d result(s)\n", removed)
	return nil
}
