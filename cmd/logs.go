package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doorwarden/doorwarden/internal/config"
	"github.com/doorwarden/doorwarden/internal/sink"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect the security event log",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recent security events, newest first",
	RunE:  runLogsList,
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete [event-id]",
	Short: "Delete a security event by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogsDelete,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsDeleteCmd)

	logsListCmd.Flags().Int("limit", 100, "Maximum number of events to print")
}

func runLogsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	events, _, closeSink, err := openEventSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	limit := mustGetInt(cmd, "limit")
	entries, err := events.RecentEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No security events recorded")
		return nil
	}

	for _, e := range entries {
		marker := " "
		if e.Status == sink.StatusIntruder {
			marker = "!"
		}
		fmt.Printf("%s %s  %-10s %-15s %-15s %s\n",
			marker,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Status, e.Name, e.Device, e.ImageURL)
		fmt.Printf("    id: %s\n", e.ID)
	}
	return nil
}

func runLogsDelete(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	events, _, closeSink, err := openEventSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	id := args[0]
	if err := events.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}

	fmt.Printf("Deleted event %s\n", id)
	return nil
}
