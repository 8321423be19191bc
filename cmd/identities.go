package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doorwarden/doorwarden/internal/config"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "List the known identities parsed from the reference images",
	Long: `Load the known-faces directory and print the resulting identity set.
Useful for checking how image filenames map to display names and that
every reference image yields a usable face descriptor.`,
	RunE: runIdentities,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
}

func runIdentities(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	_, pool, closeSink, err := openEventSink(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	known, err := loadIdentities(ctx, cfg, pool)
	if err != nil {
		return err
	}

	fmt.Printf("%d known identities in %s:\n", len(known), cfg.Faces.KnownDir)
	for _, k := range known {
		fmt.Printf("  %-20s %d-dim descriptor\n", k.Name, len(k.Descriptor))
	}
	return nil
}
