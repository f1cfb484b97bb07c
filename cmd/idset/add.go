package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add ID...",
	Short: "Record IDs in the current database",
	Long: `Record one or more IDs. Each argument may hold several whitespace-separated IDs.
Malformed IDs are counted and skipped; the rest are stored in one transaction.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)

		if err := svc.PerformAdd(ctx, strings.Join(args, " ")); err != nil {
			reg.Close()
			fatal("Failed to add IDs", err)
		}
		finish(svc, reg)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query ID...",
	Short: "Check whether IDs exist in the current database",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)

		if err := svc.PerformQuery(ctx, strings.Join(args, " ")); err != nil {
			reg.Close()
			fatal("Failed to query IDs", err)
		}
		finish(svc, reg)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(queryCmd)
}
