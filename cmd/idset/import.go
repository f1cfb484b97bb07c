package main

import (
	"context"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Record every ID of a text file (one per line)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)

		if err := svc.PerformImport(ctx, args[0]); err != nil {
			reg.Close()
			fatal("Failed to import", err)
		}
		finish(svc, reg)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
