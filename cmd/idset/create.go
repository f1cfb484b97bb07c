package main

import (
	"context"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new, empty database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)

		if err := svc.PerformCreateDatabase(ctx, args[0]); err != nil {
			reg.Close()
			fatal("Failed to create database", err)
		}
		finish(svc, reg)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
