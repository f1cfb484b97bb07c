package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camellia2077/idset/internal/present"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current database and its size",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)
		defer reg.Close()

		if statusJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(svc.State()); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		total, err := svc.TotalRecords(ctx)
		if err != nil {
			fatal("Failed to count records", err)
		}
		fmt.Println(present.Summary("Database", svc.CurrentDatabase()))
		fmt.Println(present.Summary("Records", total))
		fmt.Println(present.Summary("Backend", reg.Backend().Name()))
		fmt.Println(present.Summary("Data dir", reg.Dir()))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Dump internal state as JSON")
}
