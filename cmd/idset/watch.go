package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/camellia2077/idset"
	"github.com/camellia2077/idset/pkg/adapters/lifecycle"
	"github.com/camellia2077/idset/pkg/registry"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print database files as they are created, changed or removed (--db filters)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, err := idset.Init(cfg.DataDir, options()...)
		if err != nil {
			fatal("Failed to initialize idset", err)
		}
		defer reg.Close()

		events, err := reg.Watch(ctx)
		if err != nil {
			fatal("Failed to watch data directory", err)
		}

		var filter []lifecycle.SourceOption
		if dbName != "" {
			name, err := registry.NormalizeName(dbName, reg.Backend().Extension())
			if err != nil {
				fatal("Invalid database name", err)
			}
			filter = append(filter, lifecycle.OnlyDatabases(name))
		}

		src := lifecycle.NewSource(events, filter...)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", reg.Dir())
		for e := range src.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
