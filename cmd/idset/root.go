package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/camellia2077/idset"
	"github.com/camellia2077/idset/internal/present"
	"github.com/camellia2077/idset/pkg/core"
)

var (
	verbose    bool
	configPath string
	dataDir    string
	backend    string
	dbName     string

	cfg idset.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idset",
	Short: "Record short IDs and check whether they were seen before",
	Long: `idset keeps named databases of short alphanumeric IDs (e.g. AB1234).
Input is validated, canonicalized and stored; queries report which IDs exist.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = idset.LoadConfig(configPath)
		if err != nil {
			fatal("Failed to load configuration", err)
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend = backend
		}

		level, err := cfg.Level()
		if err != nil {
			fatal("Invalid configuration", err)
		}
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/idset/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default: <executable dir>/data)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "bin", "Storage backend: bin or sqlite")
	rootCmd.PersistentFlags().StringVar(&dbName, "db", "", "Database to operate on (default: the configured default database)")
}

func options() []idset.Option {
	opts, err := cfg.Options()
	if err != nil {
		fatal("Invalid configuration", err)
	}
	return append(opts, idset.WithLogger(slog.Default()))
}

// openService wires the service and selects the --db database, if any.
func openService(ctx context.Context) (*idset.Service, *idset.Registry) {
	svc, reg, err := idset.New(cfg.DataDir, options()...)
	if err != nil {
		fatal("Failed to initialize idset", err)
	}

	if dbName != "" {
		if err := svc.SetCurrentDatabase(ctx, dbName); err != nil {
			reg.Close()
			fatal("Failed to open database", err)
		}
		if svc.Status() != core.StatusSwitched {
			report(svc)
			reg.Close()
			os.Exit(1)
		}
	}
	return svc, reg
}

// report prints the outcome of the last service call and reports whether it failed.
func report(svc *idset.Service) bool {
	fmt.Println(present.Render(svc.Status(), svc.LastResult(), svc.CurrentDatabase()))
	return svc.Status().IsError()
}

// finish closes the registry and exits non-zero if the last call failed.
func finish(svc *idset.Service, reg *idset.Registry) {
	failed := report(svc)
	if err := reg.Close(); err != nil {
		fatal("Failed to close databases", err)
	}
	if failed {
		os.Exit(1)
	}
}
