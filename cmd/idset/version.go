package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camellia2077/idset"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of idset",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("idset version %s\n", strings.TrimSpace(idset.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
