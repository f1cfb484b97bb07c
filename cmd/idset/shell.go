package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/camellia2077/idset"
	"github.com/camellia2077/idset/internal/present"
)

const menu = `
1) Add IDs
2) Query IDs
3) Create database
4) Switch database
5) Status
6) Import file
0) Exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive menu session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, reg := openService(ctx)
		defer reg.Close()

		if err := runShell(ctx, svc, os.Stdin, os.Stdout); err != nil {
			fatal("Shell aborted", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// runShell drives svc from a numbered menu read from in until "0" or EOF.
// Persistence failures are reported and the session continues.
func runShell(ctx context.Context, svc *idset.Service, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}
	show := func(err error) {
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		fmt.Fprintln(out, present.Render(svc.Status(), svc.LastResult(), svc.CurrentDatabase()))
	}

	show(nil)
	for {
		fmt.Fprintln(out, menu)
		choice, ok := prompt("> ")
		if !ok {
			return scanner.Err()
		}

		switch choice {
		case "0":
			return nil
		case "1":
			text, ok := prompt("IDs to add: ")
			if !ok {
				return scanner.Err()
			}
			show(svc.PerformAdd(ctx, text))
		case "2":
			text, ok := prompt("IDs to query: ")
			if !ok {
				return scanner.Err()
			}
			show(svc.PerformQuery(ctx, text))
		case "3":
			name, ok := prompt("New database name: ")
			if !ok {
				return scanner.Err()
			}
			show(svc.PerformCreateDatabase(ctx, name))
		case "4":
			names, err := svc.DatabaseNames()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, present.Summary("Databases", strings.Join(names, ", ")))
			name, ok := prompt("Switch to: ")
			if !ok {
				return scanner.Err()
			}
			show(svc.SetCurrentDatabase(ctx, name))
		case "5":
			total, err := svc.TotalRecords(ctx)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, present.Summary("Database", svc.CurrentDatabase()))
			fmt.Fprintln(out, present.Summary("Records", total))
		case "6":
			path, ok := prompt("File to import: ")
			if !ok {
				return scanner.Err()
			}
			show(svc.PerformImport(ctx, path))
		default:
			fmt.Fprintf(out, "Unknown option %q\n", choice)
		}
	}
}
