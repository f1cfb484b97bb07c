// Package present turns a Service outcome (Status + OperationResult) into the
// text shown to the operator.
package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/camellia2077/idset/pkg/core"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"})
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"})
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"})
	labelStyle   = lipgloss.NewStyle().Bold(true)
)

// Message returns the plain-text description of an outcome.
func Message(status core.Status, res core.OperationResult, current string) string {
	switch status {
	case core.StatusWelcome:
		return "Welcome."
	case core.StatusLoaded:
		return fmt.Sprintf("Default database %s loaded.", current)
	case core.StatusSwitched:
		return fmt.Sprintf("Switched to database %s.", current)
	case core.StatusCreated:
		return fmt.Sprintf("Created and switched to database %s.", current)
	case core.StatusAddCompleted, core.StatusImportCompleted:
		verb := "Add"
		if status == core.StatusImportCompleted {
			verb = "Import"
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s finished in [%s]. Added: %d.", verb, res.Database, res.Success)
		if res.Exists > 0 {
			fmt.Fprintf(&b, " Already present: %d.", res.Exists)
		}
		if res.Invalid > 0 {
			fmt.Fprintf(&b, " Malformed: %d.", res.Invalid)
		}
		return b.String()
	case core.StatusQueryCompleted:
		var b strings.Builder
		fmt.Fprintf(&b, "Query finished in [%s]. Found: %d.", res.Database, res.Success)
		if res.NotFound > 0 {
			fmt.Fprintf(&b, " Not found: %d.", res.NotFound)
		}
		if res.Invalid > 0 {
			fmt.Fprintf(&b, " Malformed: %d.", res.Invalid)
		}
		return b.String()
	case core.StatusDBNotFound:
		return "Error: the target database does not exist."
	case core.StatusDBCreateFailed:
		return "Error: could not create the database file."
	case core.StatusDBNameExists:
		return "Error: a database with that name already exists."
	case core.StatusDBNameEmpty:
		return "Error: the new database name must not be empty."
	case core.StatusAddInputEmpty:
		return "Error: nothing to add."
	case core.StatusQueryInputEmpty:
		return "Hint: enter the IDs to look up."
	case core.StatusFileOpenFailed:
		return "Error: could not open the import file."
	case core.StatusFileEmpty:
		return "Error: the import file contains no IDs."
	case core.StatusTokenInvalid:
		return fmt.Sprintf("Error: no well-formed ID in input (%d malformed).", res.Invalid)
	case core.StatusSaveFailed:
		return "Error: changes could not be saved; nothing was written."
	}
	return "Unknown status."
}

// Render returns Message styled for a terminal. Styling degrades to plain text
// when output is not a terminal.
func Render(status core.Status, res core.OperationResult, current string) string {
	msg := Message(status, res, current)
	switch {
	case status == core.StatusQueryInputEmpty:
		return hintStyle.Render(msg)
	case status.IsError():
		return errorStyle.Render(msg)
	default:
		return successStyle.Render(msg)
	}
}

// Summary renders a "label: value" line for status listings.
func Summary(label string, value any) string {
	return labelStyle.Render(label+":") + " " + fmt.Sprint(value)
}
