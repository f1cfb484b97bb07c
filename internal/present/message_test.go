package present

import (
	"strings"
	"testing"

	"github.com/camellia2077/idset/pkg/core"
)

func TestMessage(t *testing.T) {
	res := core.OperationResult{Success: 2, Exists: 1, Invalid: 1, Database: "alpha.bin"}

	tests := []struct {
		name     string
		status   core.Status
		res      core.OperationResult
		contains []string
		absent   []string
	}{
		{
			name:     "Add Completed",
			status:   core.StatusAddCompleted,
			res:      res,
			contains: []string{"[alpha.bin]", "Added: 2", "Already present: 1", "Malformed: 1"},
		},
		{
			name:     "Add Without Extras",
			status:   core.StatusAddCompleted,
			res:      core.OperationResult{Success: 3, Database: "alpha.bin"},
			contains: []string{"Added: 3"},
			absent:   []string{"Already present", "Malformed"},
		},
		{
			name:     "Import",
			status:   core.StatusImportCompleted,
			res:      res,
			contains: []string{"Import finished"},
		},
		{
			name:     "Query Completed",
			status:   core.StatusQueryCompleted,
			res:      core.OperationResult{Success: 1, NotFound: 4, Database: "alpha.bin"},
			contains: []string{"Found: 1", "Not found: 4"},
		},
		{
			name:     "Switched Uses Current",
			status:   core.StatusSwitched,
			contains: []string{"beta.bin"},
		},
		{
			name:     "Name Exists",
			status:   core.StatusDBNameExists,
			contains: []string{"already exists"},
		},
		{
			name:     "Token Invalid",
			status:   core.StatusTokenInvalid,
			res:      core.OperationResult{Invalid: 3},
			contains: []string{"3 malformed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Message(tt.status, tt.res, "beta.bin")
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Message() = %q, want it to contain %q", msg, want)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(msg, bad) {
					t.Errorf("Message() = %q, must not contain %q", msg, bad)
				}
			}
		})
	}
}

func TestMessage_EveryStatus(t *testing.T) {
	for s := core.StatusWelcome; s <= core.StatusSaveFailed; s++ {
		if msg := Message(s, core.OperationResult{}, "x"); msg == "Unknown status." {
			t.Errorf("status %s has no message", s)
		}
		if got := Render(s, core.OperationResult{}, "x"); !strings.Contains(got, strings.Split(Message(s, core.OperationResult{}, "x"), " ")[0]) {
			t.Errorf("Render(%s) = %q lost the message", s, got)
		}
	}
}
