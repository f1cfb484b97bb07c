// Package core holds the domain of idset: the outcome model of batch operations,
// the storage ports every backend implements, and the Service that orchestrates
// admission of raw tokens into the currently selected database.
package core

import "fmt"

// Status is the outcome of the last Service call.
// It is not a log: every call overwrites it exactly once.
type Status int

const (
	StatusWelcome Status = iota
	StatusLoaded
	StatusSwitched
	StatusCreated
	StatusAddCompleted
	StatusQueryCompleted
	StatusImportCompleted

	StatusDBNotFound
	StatusDBCreateFailed
	StatusDBNameExists
	StatusDBNameEmpty
	StatusAddInputEmpty
	StatusQueryInputEmpty
	StatusFileOpenFailed
	StatusFileEmpty
	StatusTokenInvalid
	StatusSaveFailed
)

var statusNames = map[Status]string{
	StatusWelcome:         "welcome",
	StatusLoaded:          "loaded",
	StatusSwitched:        "switched",
	StatusCreated:         "created",
	StatusAddCompleted:    "add-completed",
	StatusQueryCompleted:  "query-completed",
	StatusImportCompleted: "import-completed",
	StatusDBNotFound:      "db-not-found",
	StatusDBCreateFailed:  "db-create-failed",
	StatusDBNameExists:    "db-name-exists",
	StatusDBNameEmpty:     "db-name-empty",
	StatusAddInputEmpty:   "add-input-empty",
	StatusQueryInputEmpty: "query-input-empty",
	StatusFileOpenFailed:  "file-open-failed",
	StatusFileEmpty:       "file-empty",
	StatusTokenInvalid:    "token-invalid",
	StatusSaveFailed:      "save-failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsError reports whether the status describes a failed call.
func (s Status) IsError() bool {
	return s >= StatusDBNotFound
}

// OperationResult aggregates the per-token outcomes of one batch operation.
// Success counts inserted IDs on add and found IDs on query.
type OperationResult struct {
	Success  int    `json:"success"`
	Exists   int    `json:"exists"`
	NotFound int    `json:"not_found"`
	Invalid  int    `json:"invalid"`
	Database string `json:"database"`
}

// Total returns the number of tokens the operation looked at.
func (r OperationResult) Total() int {
	return r.Success + r.Exists + r.NotFound + r.Invalid
}

// EventType represents the type of change in the data directory.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a database file.
type Event struct {
	Type      EventType
	Database  string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Database)
}
