package core

import "errors"

// Common errors.
var (
	ErrNoDatabase         = errors.New("no database selected")
	ErrTransactionClosed  = errors.New("transaction closed")
	ErrInvalidCanonicalID = errors.New("id is empty")
)

// Naming errors returned by a Registry.
var (
	ErrNameEmpty   = errors.New("database name is empty")
	ErrNameExists  = errors.New("database already exists")
	ErrInvalidName = errors.New("database name must not contain path separators")
	ErrNotFound    = errors.New("database not found")
)
