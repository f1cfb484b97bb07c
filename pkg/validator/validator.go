// Package validator decides whether a raw token is a well-formed ID and
// produces its canonical form.
//
// An ID is a run of ASCII letters, an optional separator (any amount of spaces
// or tabs and at most one hyphen), and a run of digits: "AB1234", "ab-1234",
// "AB 1234". The canonical form drops the separator and folds the letters
// according to the grammar's Folding policy.
package validator

import (
	"fmt"
	"strings"
)

// Folding is the case-folding policy applied to the letters run.
type Folding int

const (
	FoldNone Folding = iota
	FoldLower
	FoldUpper
)

// DefaultFolding is the deployment-wide case policy: IDs are stored upper-cased
// so that "ab1234" and "AB1234" denote the same record.
const DefaultFolding = FoldUpper

func (f Folding) String() string {
	switch f {
	case FoldNone:
		return "none"
	case FoldLower:
		return "lower"
	case FoldUpper:
		return "upper"
	}
	return fmt.Sprintf("folding(%d)", int(f))
}

// ParseFolding maps a configuration value ("none", "lower", "upper") to a Folding.
func ParseFolding(s string) (Folding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "preserve":
		return FoldNone, nil
	case "lower":
		return FoldLower, nil
	case "upper", "":
		return FoldUpper, nil
	}
	return FoldNone, fmt.Errorf("unknown case folding %q", s)
}

// Grammar holds the length bounds of both runs and the folding policy.
// A zero Max means the run is unbounded.
type Grammar struct {
	MinLetters int
	MaxLetters int
	MinDigits  int
	MaxDigits  int
	Folding    Folding
}

var (
	// DefaultGrammar accepts 2-4 letters followed by 2-4 digits.
	DefaultGrammar = Grammar{MinLetters: 2, MaxLetters: 4, MinDigits: 2, MaxDigits: 4, Folding: DefaultFolding}

	// LooseGrammar accepts any non-empty letters run followed by any non-empty digits run.
	LooseGrammar = Grammar{MinLetters: 1, MinDigits: 1, Folding: DefaultFolding}

	// StrictGrammar accepts 3-4 letters followed by 3-4 digits.
	StrictGrammar = Grammar{MinLetters: 3, MaxLetters: 4, MinDigits: 3, MaxDigits: 4, Folding: DefaultFolding}
)

// Validate checks that the bounds are consistent.
func (g Grammar) Validate() error {
	if g.MinLetters < 1 {
		return fmt.Errorf("min letters must be at least 1, got %d", g.MinLetters)
	}
	if g.MinDigits < 1 {
		return fmt.Errorf("min digits must be at least 1, got %d", g.MinDigits)
	}
	if g.MaxLetters != 0 && g.MaxLetters < g.MinLetters {
		return fmt.Errorf("max letters %d is below min letters %d", g.MaxLetters, g.MinLetters)
	}
	if g.MaxDigits != 0 && g.MaxDigits < g.MinDigits {
		return fmt.Errorf("max digits %d is below min digits %d", g.MaxDigits, g.MinDigits)
	}
	if g.Folding < FoldNone || g.Folding > FoldUpper {
		return fmt.Errorf("invalid case folding %d", int(g.Folding))
	}
	return nil
}

type parseState int

const (
	readingLetters parseState = iota
	readingSeparator
	readingDigits
)

// Classify reports whether raw is a well-formed ID and returns its canonical form.
// It never fails on malformed input; ok is false instead.
func (g Grammar) Classify(raw string) (id string, ok bool) {
	var letters, digits strings.Builder
	hyphens := 0
	state := readingLetters

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch state {
		case readingLetters:
			switch {
			case isLetter(c):
				letters.WriteByte(c)
			case letters.Len() == 0:
				// An ID starts with a letter.
				return "", false
			case isDigit(c):
				digits.WriteByte(c)
				state = readingDigits
			case isSpace(c):
				state = readingSeparator
			case c == '-':
				hyphens++
				state = readingSeparator
			default:
				return "", false
			}

		case readingSeparator:
			switch {
			case isSpace(c):
			case c == '-':
				hyphens++
				if hyphens > 1 {
					return "", false
				}
			case isDigit(c):
				digits.WriteByte(c)
				state = readingDigits
			default:
				return "", false
			}

		case readingDigits:
			if !isDigit(c) {
				return "", false
			}
			digits.WriteByte(c)
		}
	}

	if !inBounds(letters.Len(), g.MinLetters, g.MaxLetters) || !inBounds(digits.Len(), g.MinDigits, g.MaxDigits) {
		return "", false
	}

	return g.fold(letters.String()) + digits.String(), true
}

// Valid reports whether raw is a well-formed ID.
func (g Grammar) Valid(raw string) bool {
	_, ok := g.Classify(raw)
	return ok
}

func (g Grammar) fold(s string) string {
	switch g.Folding {
	case FoldLower:
		return strings.ToLower(s)
	case FoldUpper:
		return strings.ToUpper(s)
	}
	return s
}

func inBounds(n, min, max int) bool {
	if n < min || n == 0 {
		return false
	}
	return max == 0 || n <= max
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
