// Package textfile reads newline-delimited text sources for bulk import.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrOpen is returned when the source cannot be opened.
var ErrOpen = errors.New("cannot open file")

// ReadLines returns the lines of the file at path with line terminators
// (LF or CRLF) removed. Blank lines are kept; callers decide what to skip.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
