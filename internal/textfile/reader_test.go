package textfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "LF", content: "AB12\nCD34\n", want: []string{"AB12", "CD34"}},
		{name: "CRLF", content: "AB12\r\nCD34\r\n", want: []string{"AB12", "CD34"}},
		{name: "No Trailing Newline", content: "AB12\nCD34", want: []string{"AB12", "CD34"}},
		{name: "Blank Lines Kept", content: "AB12\n\n  \nCD34\n", want: []string{"AB12", "", "  ", "CD34"}},
		{name: "Empty", content: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ids.txt")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			got, err := ReadLines(path)
			if err != nil {
				t.Fatalf("ReadLines: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReadLines_Missing(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the cause to be preserved, got %v", err)
	}
}
