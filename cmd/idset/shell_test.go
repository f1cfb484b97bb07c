package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camellia2077/idset"
)

func TestRunShell(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc, reg, err := idset.New(dir)
	require.NoError(t, err)
	defer reg.Close()

	importFile := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(importFile, []byte("GH12\nIJ34\n"), 0644))

	input := strings.Join([]string{
		"1", "AB12 cd-34 9",
		"2", "AB12 ZZ99",
		"3", "alpha",
		"6", importFile,
		"4", "database",
		"5",
		"7",
		"0",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, runShell(ctx, svc, strings.NewReader(input), &out))

	text := out.String()
	assert.Contains(t, text, "Added: 2.")
	assert.Contains(t, text, "Malformed: 1.")
	assert.Contains(t, text, "Found: 1. Not found: 1.")
	assert.Contains(t, text, "Created and switched to database alpha.bin.")
	assert.Contains(t, text, "Import finished in [alpha.bin]")
	assert.Contains(t, text, "Switched to database database.bin.")
	assert.Contains(t, text, `Unknown option "7"`)

	n, err := svc.TotalRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunShell_EOF(t *testing.T) {
	svc, reg, err := idset.New(t.TempDir())
	require.NoError(t, err)
	defer reg.Close()

	var out bytes.Buffer
	assert.NoError(t, runShell(context.Background(), svc, strings.NewReader("1\n"), &out))
	assert.Contains(t, out.String(), "IDs to add: ")
}
