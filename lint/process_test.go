package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcessPathContextCancellation tests that context cancellation is handled properly
func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeRedundantClosureFiles(t, tempDir, 10)

	engine, err := New(tempDir, nil, "")
	require.NoError(t, err)

	// cancel before processing starts so the first file already sees it
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, issues)
}

// TestProcessPathCollectsAllFiles tests that concurrent processing reports
// issues from every file in the directory
func TestProcessPathCollectsAllFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeRedundantClosureFiles(t, tempDir, 5)

	engine, err := New(tempDir, nil, "")
	require.NoError(t, err)

	ctx := context.Background()
	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)
	assert.NoError(t, err)

	fileMap := make(map[string]bool)
	for _, issue := range issues {
		assert.Equal(t, "redundant-closure", issue.Rule)
		fileMap[issue.Filename] = true
	}

	assert.Len(t, fileMap, 5, "should have issues from every file")
}

// TestConcurrentProcessingWithErrors tests error handling in concurrent processing
func TestConcurrentProcessingWithErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeRedundantClosureFiles(t, tempDir, 3)

	invalidFile := filepath.Join(tempDir, "invalid.go")
	err := os.WriteFile(invalidFile, []byte("this is not valid go code"), 0o644)
	require.NoError(t, err)

	engine, err := New(tempDir, nil, "")
	require.NoError(t, err)

	ctx := context.Background()
	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)

	// the parse failure is reported, but the valid files are still linted
	assert.Error(t, err)
	assert.Len(t, issues, 3)
}

// TestErrorPropagationSingleFile tests that errors are properly propagated for single files
func TestErrorPropagationSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	invalidFile := filepath.Join(tempDir, "invalid.go")
	err := os.WriteFile(invalidFile, []byte("this is not valid go code"), 0o644)
	require.NoError(t, err)

	engine, err := New(tempDir, nil, "")
	require.NoError(t, err)

	ctx := context.Background()
	issues, err := ProcessPath(ctx, nil, engine, invalidFile, ProcessFile)

	assert.Error(t, err)
	assert.Empty(t, issues)
}

// writeRedundantClosureFiles creates n files that each report exactly one
// redundant-closure issue.
func writeRedundantClosureFiles(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		filename := filepath.Join(dir, fmt.Sprintf("test%d.go", i))
		content := fmt.Sprintf(`package main

func double%d(x int) int { return x * 2 }

func apply%d(f func(int) int, v int) int { return f(v) }

func run%d() int {
	return apply%d(func(x int) int { return double%d(x) }, %d)
}
`, i, i, i, i, i, i)
		err := os.WriteFile(filename, []byte(content), 0o644)
		require.NoError(t, err)
	}
}
