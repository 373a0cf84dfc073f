package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		"file1.go":        "package main",
		"file2.go":        "package main",
		"file3.txt":       "This is a text file",
		"subdir/file4.go": "package subdir",
	}
	writeFiles(t, tempDir, files)

	scanner := New(tempDir, ".go")
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, 3, len(scannedFiles), "Should find 3 Go files")

	foundPaths := make(map[string]bool)
	for _, file := range scannedFiles {
		foundPaths[file.Path] = true
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}

	assert.True(t, foundPaths[filepath.Join(tempDir, "file1.go")], "Should find file1.go")
	assert.True(t, foundPaths[filepath.Join(tempDir, "file2.go")], "Should find file2.go")
	assert.True(t, foundPaths[filepath.Join(tempDir, "subdir/file4.go")], "Should find subdir/file4.go")
	assert.False(t, foundPaths[filepath.Join(tempDir, "file3.txt")], "Should not find file3.txt")
}

func TestScannerHonorsGitignore(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		".gitignore":           "vendor/\n*_gen.go\n",
		"main.go":              "package main",
		"handler_gen.go":       "package main",
		"vendor/dep/dep.go":    "package dep",
		"internal/internal.go": "package internal",
	}
	writeFiles(t, tempDir, files)

	scanner := New(tempDir, ".go")
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	foundPaths := make(map[string]bool)
	for _, file := range scannedFiles {
		foundPaths[file.Path] = true
	}

	assert.True(t, foundPaths[filepath.Join(tempDir, "main.go")], "Should find main.go")
	assert.True(t, foundPaths[filepath.Join(tempDir, "internal/internal.go")], "Should find internal/internal.go")
	assert.False(t, foundPaths[filepath.Join(tempDir, "vendor/dep/dep.go")], "Should skip vendored files")
	assert.False(t, foundPaths[filepath.Join(tempDir, "handler_gen.go")], "Should skip generated files")
}

func TestScannerWithoutExtensions(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		"file1.go":  "package main",
		"file2.txt": "This is a text file",
	}
	writeFiles(t, tempDir, files)

	scanner := New(tempDir)
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, 2, len(scannedFiles), "Should find every file when no extension is given")
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}
}
