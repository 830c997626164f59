package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TmpFile returns the path to a unique sqlite database file to be used in
// tests. The file lives in a per-test temporary directory and is cleaned up
// with it.
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String()+".db")
}
