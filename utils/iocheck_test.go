package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := CheckDirectory(dir); err != nil {
		t.Errorf("Expected existing dir to pass: %v", err)
	}
	if err := CheckDirectory(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing dir")
	}

	file := filepath.Join(dir, "f")
	os.WriteFile(file, []byte("x"), 0644)
	if err := CheckDirectory(file); err == nil {
		t.Error("Expected error for regular file")
	}
}

func TestCheckOutputDirCreates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "a", "b")
	if err := CheckOutputDir(out); err != nil {
		t.Fatalf("CheckOutputDir failed: %v", err)
	}
	if err := CheckDirectory(out); err != nil {
		t.Errorf("Expected output dir to exist: %v", err)
	}
	if err := CheckOutputDir(out); err != nil {
		t.Errorf("Expected existing writable dir to pass: %v", err)
	}
}
