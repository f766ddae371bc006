package workflow

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const sample = "600000 浦发银行 日线 不复权\n" +
	"日期,开盘,最高,最低,收盘,成交量,成交额\n" +
	"2024/01/02,6.60,6.66,6.58,6.63,38512345,255210880.00\n"

func writeSource(t *testing.T, path string) {
	t.Helper()
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(encoded))
	zw.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func testArgs(dir string) *TaskArgs {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &TaskArgs{DataDir: dir, Logger: logger}
}

func TestConvertThenPurge(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "SH600000.txt.gz"))
	os.WriteFile(filepath.Join(dir, "SZ000001.txt.gz"), []byte("not gzip"), 0644)

	te := NewTaskExecutor(DefaultTasks())
	results, err := te.Run(context.Background(), []string{NameConvert, NamePurge}, testArgs(dir))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if results[NameConvert].Rows != 1 {
		t.Errorf("Expected 1 converted, got %d", results[NameConvert].Rows)
	}
	if results[NamePurge].Rows != 1 {
		t.Errorf("Expected 1 purged, got %d", results[NamePurge].Rows)
	}

	if _, err := os.Stat(filepath.Join(dir, "SH600000.txt.json")); err != nil {
		t.Errorf("Expected asset to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "SH600000.txt.gz")); !os.IsNotExist(err) {
		t.Error("Expected converted source to be purged")
	}
	if _, err := os.Stat(filepath.Join(dir, "SZ000001.txt.gz")); err != nil {
		t.Error("Failed source must survive the purge")
	}
}

func TestPurgeDryRun(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "SH600000.txt.gz"))

	args := testArgs(dir)
	args.DryRun = true
	te := NewTaskExecutor(DefaultTasks())
	results, err := te.Run(context.Background(), []string{NameConvert, NamePurge}, args)
	if err != nil {
		t.Fatal(err)
	}
	if results[NamePurge].Rows != 1 {
		t.Errorf("Expected dry run to report 1 file, got %d", results[NamePurge].Rows)
	}
	if _, err := os.Stat(filepath.Join(dir, "SH600000.txt.gz")); err != nil {
		t.Error("Dry run must not delete sources")
	}
}

func TestConvertEmptyDirIsSkipped(t *testing.T) {
	te := NewTaskExecutor(DefaultTasks())
	results, err := te.Run(context.Background(), []string{NameConvert}, testArgs(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	if results[NameConvert].State != StateSkipped {
		t.Errorf("Expected skipped, got %s", results[NameConvert].State)
	}
}

func TestConvertMissingDir(t *testing.T) {
	te := NewTaskExecutor(DefaultTasks())
	_, err := te.Run(context.Background(), []string{NameConvert}, testArgs(filepath.Join(t.TempDir(), "nope")))
	if err == nil {
		t.Error("Expected error for missing data directory")
	}
}
