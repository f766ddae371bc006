// Package convert migrates the data directory from gzip/GBK sources to JSON
// assets and exports parsed bars for offline analysis.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	gzExt   = ".gz"
	jsonExt = ".json"
)

// collectFiles 列出目录下 (不递归) 指定后缀的文件，按文件名排序
func collectFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// assetPathFor maps "SH600000.txt.gz" to "SH600000.txt.json".
func assetPathFor(gzPath string) string {
	return strings.TrimSuffix(gzPath, gzExt) + jsonExt
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
