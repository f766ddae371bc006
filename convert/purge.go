package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jing2uo/klinedata/source"
	"github.com/jing2uo/klinedata/utils"
	"github.com/sirupsen/logrus"
)

// PurgeReport 清理统计
type PurgeReport struct {
	Candidates int
	Deleted    []string
	// Kept lists sources without a readable asset; they are never deleted.
	Kept []string
}

// PurgeSources deletes *.gz files in dir whose JSON asset exists and decodes.
// With dryRun the files that would be deleted are reported but left in place.
func PurgeSources(ctx context.Context, dir string, dryRun bool, logger *logrus.Logger) (*PurgeReport, error) {
	if logger == nil {
		logger = utils.NewLogger("info")
	}

	files, err := collectFiles(dir, gzExt)
	if err != nil {
		return nil, err
	}

	report := &PurgeReport{Candidates: len(files)}
	for _, gzPath := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := filepath.Base(gzPath)
		jsonPath := assetPathFor(gzPath)
		if _, err := source.ReadAsset(jsonPath); err != nil {
			logger.WithField("file", name).Warnf("no usable asset, keeping source: %v", err)
			report.Kept = append(report.Kept, name)
			continue
		}

		if dryRun {
			logger.WithField("file", name).Info("would delete")
			report.Deleted = append(report.Deleted, name)
			continue
		}

		if err := os.Remove(gzPath); err != nil {
			return report, fmt.Errorf("failed to remove %s: %w", gzPath, err)
		}
		logger.WithField("file", name).Info("deleted")
		report.Deleted = append(report.Deleted, name)
	}

	return report, nil
}
