package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jing2uo/klinedata/kline"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/source"
	"github.com/jing2uo/klinedata/utils"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Force rewrites assets that already exist.
	Force       bool
	Concurrency int
	Logger      *logrus.Logger
	Progress    func(done, total int)
}

type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeSkipped   Outcome = "skipped"
)

type fileResult struct {
	File    string
	Outcome Outcome
	Bars    int
}

// Report 转换统计
type Report struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
	Bars      int64
	Errors    []error
	// ErrorSummary is empty when every file succeeded.
	ErrorSummary string
}

// ConvertAssets writes a {name}.json asset next to every *.gz source in dir.
// Existing assets are skipped unless opts.Force, so re-running is safe.
// A failing file is logged and counted; it never stops the batch. An error is
// returned only when no file could be converted or skipped.
func ConvertAssets(ctx context.Context, dir string, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger("info")
	}

	files, err := collectFiles(dir, gzExt)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(files)}
	if len(files) == 0 {
		return report, nil
	}

	pipeline := utils.NewPipeline[string, fileResult](
		utils.WithConcurrency(opts.Concurrency),
		utils.WithProgress(opts.Progress),
	)

	res, err := pipeline.Run(ctx, files,
		func(ctx context.Context, gzPath string) ([]fileResult, error) {
			r, err := convertOne(gzPath, opts.Force)
			if err != nil {
				logger.WithField("file", filepath.Base(gzPath)).Errorf("✗ %v", err)
				return nil, err
			}
			return []fileResult{r}, nil
		},
		func(rows []fileResult) error {
			for _, r := range rows {
				switch r.Outcome {
				case OutcomeConverted:
					report.Converted++
					report.Bars += int64(r.Bars)
					logger.WithFields(logrus.Fields{"file": r.File, "bars": r.Bars}).Infof("✓ %s -> %s", r.File, filepath.Base(assetPathFor(r.File)))
				case OutcomeSkipped:
					report.Skipped++
					logger.WithField("file", r.File).Debug("asset exists, skipped")
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	if !res.HasErrors() {
		return report, nil
	}

	report.Failed = len(res.Errors)
	report.Errors = res.Errors
	report.ErrorSummary = res.ErrorSummary()
	logger.Warnf("%d/%d files failed", report.Failed, report.Total)

	if report.Converted+report.Skipped == 0 {
		return nil, fmt.Errorf("all %d files failed: %w", report.Total, res.FirstError())
	}
	return report, nil
}

func convertOne(gzPath string, force bool) (fileResult, error) {
	name := filepath.Base(gzPath)
	jsonPath := assetPathFor(gzPath)

	if !force && exists(jsonPath) {
		return fileResult{File: name, Outcome: OutcomeSkipped}, nil
	}

	raw, err := os.ReadFile(gzPath)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", name, err)
	}

	content, err := source.DecodeGzipGBK(raw)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", name, err)
	}

	doc := kline.ParseDocument(content)
	asset := &model.Asset{
		StockName: doc.StockName,
		Content:   content,
		Data:      doc.Bars,
	}
	if err := source.WriteAsset(jsonPath, asset); err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", name, err)
	}

	return fileResult{File: name, Outcome: OutcomeConverted, Bars: len(doc.Bars)}, nil
}
