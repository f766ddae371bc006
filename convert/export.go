package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jing2uo/klinedata/kline"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/source"
	"github.com/jing2uo/klinedata/utils"
)

type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected csv or parquet)", s)
	}
}

// FileName 导出文件名
func (f Format) FileName() string {
	return "daily_bars." + string(f)
}

type rowWriter interface {
	Write(rows []model.BarRecord) error
	Close() error
}

func newRowWriter(format Format, path string) (rowWriter, error) {
	switch format {
	case FormatCSV:
		return utils.NewCSVWriter[model.BarRecord](path)
	case FormatParquet:
		return utils.NewParquetWriter[model.BarRecord](path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

type ExportReport struct {
	Output  string
	Sources int
	Rows    int64
	Errors  []error
}

// sourceRows 单个源文件的解析结果, index 为其在有序文件列表中的位置
type sourceRows struct {
	index int
	rows  []model.BarRecord
	err   error
}

// orderedWriter 按文件顺序写出并发解析的结果，使输出与并发度无关
type orderedWriter struct {
	w       rowWriter
	next    int
	pending map[int]sourceRows
	rows    int64
	errs    []error
}

func (o *orderedWriter) add(batch []sourceRows) error {
	for _, s := range batch {
		o.pending[s.index] = s
	}
	for {
		s, ok := o.pending[o.next]
		if !ok {
			return nil
		}
		delete(o.pending, o.next)
		o.next++
		if err := o.emit(s); err != nil {
			return err
		}
	}
}

// flush writes what is left after inputs went missing (cancelled or panicked).
func (o *orderedWriter) flush() error {
	keys := make([]int, 0, len(o.pending))
	for k := range o.pending {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if err := o.emit(o.pending[k]); err != nil {
			return err
		}
		delete(o.pending, k)
	}
	return nil
}

func (o *orderedWriter) emit(s sourceRows) error {
	if s.err != nil {
		o.errs = append(o.errs, s.err)
		return nil
	}
	if len(s.rows) == 0 {
		return nil
	}
	if err := o.w.Write(s.rows); err != nil {
		return err
	}
	o.rows += int64(len(s.rows))
	return nil
}

// Export parses every source in dir and writes all bars to one file under outDir.
// When both {key}.txt.json and {key}.txt.gz exist the JSON asset is used.
// Rows are written in file name order, then in document order.
func Export(ctx context.Context, dir, outDir string, format Format, opts Options) (*ExportReport, error) {
	paths, err := exportSources(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt.gz or .txt.json files found in %s", dir)
	}

	if err := utils.CheckOutputDir(outDir); err != nil {
		return nil, err
	}
	output := filepath.Join(outDir, format.FileName())

	w, err := newRowWriter(format, output)
	if err != nil {
		return nil, err
	}
	ow := &orderedWriter{w: w, pending: make(map[int]sourceRows)}

	indexes := make([]int, len(paths))
	for i := range indexes {
		indexes[i] = i
	}

	pipeline := utils.NewPipeline[int, sourceRows](
		utils.WithConcurrency(opts.Concurrency),
		utils.WithProgress(opts.Progress),
	)
	res, err := pipeline.Run(ctx, indexes,
		func(ctx context.Context, i int) ([]sourceRows, error) {
			rows, err := loadRecords(paths[i])
			return []sourceRows{{index: i, rows: rows, err: err}}, nil
		},
		ow.add,
	)
	if err == nil {
		err = ow.flush()
	}
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	errs := ow.errs
	if res.HasErrors() {
		errs = append(errs, res.Errors...)
	}
	return &ExportReport{
		Output:  output,
		Sources: len(paths),
		Rows:    ow.rows,
		Errors:  errs,
	}, nil
}

func exportSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	byKey := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := kline.KeyFromFileName(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if prev, seen := byKey[key]; seen && filepath.Ext(prev) == jsonExt {
			continue
		}
		byKey[key] = path
	}

	paths := make([]string, 0, len(byKey))
	for _, p := range byKey {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func loadRecords(path string) ([]model.BarRecord, error) {
	name := filepath.Base(path)
	key, _ := kline.KeyFromFileName(name)

	var text, declared string
	if filepath.Ext(path) == jsonExt {
		asset, err := source.ReadAsset(path)
		if err != nil {
			return nil, err
		}
		text, declared = asset.Content, asset.StockName
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if text, err = source.DecodeGzipGBK(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	doc := kline.ParseDocument(text)
	if declared == "" {
		declared = doc.StockName
	}
	return model.NewBarRecords(key, declared, doc.Bars), nil
}
