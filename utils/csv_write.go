package utils

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
)

// CSVWriter 通用 CSV 写入器，表头取自 col 标签
type CSVWriter[T any] struct {
	file          *os.File
	writer        *csv.Writer
	headerWritten bool
	columns       []columnInfo
}

type columnInfo struct {
	Index      int
	HeaderName string
	Kind       reflect.Kind
}

func NewCSVWriter[T any](filename string) (*CSVWriter[T], error) {
	cols, err := analyzeStructTags[T]()
	if err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &CSVWriter[T]{
		file:    f,
		writer:  csv.NewWriter(f),
		columns: cols,
	}, nil
}

func analyzeStructTags[T any]() ([]columnInfo, error) {
	var t T
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("generic type T must be a struct")
	}

	var cols []columnInfo
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		colTag := field.Tag.Get("col")
		if colTag == "" {
			colTag = field.Name
		}

		cols = append(cols, columnInfo{
			Index:      i,
			HeaderName: colTag,
			Kind:       field.Type.Kind(),
		})
	}
	return cols, nil
}

// Header returns the column names in write order.
func (cw *CSVWriter[T]) Header() []string {
	headers := make([]string, len(cw.columns))
	for i, col := range cw.columns {
		headers[i] = col.HeaderName
	}
	return headers
}

// Write 写入数据，首次写入时输出表头
func (cw *CSVWriter[T]) Write(data []T) error {
	if !cw.headerWritten {
		if err := cw.writer.Write(cw.Header()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		cw.headerWritten = true
	}

	record := make([]string, len(cw.columns))
	for _, item := range data {
		val := reflect.ValueOf(item)
		if val.Kind() == reflect.Ptr {
			val = val.Elem()
		}

		for i, col := range cw.columns {
			record[i] = formatField(val.Field(col.Index), col.Kind)
		}

		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}

// formatField 浮点数用最短表示，NaN/Inf 写空串 (入库为 NULL)
func formatField(v reflect.Value, kind reflect.Kind) string {
	switch kind {
	case reflect.Float64, reflect.Float32:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case reflect.String:
		return v.String()
	default:
		return fmt.Sprint(v.Interface())
	}
}

func (cw *CSVWriter[T]) Close() error {
	if !cw.headerWritten {
		cw.writer.Write(cw.Header())
		cw.headerWritten = true
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	return cw.file.Close()
}
