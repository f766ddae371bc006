package source

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/jing2uo/klinedata/kline"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// GzipStore 读取通达信导出的 {key}.txt.gz (gzip 压缩, GBK 编码)
type GzipStore struct {
	Dir string
}

func NewGzipStore(dir string) *GzipStore {
	return &GzipStore{Dir: dir}
}

func (s *GzipStore) Name() string { return "gz" }

func (s *GzipStore) Load(ctx context.Context, code string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := kline.ResolveFileKey(code)
	file := key + kline.GzipSuffix

	raw, err := readInDir(s.Dir, file)
	if err != nil {
		return nil, err
	}

	text, err := DecodeGzipGBK(raw)
	if err != nil {
		return nil, decodeErr(file, err)
	}

	return &Payload{Key: key, File: file, Text: text}, nil
}

// DecodeGzipGBK 解压 gzip 并将 GBK 转为 UTF-8
func DecodeGzipGBK(raw []byte) (string, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("failed to decompress: %w", err)
	}

	utf8, err := simplifiedchinese.GBK.NewDecoder().Bytes(decompressed)
	if err != nil {
		return "", fmt.Errorf("failed to decode GBK: %w", err)
	}
	return string(utf8), nil
}
