// Package source loads raw kline documents for a stock code from the
// storage layouts the data directory may hold.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrDecode         = errors.New("decode failed")
)

// Payload 一次加载得到的原始文档
type Payload struct {
	Key  string
	File string
	// StockName is the name declared by a JSON asset; empty for gzip sources.
	StockName string
	Text      string
}

type Store interface {
	Name() string
	Load(ctx context.Context, code string) (*Payload, error)
}

type Mode string

const (
	ModeGzip   Mode = "gz"
	ModeJSON   Mode = "json"
	ModeAuto   Mode = "auto"
	ModeRemote Mode = "remote"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeGzip, ModeJSON, ModeAuto, ModeRemote:
		return m, nil
	default:
		return "", fmt.Errorf("unknown source mode %q (expected gz, json, auto or remote)", s)
	}
}

type Options struct {
	Mode    Mode
	Dir     string
	BaseURL string
}

func New(opts Options) (Store, error) {
	switch opts.Mode {
	case ModeGzip:
		return NewGzipStore(opts.Dir), nil
	case ModeJSON:
		return NewAssetStore(opts.Dir), nil
	case ModeAuto:
		return NewAutoStore(NewAssetStore(opts.Dir), NewGzipStore(opts.Dir)), nil
	case ModeRemote:
		if opts.BaseURL == "" {
			return nil, errors.New("remote source mode requires a base url")
		}
		return NewRemoteAssetStore(opts.BaseURL, nil), nil
	default:
		return nil, fmt.Errorf("unsupported source mode: %s", opts.Mode)
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSourceNotFound)
}

func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

func notFound(file string) error {
	return fmt.Errorf("%w: %s", ErrSourceNotFound, file)
}

func decodeErr(file string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, file, cause)
}

// readInDir reads file from dir through an os.Root, so a key carrying path
// elements can never reach outside dir. Such keys count as missing sources.
func readInDir(dir, file string) ([]byte, error) {
	if strings.ContainsAny(file, `/\`) || strings.Contains(file, "..") {
		return nil, notFound(file)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(file)
		}
		return nil, fmt.Errorf("failed to open data dir %s: %w", dir, err)
	}
	defer root.Close()

	raw, err := root.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(file)
		}
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return raw, nil
}
