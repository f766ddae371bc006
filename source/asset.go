package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jing2uo/klinedata/kline"
	"github.com/jing2uo/klinedata/model"
)

// AssetStore 读取预转换的 {key}.txt.json
type AssetStore struct {
	Dir string
}

func NewAssetStore(dir string) *AssetStore {
	return &AssetStore{Dir: dir}
}

func (s *AssetStore) Name() string { return "json" }

func (s *AssetStore) Load(ctx context.Context, code string) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := kline.ResolveFileKey(code)
	file := key + kline.AssetSuffix

	raw, err := readInDir(s.Dir, file)
	if err != nil {
		return nil, err
	}

	return payloadFromAsset(key, file, raw)
}

func payloadFromAsset(key, file string, raw []byte) (*Payload, error) {
	var asset model.Asset
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, decodeErr(file, err)
	}
	return &Payload{Key: key, File: file, StockName: asset.StockName, Text: asset.Content}, nil
}

// ReadAsset loads a JSON asset from an explicit path.
func ReadAsset(path string) (*model.Asset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var asset model.Asset
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", path, err)
	}
	return &asset, nil
}

// WriteAsset 以两空格缩进写出 JSON，先写临时文件再 rename，避免留下半个文件
func WriteAsset(path string, asset *model.Asset) error {
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode asset: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move asset into place: %w", err)
	}
	return nil
}
