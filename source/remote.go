package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jing2uo/klinedata/kline"
)

// RemoteAssetStore fetches {key}.txt.json from a static asset host.
// Any non-2xx answer is treated as a missing source.
type RemoteAssetStore struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteAssetStore(baseURL string, client *http.Client) *RemoteAssetStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAssetStore{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (s *RemoteAssetStore) Name() string { return "remote" }

func (s *RemoteAssetStore) Load(ctx context.Context, code string) (*Payload, error) {
	key := kline.ResolveFileKey(code)
	file := key + kline.AssetSuffix
	// 文件名整体作为一个路径段
	target := s.BaseURL + "/" + url.PathEscape(file)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request for %s: %w", target, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, notFound(file)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", target, err)
	}

	return payloadFromAsset(key, file, raw)
}
