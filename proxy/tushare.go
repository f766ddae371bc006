// Package proxy forwards Tushare Pro API calls from the browser.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const DefaultTushareURL = "https://api.tushare.pro/"

// Request 只转发这四个字段，值保持原样
type Request struct {
	APIName json.RawMessage `json:"api_name,omitempty"`
	Token   json.RawMessage `json:"token,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Fields  json.RawMessage `json:"fields,omitempty"`
}

// Failure is the body returned when the upstream cannot be reached.
type Failure struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func NewFailure(err error) Failure {
	return Failure{Code: -1, Msg: "Server error: " + err.Error()}
}

type TushareClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// NewTushareClient builds a client. rps <= 0 disables throttling.
func NewTushareClient(url string, rps float64, timeout time.Duration) *TushareClient {
	if url == "" {
		url = DefaultTushareURL
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &TushareClient{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Forward posts req upstream and returns the raw JSON body.
func (c *TushareClient) Forward(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("upstream returned invalid JSON")
	}
	return json.RawMessage(body), nil
}
