package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jing2uo/klinedata/proxy"
	"github.com/jing2uo/klinedata/service"
	"github.com/jing2uo/klinedata/source"
	"github.com/sirupsen/logrus"
)

type mapStore map[string]*source.Payload

func (m mapStore) Name() string { return "map" }

func (m mapStore) Load(ctx context.Context, code string) (*source.Payload, error) {
	switch code {
	case "999999":
		return nil, fmt.Errorf("%w: SH999999.txt.gz: unexpected EOF", source.ErrDecode)
	}
	p, ok := m[code]
	if !ok {
		return nil, fmt.Errorf("%w: SZ000002.txt.gz", source.ErrSourceNotFound)
	}
	return p, nil
}

const doc = "\n浦发银行\ndate,open,high,low,close,volume\n20240101,10.0,10.5,9.8,10.2,1000000\n"

func newTestRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := mapStore{"600000": {Text: doc}}
	cfg := &Config{
		StockHandler: NewStockHandler(service.NewStockService(store), logger),
		Logger:       logger,
	}
	if upstreamURL != "" {
		cfg.ProxyHandler = NewProxyHandler(proxy.NewTushareClient(upstreamURL, 0, 2*time.Second), logger)
	}
	return NewRouter(cfg)
}

func serve(r http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStockDefaultCode(t *testing.T) {
	r := newTestRouter(t, "")
	w := serve(r, http.MethodGet, "/api/stock", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	expected := `{"success":true,"data":[{"date":"20240101","open":10,"high":10.5,"low":9.8,"close":10.2,"volume":1000000}],"stockName":"浦发银行"}`
	if strings.TrimSpace(w.Body.String()) != expected {
		t.Errorf("Expected %s, got %s", expected, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS origin *, got %q", got)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected request id header")
	}
}

func TestGetStockErrors(t *testing.T) {
	r := newTestRouter(t, "")

	tests := []struct {
		name   string
		target string
		status int
		substr string
	}{
		{"missing source", "/api/stock?code=2", http.StatusNotFound, "SZ000002.txt.gz"},
		{"decode failure", "/api/stock?code=999999", http.StatusInternalServerError, "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tt.target, nil)
			if w.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid JSON body: %v", err)
			}
			if body["success"] != false {
				t.Errorf("Expected success=false, got %v", body["success"])
			}
			if msg, _ := body["error"].(string); !strings.Contains(msg, tt.substr) {
				t.Errorf("Expected error containing %q, got %q", tt.substr, msg)
			}
		})
	}
}

func TestStockPreflightAndMethods(t *testing.T) {
	r := newTestRouter(t, "")

	w := serve(r, http.MethodOptions, "/api/stock", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for OPTIONS, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "GET") {
		t.Errorf("Expected allow methods to include GET, got %q", got)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty preflight body, got %q", w.Body.String())
	}

	w = serve(r, http.MethodDelete, "/api/stock", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected CORS origin on 405, got %q", got)
	}
	if strings.TrimSpace(w.Body.String()) != `{"error":"Method not allowed"}` {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestProxyMethodNotAllowedHasNoCORS(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	w := serve(newTestRouter(t, upstream.URL), http.MethodGet, "/api/tushare", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header on proxy 405, got %q", got)
	}
}

func TestNotFoundRoute(t *testing.T) {
	r := newTestRouter(t, "")
	w := serve(r, http.MethodGet, "/api/unknown", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"error":"Not found"}` {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	w := serve(newTestRouter(t, ""), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestProxyForward(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":{"items":[]}}`))
	}))
	defer upstream.Close()
	r := newTestRouter(t, upstream.URL)

	w := serve(r, http.MethodPost, "/api/tushare", strings.NewReader(`{"api_name":"daily","token":"t","params":{},"fields":""}`))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"code":0,"msg":"","data":{"items":[]}}` {
		t.Errorf("Expected upstream body unmodified, got %s", w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/tushare", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}
}

func TestProxyFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := upstream.URL
	upstream.Close()
	r := newTestRouter(t, url)

	w := serve(r, http.MethodPost, "/api/tushare", strings.NewReader(`{"api_name":"daily"}`))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	var body proxy.Failure
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != -1 || !strings.HasPrefix(body.Msg, "Server error: ") {
		t.Errorf("Unexpected failure body %+v", body)
	}

	w = serve(r, http.MethodPost, "/api/tushare", strings.NewReader(`not json`))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for malformed body, got %d", w.Code)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), logger)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
