package cmd

import (
	"context"
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/proxy"
	"github.com/jing2uo/klinedata/server"
	"github.com/jing2uo/klinedata/service"
	"github.com/jing2uo/klinedata/source"
)

// NewHandler assembles the HTTP handler for cfg without starting a listener.
func NewHandler(cfg *config.Config) (*gin.Engine, error) {
	logger := newLogger(cfg)
	gin.SetMode(cfg.GinMode)

	store, err := source.New(cfg.SourceOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	client := proxy.NewTushareClient(cfg.TushareURL, cfg.TushareRPS, cfg.RequestTimeout)

	return server.NewRouter(&server.Config{
		StockHandler: server.NewStockHandler(service.NewStockService(store), logger),
		ProxyHandler: server.NewProxyHandler(client, logger),
		Logger:       logger,
	}), nil
}

func Serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	router, err := NewHandler(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("📂 数据来源: %s (%s)\n", cfg.SourceMode, cfg.DataDir)
	fmt.Printf("🚀 服务启动: http://localhost:%s/api/stock\n", cfg.Port)

	return server.Run(ctx, net.JoinHostPort("", cfg.Port), router, newLogger(cfg))
}
