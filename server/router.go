package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const stockPath = "/api/stock"

type Config struct {
	StockHandler *StockHandler
	ProxyHandler *ProxyHandler
	Logger       *logrus.Logger
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestID(), RequestLogger(cfg.Logger))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		// NoMethod 不经过 /api/stock 分组的中间件
		if c.Request.URL.Path == stockPath {
			setCORSHeaders(c.Writer.Header())
		}
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	registerStockRoutes(api, cfg.StockHandler)
	registerProxyRoutes(api, cfg.ProxyHandler)

	return router
}

func registerStockRoutes(router *gin.RouterGroup, h *StockHandler) {
	stock := router.Group("/stock", CORS())
	{
		stock.GET("", h.GetDaily)
		// answered by CORS before reaching here
		stock.OPTIONS("", func(c *gin.Context) { c.Status(http.StatusOK) })
	}
}

func registerProxyRoutes(router *gin.RouterGroup, h *ProxyHandler) {
	if h == nil {
		return
	}
	router.POST("/tushare", h.Forward)
}
