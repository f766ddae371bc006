package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/proxy"
	"github.com/jing2uo/klinedata/service"
	"github.com/jing2uo/klinedata/source"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	stockService *service.StockService
	logger       *logrus.Logger
}

func NewStockHandler(svc *service.StockService, logger *logrus.Logger) *StockHandler {
	return &StockHandler{stockService: svc, logger: logger}
}

// GetDaily 获取本地K线数据: GET /api/stock?code=600000
func (h *StockHandler) GetDaily(c *gin.Context) {
	code := c.Query("code")

	resp, err := h.stockService.GetDaily(c.Request.Context(), code)
	if err != nil {
		status := http.StatusInternalServerError
		if source.IsNotFound(err) {
			status = http.StatusNotFound
		}
		h.logger.WithFields(logrus.Fields{
			"code":   code,
			"source": h.stockService.StoreName(),
		}).Errorf("读取数据失败: %v", err)
		c.JSON(status, model.NewErrorBody("无法读取股票数据: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, resp)
}

type ProxyHandler struct {
	client *proxy.TushareClient
	logger *logrus.Logger
}

func NewProxyHandler(client *proxy.TushareClient, logger *logrus.Logger) *ProxyHandler {
	return &ProxyHandler{client: client, logger: logger}
}

// Forward 代理 Tushare Pro API: POST /api/tushare
func (h *ProxyHandler) Forward(c *gin.Context) {
	var req proxy.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}

	body, err := h.client.Forward(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (h *ProxyHandler) fail(c *gin.Context, err error) {
	h.logger.Errorf("Proxy error: %v", err)
	c.JSON(http.StatusInternalServerError, proxy.NewFailure(err))
}
