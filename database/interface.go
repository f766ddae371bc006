package database

import (
	"github.com/jing2uo/klinedata/model"
)

// DataRepository 离线分析库，只用于 import/查询，不在 HTTP 服务路径上
type DataRepository interface {
	Connect() error
	Close() error

	InitSchema() error

	// ImportDailyBars replaces raw_daily_bars with the rows of an exported CSV.
	ImportDailyBars(csvPath string) error

	CountRows(table string) (int64, error)
	GetAllSymbols() ([]string, error)
	QueryDailyBars(symbol string) ([]model.BarRecord, error)
}
