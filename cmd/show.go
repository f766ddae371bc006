package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/database"
	"github.com/jing2uo/klinedata/kline"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/service"
	"github.com/jing2uo/klinedata/source"
)

// Show writes the same JSON body GET /api/stock would return for code.
func Show(ctx context.Context, cfg *config.Config, code string, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := source.New(cfg.SourceOptions())
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}

	resp, err := service.NewStockService(store).GetDaily(ctx, code)
	if err != nil {
		return fmt.Errorf("无法读取股票数据: %w", err)
	}

	return writeJSON(w, resp)
}

// ShowFromDB answers the same lookup from a DuckDB file written by Import.
func ShowFromDB(ctx context.Context, dbPath, code string, w io.Writer) error {
	if code == "" {
		code = service.DefaultCode
	}
	key := kline.ResolveFileKey(code)

	db, err := database.NewDatabase(model.DBConfig{Type: model.DBTypeDuckDB, DSN: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}
	if err := db.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := db.QueryDailyBars(key)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("无法读取股票数据: %w: %s in %s", source.ErrSourceNotFound, key, dbPath)
	}

	bars := make([]model.DailyBar, len(records))
	for i, r := range records {
		bars[i] = r.DailyBar()
	}
	return writeJSON(w, model.NewResponse(records[0].Name, bars))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
