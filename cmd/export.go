package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jing2uo/klinedata/config"
	"github.com/jing2uo/klinedata/convert"
	"github.com/jing2uo/klinedata/database"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/utils"
)

func Export(ctx context.Context, cfg *config.Config, format, outDir string, concurrency int) error {
	f, err := convert.ParseFormat(format)
	if err != nil {
		return err
	}
	if err := utils.CheckDirectory(cfg.DataDir); err != nil {
		return err
	}

	_, err = export(ctx, cfg, f, outDir, concurrency)
	return err
}

func export(ctx context.Context, cfg *config.Config, f convert.Format, outDir string, concurrency int) (*convert.ExportReport, error) {
	start := time.Now()
	fmt.Printf("🐢 开始导出日线数据: %s\n", cfg.DataDir)

	report, err := convert.Export(ctx, cfg.DataDir, outDir, f, convert.Options{
		Concurrency: concurrency,
		Logger:      newLogger(cfg),
		Progress:    progressPrinter("导出"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export bars: %w", err)
	}

	for _, e := range report.Errors {
		fmt.Printf("⚠️ %v\n", e)
	}
	fmt.Printf("✅ 已导出 %d 个文件, %d 条日线 -> %s (%s)\n",
		report.Sources, report.Rows, report.Output, time.Since(start).Round(time.Millisecond))
	return report, nil
}

// Import exports every source to a scratch CSV and loads it into DuckDB.
func Import(ctx context.Context, cfg *config.Config, dbPath string, concurrency int) error {
	if dbPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if err := utils.CheckDirectory(cfg.DataDir); err != nil {
		return err
	}

	tempDir, err := utils.GetCacheDir()
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	report, err := export(ctx, cfg, convert.FormatCSV, tempDir, concurrency)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := database.NewDatabase(model.DBConfig{Type: model.DBTypeDuckDB, DSN: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}
	if err := db.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := db.ImportDailyBars(report.Output); err != nil {
		return fmt.Errorf("failed to import bars csv: %w", err)
	}

	n, err := db.CountRows(model.TableDailyBars.TableName)
	if err != nil {
		return err
	}
	symbols, err := db.GetAllSymbols()
	if err != nil {
		return err
	}
	fmt.Printf("🚀 日线数据导入成功, %s 共 %d 只股票 %d 条\n", model.TableDailyBars.TableName, len(symbols), n)
	return nil
}
