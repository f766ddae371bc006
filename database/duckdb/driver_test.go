package duckdb

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/utils"
)

func newTestDriver(t *testing.T) *DuckDBDriver {
	t.Helper()
	d := NewDriver(model.DBConfig{Type: model.DBTypeDuckDB, DSN: filepath.Join(t.TempDir(), "test.duckdb")})
	if err := d.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.InitSchema(); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	return d
}

func writeCSV(t *testing.T, rows []model.BarRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daily_bars.csv")
	w, err := utils.NewCSVWriter[model.BarRecord](path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) > 0 {
		if err := w.Write(rows); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportDailyBars(t *testing.T) {
	d := newTestDriver(t)
	path := writeCSV(t, []model.BarRecord{
		{Symbol: "SH600000", Name: "浦发银行", Date: "2024/01/03", Open: 6.63, High: 6.7, Low: 6.61, Close: 6.68, Volume: 41200310},
		{Symbol: "SH600000", Name: "浦发银行", Date: "2024/01/02", Open: 6.6, High: 6.66, Low: 6.58, Close: 6.63, Volume: math.NaN()},
		{Symbol: "SZ000001", Name: "平安银行", Date: "2024/01/02", Open: 9.39, High: 9.42, Low: 9.21, Close: 9.21, Volume: 115347034},
	})

	if err := d.ImportDailyBars(path); err != nil {
		t.Fatalf("ImportDailyBars failed: %v", err)
	}
	// 重复导入为全量覆盖
	if err := d.ImportDailyBars(path); err != nil {
		t.Fatalf("second ImportDailyBars failed: %v", err)
	}

	n, err := d.CountRows(model.TableDailyBars.TableName)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows, got %d", n)
	}

	symbols, err := d.GetAllSymbols()
	if err != nil {
		t.Fatal(err)
	}
	if len(symbols) != 2 || symbols[0] != "SH600000" || symbols[1] != "SZ000001" {
		t.Errorf("Unexpected symbols %v", symbols)
	}

	bars, err := d.QueryDailyBars("SH600000")
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(bars))
	}
	if bars[0].Date != "2024/01/02" || !math.IsNaN(bars[0].Volume) {
		t.Errorf("Expected first bar with NaN volume, got %+v", bars[0])
	}
	if bars[1].Close != 6.68 || bars[1].Name != "浦发银行" {
		t.Errorf("Unexpected second bar %+v", bars[1])
	}
}

func TestImportEmptyCSV(t *testing.T) {
	d := newTestDriver(t)
	if err := d.ImportDailyBars(writeCSV(t, nil)); err != nil {
		t.Fatalf("ImportDailyBars failed: %v", err)
	}
	n, err := d.CountRows(model.TableDailyBars.TableName)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected 0 rows, got %d", n)
	}
}
