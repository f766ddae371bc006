package duckdb

import (
	"fmt"
	"strings"

	"github.com/jing2uo/klinedata/model"
)

func (d *DuckDBDriver) importCSV(meta *model.TableMeta, csvPath string) error {
	var colMaps []string
	for _, col := range meta.Columns {
		colMaps = append(colMaps, fmt.Sprintf("'%s': '%s'", col.Name, d.mapType(col.Type)))
	}

	names := strings.Join(meta.ColumnNames(), ", ")
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		SELECT %s FROM read_csv('%s',
			header=true,
			columns={%s}
		)
	`, meta.TableName, names, names, strings.ReplaceAll(csvPath, "'", "''"), strings.Join(colMaps, ", "))

	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to import %s into %s: %w", csvPath, meta.TableName, err)
	}
	return nil
}

func (d *DuckDBDriver) truncateTable(meta *model.TableMeta) error {
	query := fmt.Sprintf("DELETE FROM %s", meta.TableName)
	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("duckdb truncate failed: %w", err)
	}
	return nil
}

// ImportDailyBars 全量覆盖 raw_daily_bars
func (d *DuckDBDriver) ImportDailyBars(path string) error {
	if err := d.truncateTable(model.TableDailyBars); err != nil {
		return err
	}
	return d.importCSV(model.TableDailyBars, path)
}

func (d *DuckDBDriver) CountRows(table string) (int64, error) {
	var n int64
	if err := d.db.Get(&n, fmt.Sprintf("SELECT count(*) FROM %s", table)); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	return n, nil
}

func (d *DuckDBDriver) GetAllSymbols() ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT symbol FROM %s ORDER BY symbol", model.TableDailyBars.TableName)

	var symbols []string
	if err := d.db.Select(&symbols, query); err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	return symbols, nil
}

func (d *DuckDBDriver) QueryDailyBars(symbol string) ([]model.BarRecord, error) {
	// volume 缺失时入库为 NULL，读回为 NaN
	query := fmt.Sprintf(`
		SELECT symbol, name, date, open, high, low, close,
			COALESCE(volume, 'NaN'::DOUBLE) AS volume
		FROM %s WHERE symbol = ? ORDER BY date ASC
	`, model.TableDailyBars.TableName)

	var results []model.BarRecord
	if err := d.db.Select(&results, query, symbol); err != nil {
		return nil, fmt.Errorf("failed to query bars of %s: %w", symbol, err)
	}
	return results, nil
}
