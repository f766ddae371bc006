package model

// BarRecord 导出/入库用的日线记录，symbol 为文件键 (如 SH600000)
type BarRecord struct {
	Symbol string  `db:"symbol"   col:"symbol"  parquet:"symbol,dict"`
	Name   string  `db:"name"     col:"name"    parquet:"name,dict"`
	Date   string  `db:"date"     col:"date"    parquet:"date"`
	Open   float64 `db:"open"     col:"open"    parquet:"open"`
	High   float64 `db:"high"     col:"high"    parquet:"high"`
	Low    float64 `db:"low"      col:"low"     parquet:"low"`
	Close  float64 `db:"close"    col:"close"   parquet:"close"`
	Volume float64 `db:"volume"   col:"volume"  parquet:"volume"`
}

func NewBarRecords(symbol, name string, bars []DailyBar) []BarRecord {
	out := make([]BarRecord, 0, len(bars))
	for _, b := range bars {
		out = append(out, BarRecord{
			Symbol: symbol,
			Name:   name,
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return out
}

var TableDailyBars = SchemaFromStruct(
	"raw_daily_bars",
	BarRecord{},
	[]string{"symbol", "date"},
)

func (r BarRecord) DailyBar() DailyBar {
	return DailyBar{
		Date:   r.Date,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}
