package kline

import (
	"math"
	"strconv"
	"strings"

	"github.com/jing2uo/klinedata/model"
)

const minFields = 6

// Document 解析结果: 第 1 行为股票信息，第 2 行为表头，之后是数据
type Document struct {
	StockName string
	Bars      []model.DailyBar
}

// ParseDocument parses decoded file text. Blank lines are dropped before the
// name/header lines are taken, so a leading blank line shifts both down.
// Malformed rows are skipped; it never fails.
func ParseDocument(text string) Document {
	lines := nonBlankLines(text)

	doc := Document{Bars: []model.DailyBar{}}
	if len(lines) > 0 {
		doc.StockName = strings.TrimSpace(lines[0])
	}
	if len(lines) < 3 {
		return doc
	}

	for _, line := range lines[2:] {
		if bar, ok := ParseBar(line); ok {
			doc.Bars = append(doc.Bars, bar)
		}
	}
	return doc
}

// ParseBar 解析一行 "date,open,high,low,close,volume[,...]"
func ParseBar(line string) (model.DailyBar, bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) < minFields {
		return model.DailyBar{}, false
	}

	date := parts[0]
	if date == "" {
		return model.DailyBar{}, false
	}

	var prices [4]float64
	for i := range prices {
		v, ok := parsePrice(parts[i+1])
		if !ok {
			return model.DailyBar{}, false
		}
		prices[i] = v
	}

	// 成交量解析失败不丢弃该行
	volume, ok := parsePrice(parts[5])
	if !ok {
		volume = math.NaN()
	}

	return model.DailyBar{
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, true
}

// parsePrice 只接受十进制数, 拒绝 ParseFloat 额外支持的十六进制和下划线写法
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
