package model

import (
	"encoding/json"
	"math"
)

// DailyBar 日线记录
type DailyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// dailyBarJSON carries Volume as a pointer so an unparsable volume (NaN) is written as null.
type dailyBarJSON struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume *float64 `json:"volume"`
}

func (b DailyBar) MarshalJSON() ([]byte, error) {
	out := dailyBarJSON{Date: b.Date, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
	if !math.IsNaN(b.Volume) && !math.IsInf(b.Volume, 0) {
		v := b.Volume
		out.Volume = &v
	}
	return json.Marshal(out)
}

func (b *DailyBar) UnmarshalJSON(data []byte) error {
	var in dailyBarJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = DailyBar{Date: in.Date, Open: in.Open, High: in.High, Low: in.Low, Close: in.Close, Volume: math.NaN()}
	if in.Volume != nil {
		b.Volume = *in.Volume
	}
	return nil
}

// Asset 预转换的 JSON 数据文件 ({key}.txt.json)
type Asset struct {
	StockName string     `json:"stockName"`
	Content   string     `json:"content"`
	Data      []DailyBar `json:"data"`
}

// Response is the body returned by a successful stock lookup.
type Response struct {
	Success   bool       `json:"success"`
	Data      []DailyBar `json:"data"`
	StockName string     `json:"stockName"`
}

// ErrorBody is the body returned when a lookup fails.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewResponse(name string, bars []DailyBar) *Response {
	if bars == nil {
		bars = []DailyBar{}
	}
	return &Response{Success: true, Data: bars, StockName: name}
}

func NewErrorBody(msg string) *ErrorBody {
	return &ErrorBody{Success: false, Error: msg}
}
