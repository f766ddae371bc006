package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDailyBarNaNVolumeIsNull(t *testing.T) {
	bar := DailyBar{Date: "20240101", Open: 10, High: 10.5, Low: 9.8, Close: 10.2, Volume: math.NaN()}

	data, err := json.Marshal(bar)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"date":"20240101","open":10,"high":10.5,"low":9.8,"close":10.2,"volume":null}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var back DailyBar
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !math.IsNaN(back.Volume) {
		t.Errorf("Expected NaN volume after decoding null, got %v", back.Volume)
	}
}

func TestNewResponseNeverNullData(t *testing.T) {
	data, err := json.Marshal(NewResponse("", nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"success":true,"data":[],"stockName":""}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestTableDailyBarsRegistered(t *testing.T) {
	found := false
	for _, meta := range AllTables() {
		if meta.TableName == TableDailyBars.TableName {
			found = true
		}
	}
	if !found {
		t.Error("Expected raw_daily_bars to be registered")
	}

	expected := []string{"symbol", "name", "date", "open", "high", "low", "close", "volume"}
	cols := TableDailyBars.ColumnNames()
	if len(cols) != len(expected) {
		t.Fatalf("Expected %d columns, got %d", len(expected), len(cols))
	}
	for i := range expected {
		if cols[i] != expected[i] {
			t.Errorf("Expected column %s at %d, got %s", expected[i], i, cols[i])
		}
	}
	if TableDailyBars.Columns[3].Type != TypeFloat64 {
		t.Errorf("Expected open to be float64")
	}
}
