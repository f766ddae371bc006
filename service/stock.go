package service

import (
	"context"
	"fmt"

	"github.com/jing2uo/klinedata/kline"
	"github.com/jing2uo/klinedata/model"
	"github.com/jing2uo/klinedata/source"
)

const DefaultCode = "600000"

type StockService struct {
	store source.Store
}

func NewStockService(store source.Store) *StockService {
	return &StockService{store: store}
}

// GetDaily resolves code to its data file, loads and parses it.
// Errors from the store are returned wrapped so source.IsNotFound/IsDecode still apply.
func (s *StockService) GetDaily(ctx context.Context, code string) (*model.Response, error) {
	if code == "" {
		code = DefaultCode
	}

	p, err := s.store.Load(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kline.ResolveFileKey(code), err)
	}

	doc := kline.ParseDocument(p.Text)

	name := p.StockName
	if name == "" {
		name = doc.StockName
	}
	return model.NewResponse(name, doc.Bars), nil
}

func (s *StockService) StoreName() string {
	return s.store.Name()
}
