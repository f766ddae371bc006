package source

import "context"

// AutoStore 按顺序尝试各个存储，仅在"不存在"时回退到下一个
type AutoStore struct {
	stores []Store
}

func NewAutoStore(stores ...Store) *AutoStore {
	return &AutoStore{stores: stores}
}

func (s *AutoStore) Name() string { return "auto" }

func (s *AutoStore) Load(ctx context.Context, code string) (*Payload, error) {
	var lastErr error
	for _, store := range s.stores {
		p, err := store.Load(ctx, code)
		if err == nil {
			return p, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = notFound(code)
	}
	return nil, lastErr
}
