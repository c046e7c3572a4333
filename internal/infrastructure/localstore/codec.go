package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/foliopress/folio/internal/infrastructure/keyval"
)

// getJSON loads and decodes one collection; absent keys report found=false.
func getJSON[T any](ctx context.Context, kv keyval.Store, key string, dest *T) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, keyval.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, kv keyval.Store, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, b)
}
