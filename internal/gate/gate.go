package gate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/leakgate/internal/logging"
)

// ConfigStore reads and writes per-repository settings.
//
// Get reports ok=false when the key is absent. An error means the store
// itself could not be read.
type ConfigStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// IsEnabled interprets the stored enable flag. The gate is opt-out: an
// absent key or any value other than "false" (any case) enables it.
func IsEnabled(value string, present bool) bool {
	if !present {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(value), "false")
}

// Resolve reads key from store and interprets it. A store that cannot be
// read counts as an absent key.
func Resolve(ctx context.Context, store ConfigStore, key string) bool {
	if store == nil {
		return true
	}
	value, ok, err := store.Get(key)
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "gate config unreadable, treating as enabled",
			zap.String("key", key), zap.Error(err))
		return true
	}
	return IsEnabled(value, ok)
}
