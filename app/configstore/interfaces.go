package configstore

import "context"

// ConfigReader is the logical key-value contract the settings layer is built
// on. GetConfig reports ErrKeyNotFound for keys that were never written.
type ConfigReader interface {
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}
