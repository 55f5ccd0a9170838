package repository

import "context"

// ISettings is the persisted application-settings store consulted before
// process configuration when resolving OAuth client credentials.
type ISettings interface {
	// Get returns the value for key, or "" when unset.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// Bootstrap lazily creates the settings rows with safe empty defaults.
	// Convenience for first boot, never a security control: it must not
	// invent non-empty secrets.
	Bootstrap(ctx context.Context, keys []string) error
}
