package credentials

import "context"

// Store is the persistent credential slot. Load returns "" with a nil error
// when the slot is empty.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	// Swap stores next only if the slot still holds prev.
	Swap(ctx context.Context, prev, next string) (bool, error)
	Delete(ctx context.Context) error
}
