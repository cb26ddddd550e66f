package config

import "context"

// Loader is the interface for a format-specific session loader.
type Loader interface {
	// Load reads session files from the given paths (files or
	// directories) and merges them into a single model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Saver is implemented by loaders that can also write a model back out in
// their own format.
type Saver interface {
	Save(ctx context.Context, path string, m *Model) error
}
