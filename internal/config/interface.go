package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path and returns it as a Model
	// layered over Default(). Relative paths inside the file resolve against
	// the file's directory.
	Load(ctx context.Context, path string) (*Model, error)
}
