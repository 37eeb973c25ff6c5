// Package config defines the format-agnostic build configuration model for
// the application, along with the Loader interface for reading it from
// configuration files.
//
// The `config.Model` is the single source of truth for discovery, the catalog
// builder and the emitters. Concrete loaders, such as for HCL and YAML, are
// provided in separate packages.
package config
