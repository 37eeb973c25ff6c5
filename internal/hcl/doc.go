// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing build configuration files,
// decoding them into the schema structures and translating those into the
// format-agnostic config.Model, binding raw values through cty.
package hcl
