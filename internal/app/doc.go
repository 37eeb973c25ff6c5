// Package app contains the core application logic. It loads the build
// configuration, runs discovery, builds the catalog and writes the outputs,
// once or in a watch loop, decoupled from any specific entrypoint like a CLI.
package app
