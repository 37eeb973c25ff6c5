// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into app.Config; values it leaves at zero defer to the
// build configuration file.
package cli
