// Package emit persists a built catalog. Each Emitter renders its output into
// a temporary file next to the destination; EmitAll only renames the staged
// files into place once every emitter has succeeded, so a failed run never
// leaves a mix of old and new outputs behind.
package emit
