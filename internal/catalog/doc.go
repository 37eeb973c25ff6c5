// Package catalog turns discovered pattern documents into catalog entries and
// cell payloads.
//
// A Catalog holds two parallel views of the same patterns: Entries, the
// metadata in discovery order, and Cells, the decoded geometry keyed by
// pattern ID. Every entry has exactly one payload under the same ID, and IDs
// are unique across the catalog. A build either produces the whole catalog or
// fails; there is no partial result.
package catalog
