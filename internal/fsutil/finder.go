// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindFiles walks rootPath and returns every regular file whose slash-separated
// path relative to rootPath matches at least one include glob and no exclude
// glob. Globs use doublestar syntax, so "**/*.rle" matches at any depth.
// The result is sorted with ComparePaths.
func FindFiles(rootPath string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		panic("fsutil: include patterns must not be empty")
	}
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if matchAny(include, rel) && !matchAny(exclude, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortPaths(files)
	return files, nil
}

// Selected reports whether the slash-separated relative path rel would be
// returned by FindFiles for the same globs. Invalid globs never match.
func Selected(rel string, include, exclude []string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(include, rel) && !matchAny(exclude, rel)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were validated up front, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// ComparePaths orders paths segment by segment, so "a/x" sorts before
// "a-b/x" even though '-' sorts before '/' byte-wise.
func ComparePaths(a, b string) int {
	as := strings.Split(filepath.ToSlash(a), "/")
	bs := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

// SortPaths sorts paths in place using ComparePaths.
func SortPaths(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return ComparePaths(paths[i], paths[j]) < 0
	})
}
