package emit

import (
	"fmt"
	"os"
	"path/filepath"
)

// StagedFile is an output written to a temporary path, waiting to be renamed
// over its destination.
type StagedFile struct {
	tmp    string
	dst    string
	result Result
	done   bool
}

// Commit renames the staged file over the destination.
func (s *StagedFile) Commit() error {
	if s.done {
		return nil
	}
	if err := os.Rename(s.tmp, s.dst); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", s.dst, err)
	}
	s.done = true
	return nil
}

// Discard removes the staged file. It is a no-op after Commit.
func (s *StagedFile) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Remove(s.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// createTemp reserves a temporary file in dst's directory so the final
// rename stays on one file system.
func createTemp(dst string) (*os.File, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging file for %s: %w", dst, err)
	}
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return f, nil
}

// stageBytes writes data into a new staged file for dst.
func stageBytes(dst string, data []byte, result Result) (*StagedFile, error) {
	f, err := createTemp(dst)
	if err != nil {
		return nil, err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("syncing %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("closing %s: %w", dst, err)
	}

	result.Path = dst
	return &StagedFile{tmp: tmp, dst: dst, result: result}, nil
}
