package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// maxDedupID bounds the collision search: more than 999 duplicates of one
// export name means something is wrong with the directory, not the name.
const maxDedupID = 999

// ErrTooManyDuplicates is returned when the dedup suffix search is
// exhausted.
var ErrTooManyDuplicates = errors.New("too many duplicate files")

// UniqueExportPath returns the collision-free path for export number num:
// "export-<N>.<ext>", or "export-<N>-<dedupID>.<ext>" when files from
// earlier runs already occupy the plain name.
func UniqueExportPath(dir string, num int, ext string) (string, error) {
	return UniquePath(dir, fmt.Sprintf("export-%d", num), ext)
}

// CompilationPath returns the collision-free path for the run aggregate.
func CompilationPath(dir, ext string) (string, error) {
	return UniquePath(dir, "SpeedExp-Compilation", ext)
}

// UniquePath resolves "<base>.<ext>" in dir, appending an incrementing
// "-<dedupID>" suffix while the candidate exists on disk. The search is
// bounded at 999.
func UniquePath(dir, base, ext string) (string, error) {
	candidate := filepath.Join(dir, base+"."+ext)
	if !exists(candidate) {
		return candidate, nil
	}

	for id := 1; id <= maxDedupID; id++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d.%s", base, id, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s.%s: %w", base, ext, ErrTooManyDuplicates)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
