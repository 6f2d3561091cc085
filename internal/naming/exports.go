// Package naming resolves the Exports directory and generates unique,
// collision-avoided output and temporary file names.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
)

// termuxDownloads is the mobile sandbox download path checked first when
// resolving the Exports directory.
const termuxDownloads = "/data/data/com.termux/files/home/storage/downloads"

// ExportsDirName is the directory holding every export of every run.
const ExportsDirName = "Exports"

// ExportsDir resolves and creates the Exports directory: under the Termux
// downloads path when it exists, otherwise under the current working
// directory.
func ExportsDir() (string, error) {
	base := "."
	if fi, err := os.Stat(termuxDownloads); err == nil && fi.IsDir() {
		base = termuxDownloads
	}

	dir := filepath.Join(base, ExportsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create exports directory %q: %w", dir, err)
	}
	return dir, nil
}

// TempPath returns a temporary file path for one stage of one export.
// Names are salted by the export number and the process ID so overlapping
// runs on the same machine cannot collide.
func TempPath(dir, stage string, exportNum int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("temp_%s_%d_%d.%s", stage, exportNum, os.Getpid(), ext))
}
