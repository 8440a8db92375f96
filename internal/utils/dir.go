package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// IsFile tests whether given path exists and is a file
func IsFile(filePath string) bool {
	file, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	return !file.IsDir()
}

// IsDirectory tests whether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	dir, err := os.Stat(dirPath)
	if err != nil {
		return false
	}

	return dir.IsDir()
}

// OutputPath returns the path inside outputDirectory a converted copy of
// inputPath is written to. The .gz suffix is added or stripped to match gzip.
func OutputPath(outputDirectory, inputPath string, gzip bool) string {
	name := filepath.Base(inputPath)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-len(".gz")]
	}
	if gzip {
		name += ".gz"
	}

	return filepath.Join(outputDirectory, name)
}
