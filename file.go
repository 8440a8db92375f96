package aaigrid

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadFile reads the raster at path. Files ending in .gz are decompressed.
func ReadFile(path string, lazy bool, opts ...Option) (*Grid, *Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if isGzip(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	g, h, err := Decode(r, lazy, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, h, nil
}

// WriteFile encodes the grid to path and returns path. Files ending in .gz
// are compressed. Nothing is created if the grid fails validation, and a
// partially written file is removed.
func WriteFile(path string, g *Grid, h *Header, opts EncodeOptions) (string, error) {
	typ, err := prepare(g, h, opts)
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	err = writeFile(file, path, g, h, typ)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%s: %w", path, err)
	}

	return path, nil
}

func writeFile(file *os.File, path string, g *Grid, h *Header, typ ElementType) error {
	if !isGzip(path) {
		return write(file, g, h, typ)
	}

	gz := gzip.NewWriter(file)
	if err := write(gz, g, h, typ); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
