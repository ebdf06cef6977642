package noise

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// layeredReader closes every layer of a decompression stack in order.
type layeredReader struct {
	io.Reader
	closers []io.Closer
}

func (r *layeredReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// layeredWriter closes the compressor before the file beneath it.
type layeredWriter struct {
	io.Writer
	closers []io.Closer
}

func (w *layeredWriter) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenInput opens path for reading, transparently decompressing .gz
// and .zst files by extension.
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip input %s: %w", path, err)
		}
		return &layeredReader{Reader: zr, closers: []io.Closer{zr, f}}, nil

	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read zstd input %s: %w", path, err)
		}
		return &layeredReader{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), f}}, nil

	default:
		return f, nil
	}
}

// CreateOutput creates path for writing. An existing file is a
// *ConflictError unless overwrite is set. Outputs ending in .gz or
// .zst are compressed to match their extension.
func CreateOutput(path string, overwrite bool) (io.WriteCloser, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, &ConflictError{Path: path}
		}
		return nil, fmt.Errorf("failed to create output: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return &layeredWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil

	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd output %s: %w", path, err)
		}
		return &layeredWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil

	default:
		return f, nil
	}
}
