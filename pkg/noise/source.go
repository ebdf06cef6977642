package noise

import "io"

// Source is one observation input. Implementations name themselves
// for error reporting.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FileSource reads observations from a path, decompressing .gz and
// .zst files by extension.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Open() (io.ReadCloser, error) { return OpenInput(string(s)) }

// ReaderSource adapts an arbitrary stream, stdin in practice.
type ReaderSource struct {
	Label string
	R     io.Reader
}

func (s ReaderSource) Name() string { return s.Label }

func (s ReaderSource) Open() (io.ReadCloser, error) { return io.NopCloser(s.R), nil }
