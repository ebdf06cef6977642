package noise

import (
	"fmt"
	"io/fs"
)

// ParseError reports a malformed observation or table line. The first
// one aborts the whole run; a partially built tally is never used.
type ParseError struct {
	Source string
	Line   int64
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// ConflictError reports an output path that already exists while
// overwriting is disabled.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("output %s already exists (enable overwrite to replace it)", e.Path)
}

// Unwrap lets callers test with errors.Is(err, fs.ErrExist).
func (e *ConflictError) Unwrap() error { return fs.ErrExist }
