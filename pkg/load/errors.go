package load

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile means a configured input file is not on disk.
	ErrMissingFile = errors.New("file not found")
	// ErrMalformedJSON means the file could not be parsed.
	ErrMalformedJSON = errors.New("malformed json")
	// ErrStructuralMismatch means the JSON parsed but lacks an expected field,
	// such as a pensum file without a materias array.
	ErrStructuralMismatch = errors.New("unexpected structure")
)

// FileError ties a non-fatal loading problem to the file and program it
// affected.
type FileError struct {
	Path    string
	Program string
	Err     error
}

func (e *FileError) Error() string {
	if e.Program != "" {
		return fmt.Sprintf("%s (%s): %v", e.Path, e.Program, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func fileError(path, program string, kind error, detail string) *FileError {
	err := kind
	if detail != "" {
		err = fmt.Errorf("%w: %s", kind, detail)
	}
	return &FileError{Path: path, Program: program, Err: err}
}
