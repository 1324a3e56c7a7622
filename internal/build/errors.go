package build

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrMissingEnvironmentVariable is matched by MissingEnvironmentVariableError.
	ErrMissingEnvironmentVariable = errors.New("required environment variable is not set")
	// ErrDirectoryNotFound is matched by DirectoryNotFoundError.
	ErrDirectoryNotFound = errors.New("shader source directory not found")
)

// MissingEnvironmentVariableError reports an unset toolkit root variable.
type MissingEnvironmentVariableError struct {
	Name string
}

func (e *MissingEnvironmentVariableError) Error() string {
	return fmt.Sprintf("environment variable %s is not set; point it at the shader toolkit installation", e.Name)
}

func (e *MissingEnvironmentVariableError) Is(target error) bool {
	return target == ErrMissingEnvironmentVariable
}

// DirectoryNotFoundError reports a source directory that cannot be used.
type DirectoryNotFoundError struct {
	Path string
	Err  error
}

func (e *DirectoryNotFoundError) Error() string {
	// A PathError repeats the path; keep only its cause.
	cause := e.Err
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		cause = pathErr.Err
	}
	return fmt.Sprintf("shader source directory %s: %v", e.Path, cause)
}

func (e *DirectoryNotFoundError) Is(target error) bool {
	return target == ErrDirectoryNotFound
}

func (e *DirectoryNotFoundError) Unwrap() error {
	return e.Err
}

// BatchError is returned in strict mode when at least one invocation failed.
type BatchError struct {
	Failed int
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d shaders failed to compile", e.Failed, e.Total)
}
