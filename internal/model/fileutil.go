package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSourceDir is the shader directory, relative to the working directory
// the tool is started from.
const DefaultSourceDir = "../src/resources/shaders"

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
	}
	return path
}

// ResolveDir turns dir into an absolute, cleaned path anchored at base and
// checks that it is an accessible directory. The process working directory
// is never changed.
func ResolveDir(base, dir string) (string, error) {
	dir = ExpandTilde(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return dir, err
	}
	if !info.IsDir() {
		return dir, errors.New("not a directory")
	}

	// Stat succeeds on directories we cannot list; catch that here so the
	// caller sees one failure before any work starts.
	f, err := os.Open(dir)
	if err != nil {
		return dir, err
	}
	f.Close()

	return dir, nil
}

// ListRegularFiles returns the names of regular files directly inside dir.
// Subdirectories and special files are skipped. Symlinks are followed and
// kept when they point at a regular file.
func ListRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		mode := e.Type()
		if mode&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				continue // Dangling link
			}
			mode = info.Mode().Type()
		}
		if mode.IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ShaderFiles filters names down to recognized shader sources, keeping order.
func ShaderFiles(names []string) []ShaderFile {
	var files []ShaderFile
	for _, name := range names {
		if stage, ok := StageOf(name); ok {
			files = append(files, ShaderFile{Name: name, Stage: stage})
		}
	}
	return files
}
