// Package workspace decides which file and directory a compile or save targets.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultFileName = "main.tex"
	OutputExt       = ".pdf"
)

// ErrRootMissing is the configuration error raised when the fallback root is gone.
var ErrRootMissing = errors.New("workspace root does not exist")

// Target is the resolved file, its parent directory and its base name.
// filepath.Join(Dir, FileName) == filepath.Clean(Path) always holds.
type Target struct {
	Path     string `json:"path"`
	Dir      string `json:"dir"`
	FileName string `json:"file_name"`
}

// OutputPath is the sibling artifact the compiler is expected to produce.
func (t Target) OutputPath() string {
	return SwapExt(t.Path, OutputExt)
}

func (t Target) Sibling(name string) string {
	return filepath.Join(t.Dir, name)
}

type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps an optional client path to a Target. A blank path falls back to
// DefaultFileName inside the root; only that branch requires the root to exist.
func (r *Resolver) Resolve(path string) (Target, error) {
	if strings.TrimSpace(path) != "" {
		return split(path), nil
	}
	root, err := r.RootDir()
	if err != nil {
		return Target{}, err
	}
	return Target{
		Path:     filepath.Join(root, DefaultFileName),
		Dir:      root,
		FileName: DefaultFileName,
	}, nil
}

// RootDir returns the fallback root after checking that it is a directory.
func (r *Resolver) RootDir() (string, error) {
	if strings.TrimSpace(r.root) == "" {
		return "", fmt.Errorf("%w: not configured", ErrRootMissing)
	}
	info, err := os.Stat(r.root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRootMissing, r.root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootMissing, r.root)
	}
	return r.root, nil
}

func split(path string) Target {
	clean := filepath.Clean(path)
	dir := ""
	if strings.ContainsRune(clean, filepath.Separator) {
		dir = filepath.Dir(clean)
	}
	return Target{
		Path:     path,
		Dir:      dir,
		FileName: filepath.Base(clean),
	}
}

// SwapExt replaces the extension of path, adding one when there is none.
func SwapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
