// Package document reads and writes editor documents and compiled artifacts.
// There is no cache: every call goes to the filesystem.
package document

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNotFound = errors.New("not found")
	ErrIO       = errors.New("io error")
)

// DefaultTemplate is served when the primary document does not exist yet.
const DefaultTemplate = `\documentclass{article}
\begin{document}
Hello, LaTeX.
\end{document}
`

const defaultFileMode fs.FileMode = 0o644

type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) ReadText(path string) (string, error) {
	data, err := s.ReadBinary(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadTextOrDefault treats a missing file as the default template. found
// reports whether the file existed. Every other failure is returned.
func (s *Store) ReadTextOrDefault(path string) (content string, found bool, err error) {
	content, err = s.ReadText(path)
	if errors.Is(err, ErrNotFound) {
		return DefaultTemplate, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func (s *Store) ReadBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// WriteText replaces the file through a temp file in the same directory, so a
// reader or a killed compile never observes a half-written document. Last
// write wins; the previous file mode is preserved.
func (s *Store) WriteText(path, content string) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrIO, path)
		}
		mode = info.Mode().Perm()
	}
	if err := atomicWrite(path, []byte(content), mode); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// CopyFile copies src to dst, replacing dst, and returns dst.
func (s *Store) CopyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", classify(err)
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	return dst, nil
}

// Exists is true for any existing entry, including directories.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func classify(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func atomicWrite(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fotex-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name)
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(name, mode); err != nil {
		return err
	}
	return os.Rename(name, path)
}
