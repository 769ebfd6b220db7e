// Package filetree builds the file browser snapshot of a directory.
package filetree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dariafung/fotex/internal/document"
)

// Node is one entry of the snapshot. Children is empty, never nil, for leaves.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Path     string  `json:"path" yaml:"path"`
	IsDir    bool    `json:"is_dir" yaml:"is_dir"`
	Children []*Node `json:"children" yaml:"children,omitempty"`
}

// Skipped records a subtree that could not be read and was left out.
type Skipped struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type Options struct {
	// RespectGitignore hides entries matched by <root>/.gitignore.
	RespectGitignore bool
}

type Snapshotter struct {
	opts    Options
	readDir func(string) ([]os.DirEntry, error)
}

func NewSnapshotter(opts Options) *Snapshotter {
	return &Snapshotter{opts: opts, readDir: os.ReadDir}
}

type walk struct {
	root    string
	rules   *ignore.GitIgnore
	readDir func(string) ([]os.DirEntry, error)
	skipped []Skipped
}

// Snapshot walks root. Dot entries are hidden, directories sort before files
// and names sort by byte order. Symlinks are reported but never descended.
func (s *Snapshotter) Snapshot(root string) (*Node, []Skipped, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %w", document.ErrNotFound, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", document.ErrIO, err)
	}
	node := &Node{
		Name:     filepath.Base(root),
		Path:     root,
		IsDir:    info.IsDir(),
		Children: []*Node{},
	}
	if !info.IsDir() {
		return node, nil, nil
	}

	w := &walk{root: root, readDir: s.readDir}
	if s.opts.RespectGitignore {
		if rules, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			w.rules = rules
		}
	}
	children, err := w.children(root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", document.ErrIO, err)
	}
	node.Children = children
	return node, w.skipped, nil
}

func (w *walk) children(dir string) ([]*Node, error) {
	entries, err := w.readDir(dir)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		isDir := entry.IsDir()
		symlink := entry.Type()&fs.ModeSymlink != 0
		if symlink {
			// Dangling links are plain leaves.
			if target, err := os.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}
		if w.ignored(path, isDir) {
			continue
		}
		node := &Node{Name: name, Path: path, IsDir: isDir, Children: []*Node{}}
		if isDir && !symlink {
			kids, err := w.children(path)
			if err != nil {
				w.skipped = append(w.skipped, Skipped{Path: path, Error: err.Error()})
				continue
			}
			node.Children = kids
		}
		nodes = append(nodes, node)
	}
	Sort(nodes)
	return nodes, nil
}

func (w *walk) ignored(path string, isDir bool) bool {
	if w.rules == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.rules.MatchesPath(rel) {
		return true
	}
	return isDir && w.rules.MatchesPath(rel+"/")
}

// Sort orders directories first, then by name in byte order.
func Sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsDir != nodes[j].IsDir {
			return nodes[i].IsDir
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// Names returns the child names in order.
func (n *Node) Names() []string {
	names := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		names = append(names, child.Name)
	}
	return names
}

// Count is the number of nodes below n, n excluded.
func (n *Node) Count() int {
	total := 0
	for _, child := range n.Children {
		total += 1 + child.Count()
	}
	return total
}
