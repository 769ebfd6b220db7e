package document

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTextNotFound(t *testing.T) {
	_, err := NewStore().ReadText(filepath.Join(t.TempDir(), "nope.tex"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), "nope.tex")
}

func TestReadTextDirectoryIsIOError(t *testing.T) {
	_, err := NewStore().ReadText(t.TempDir())
	require.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReadTextOrDefault(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()

	content, found, err := store.ReadTextOrDefault(filepath.Join(dir, "main.tex"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, DefaultTemplate, content)

	require.NoError(t, store.WriteText(filepath.Join(dir, "main.tex"), "\\section{Intro}\n"))
	content, found, err = store.ReadTextOrDefault(filepath.Join(dir, "main.tex"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "\\section{Intro}\n", content)
}

func TestReadTextOrDefaultPropagatesOtherErrors(t *testing.T) {
	_, _, err := NewStore().ReadTextOrDefault(t.TempDir())
	require.ErrorIs(t, err, ErrIO)
}

func TestWriteTextOverwritesAndKeepsMode(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "paper.tex")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0o640))

	require.NoError(t, store.WriteText(path, "new"))
	got, err := store.ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteTextMissingDirectory(t *testing.T) {
	err := NewStore().WriteText(filepath.Join(t.TempDir(), "missing", "main.tex"), "x")
	require.ErrorIs(t, err, ErrIO)
}

func TestWriteTextPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := NewStore().WriteText(filepath.Join(dir, "main.tex"), "x")
	require.ErrorIs(t, err, ErrIO)
}

func TestConcurrentWritesNeverInterleave(t *testing.T) {
	store := NewStore()
	path := filepath.Join(t.TempDir(), "main.tex")
	a := strings.Repeat("a", 64*1024)
	b := strings.Repeat("b", 64*1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = store.WriteText(path, a) }()
		go func() { defer wg.Done(); _ = store.WriteText(path, b) }()
	}
	wg.Wait()

	got, err := store.ReadText(path)
	require.NoError(t, err)
	assert.True(t, got == a || got == b, "document must hold one complete write")
}

func TestCopyFileAndReadBinary(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()
	src := filepath.Join(dir, "in.pdf")
	payload := []byte("%PDF-1.5\x00\x01binary")
	require.NoError(t, os.WriteFile(src, payload, 0o600))

	dst, err := store.CopyFile(src, filepath.Join(dir, "out", "uploaded.pdf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "uploaded.pdf"), dst)

	got, err := store.ReadBinary(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = store.CopyFile(filepath.Join(dir, "missing.pdf"), dst)
	require.ErrorIs(t, err, ErrNotFound)
}
