package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "cache.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	require.NoError(t, EnsureParentDir("cache.db"))
}

func TestOpen_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o600))

	lf, err := Open(path)
	require.NoError(t, err)

	require.Equal(t, "notes.txt", lf.Name())
	require.Equal(t, int64(12), lf.Size())
	require.Equal(t, "text/plain", lf.ContentType())
	require.Len(t, lf.Hash(), 64)

	rc, err := lf.Open()
	require.NoError(t, err)
	defer rc.Close()
}

func TestOpen_SameContentSameHash(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0o600))

	fa, err := Open(a)
	require.NoError(t, err)
	fb, err := Open(b)
	require.NoError(t, err)

	require.Equal(t, fa.Hash(), fb.Hash())
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)

	_, err = Open(dir)
	require.Error(t, err)
}
