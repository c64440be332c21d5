package main

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, path string, names ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range names {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestRun_ExitCodes(t *testing.T) {
	t.Run("all succeeded", func(t *testing.T) {
		dir := t.TempDir()
		chdirT(t, dir)
		t.Setenv("DELETE_AFTER", "false")
		writeArchive(t, filepath.Join(dir, "a.zip"), "one.txt", "two.txt")

		require.Equal(t, 0, run(io.Discard))
		require.FileExists(t, filepath.Join(dir, "a.zip"))
		require.FileExists(t, filepath.Join(dir, "a", "two.txt"))
		require.FileExists(t, filepath.Join(dir, "UNZIP_REPORT.md"))
	})

	t.Run("one failed", func(t *testing.T) {
		dir := t.TempDir()
		chdirT(t, dir)
		t.Setenv("DELETE_AFTER", "true")
		writeArchive(t, filepath.Join(dir, "a.zip"), "one.txt", "two.txt")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.zip"), []byte("garbage"), 0o644))

		require.Equal(t, 1, run(io.Discard))
		require.NoFileExists(t, filepath.Join(dir, "a.zip"))
		require.FileExists(t, filepath.Join(dir, "a", "one.txt"))
	})

	t.Run("empty directory", func(t *testing.T) {
		chdirT(t, t.TempDir())
		require.Equal(t, 0, run(io.Discard))
	})
}

// chdirT 等价于 Go 1.24 的 t.Chdir：切换工作目录并在测试结束时恢复。
func chdirT(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
