package unzip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	encryptedzip "github.com/yeka/zip"
)

// zipEntry 测试用的压缩包条目，Name 以 "/" 结尾表示目录
type zipEntry struct {
	Name     string
	Body     string
	Password string
}

// writeZip 在 path 写出一个包含 entries 的 ZIP 文件
func writeZip(t *testing.T, path string, entries ...zipEntry) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := encryptedzip.NewWriter(f)
	for _, e := range entries {
		if e.Password != "" {
			ew, err := w.Encrypt(e.Name, e.Password, encryptedzip.AES256Encryption)
			require.NoError(t, err)
			_, err = ew.Write([]byte(e.Body))
			require.NoError(t, err)
			continue
		}
		ew, err := w.Create(e.Name)
		require.NoError(t, err)
		if e.Body != "" {
			_, err = ew.Write([]byte(e.Body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
}

func writeFileT(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readFileT(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// chdirT 等价于 Go 1.24 的 t.Chdir：切换工作目录并在测试结束时恢复。
func chdirT(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
