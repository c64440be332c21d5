package unzip

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(root string, deleteAfter bool) Config {
	cfg := DefaultConfig()
	cfg.Root = root
	cfg.ReportPath = filepath.Join(root, DefaultReportPath)
	cfg.DeleteAfter = deleteAfter
	return cfg
}

func TestRun_MixedArchives(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "a.zip"),
		zipEntry{Name: "first.txt", Body: "1"},
		zipEntry{Name: "second.txt", Body: "2"},
	)
	writeFileT(t, filepath.Join(root, "b.zip"), "not a zip")

	var out bytes.Buffer
	report, err := Run(testConfig(root, true), &out, discardLogger())
	require.NoError(t, err)

	require.Equal(t, 2, report.Total())
	require.Equal(t, 1, report.Succeeded())
	require.Equal(t, 1, report.Failed())
	require.Contains(t, out.String(), "1/2")

	entries, err := os.ReadDir(filepath.Join(root, "a"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NoFileExists(t, filepath.Join(root, "a.zip"))
	require.FileExists(t, filepath.Join(root, "b.zip"))

	doc := readFileT(t, filepath.Join(root, DefaultReportPath))
	require.Contains(t, doc, "| 发现 ZIP 文件 | 2 |")
	require.Contains(t, doc, "| 成功解压 | 1 |")
	require.Contains(t, doc, "| 失败 | 1 |")
	require.Contains(t, doc, "archive corrupted")
}

func TestRun_ReportEntryPerArchive(t *testing.T) {
	root := t.TempDir()
	writeZip(t, filepath.Join(root, "x", "one.zip"), zipEntry{Name: "a", Body: "a"})
	writeZip(t, filepath.Join(root, "y", "two.zip"), zipEntry{Name: "b", Body: "b"})
	writeZip(t, filepath.Join(root, "y", "three.zip"), zipEntry{Name: "c", Body: "c"})
	writeZip(t, filepath.Join(root, ".git", "ignored.zip"), zipEntry{Name: "d", Body: "d"})

	report, err := Run(testConfig(root, false), io.Discard, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 3, report.Total())
	require.Zero(t, report.Failed())
	require.Equal(t, filepath.Join(root, "x", "one.zip"), report.Tasks[0].Source)
	require.FileExists(t, filepath.Join(root, "y", "two.zip"))
}

func TestRun_NoArchives(t *testing.T) {
	root := t.TempDir()

	report, err := Run(testConfig(root, true), io.Discard, discardLogger())
	require.NoError(t, err)
	require.Zero(t, report.Total())
	require.Zero(t, report.Failed())
	require.FileExists(t, filepath.Join(root, DefaultReportPath))
}

func TestRun_ScanFailureWritesNoReport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(filepath.Join(dir, "missing"), true)
	cfg.ReportPath = filepath.Join(dir, DefaultReportPath)

	report, err := Run(cfg, io.Discard, discardLogger())
	require.Error(t, err)
	require.Nil(t, report)
	require.NoFileExists(t, cfg.ReportPath)
}
