package unzip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSafe(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		entry string
		safe  bool
	}{
		{"a.txt", true},
		{"dir/", true},
		{"dir/nested/b.txt", true},
		{"a/../b.txt", true},
		{"./c.txt", true},
		{"../evil.txt", false},
		{"../../evil.txt", false},
		{"../../../../../../etc/passwd", false},
		{"a/../../evil.txt", false},
		{"dir/../../../evil.txt", false},
		{`..\evil.txt`, false},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			require.Equal(t, tt.safe, IsSafe(root, tt.entry))
		})
	}
}

func TestIsSafe_SymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.False(t, IsSafe(root, "link/payload.txt"))
	require.False(t, IsSafe(root, "link"))
	require.True(t, IsSafe(root, "other/payload.txt"))
}

func TestIsSafe_RootBehindSymlink(t *testing.T) {
	actual := t.TempDir()
	parent := t.TempDir()
	root := filepath.Join(parent, "out")

	if err := os.Symlink(actual, root); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.True(t, IsSafe(root, "a/b.txt"))
	require.False(t, IsSafe(root, "../b.txt"))
}

func TestSafeJoin_ReturnsTargetUnderRoot(t *testing.T) {
	root := t.TempDir()

	target, err := SafeJoin(root, "dir/file.txt")
	require.NoError(t, err)

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(absRoot, "dir", "file.txt"), target)

	_, err = SafeJoin(root, "../x")
	var extractErr *ExtractError
	require.ErrorAs(t, err, &extractErr)
	require.Equal(t, ErrPathTraversal, extractErr.Type)
}
