package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-devserver/internal/vfs"
	"gitlab.com/gitlab-org/pages-devserver/internal/vfs/local"
)

// TmpDir creates a temporary site directory holding files. Names ending
// in a slash are created as directories, the others as files with the
// given content.
func TmpDir(tb testing.TB, files map[string]string) string {
	tb.Helper()

	tmpDir := tb.TempDir()

	// On some systems `/tmp` can be a symlink
	tmpDir, err := filepath.EvalSymlinks(tmpDir)
	require.NoError(tb, err)

	for name, content := range files {
		fullPath := filepath.Join(tmpDir, filepath.FromSlash(name))

		if strings.HasSuffix(name, "/") {
			require.NoError(tb, os.MkdirAll(fullPath, 0755))
			continue
		}

		require.NoError(tb, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(tb, os.WriteFile(fullPath, []byte(content), 0644))
	}

	return tmpDir
}

// TmpRoot is TmpDir wrapped in an instrumented local root
func TmpRoot(tb testing.TB, files map[string]string) (vfs.Root, string) {
	tb.Helper()

	tmpDir := TmpDir(tb, files)

	root, err := local.New(tmpDir)
	require.NoError(tb, err)

	return vfs.Instrumented(root, "local"), tmpDir
}
