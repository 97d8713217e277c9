package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casestudyai/casestudyai/internal/service"
)

func TestTempCleanupJob_RemovesOnlyStalePrefixedDirs(t *testing.T) {
	root := t.TempDir()

	stale := filepath.Join(root, service.TempDirPrefix+"abc")
	fresh := filepath.Join(root, service.TempDirPrefix+"def")
	other := filepath.Join(root, "unrelated-dir")
	for _, dir := range []string{stale, fresh, other} {
		require.NoError(t, os.Mkdir(dir, 0o755))
	}
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	j := NewTempCleanupJob(root, 24*time.Hour)
	require.NoError(t, j.Run(context.Background()))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err), "stale scratch dir should be removed")
	_, err = os.Stat(fresh)
	require.NoError(t, err, "fresh scratch dir must survive")
	_, err = os.Stat(other)
	require.NoError(t, err, "directories without the upload prefix are untouched")
}

func TestTempCleanupJob_SkipsFiles(t *testing.T) {
	root := t.TempDir()

	file := filepath.Join(root, service.TempDirPrefix+"file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(file, old, old))

	j := NewTempCleanupJob(root, 24*time.Hour)
	require.NoError(t, j.Run(context.Background()))

	_, err := os.Stat(file)
	require.NoError(t, err)
}

func TestTempCleanupJob_MissingRoot(t *testing.T) {
	j := NewTempCleanupJob(filepath.Join(t.TempDir(), "nope"), time.Hour)
	require.Error(t, j.Run(context.Background()))
}
