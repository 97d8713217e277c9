package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/service"
)

// TempCleanupJob removes stale upload scratch directories. The upload path
// deletes its own temp dir on every exit, so anything this job finds was
// orphaned by a crash or kill.
type TempCleanupJob struct {
	root   string
	maxAge time.Duration
}

func NewTempCleanupJob(root string, maxAge time.Duration) *TempCleanupJob {
	if root == "" {
		root = os.TempDir()
	}
	return &TempCleanupJob{root: root, maxAge: maxAge}
}

func (j *TempCleanupJob) Name() string {
	return "temp_cleanup"
}

func (j *TempCleanupJob) Run(ctx context.Context) error {
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(j.root)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), service.TempDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("remove stale upload dir failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("stale upload dirs removed", zap.Int("count", removed))
	}
	return nil
}
