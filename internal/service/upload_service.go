package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/filestore"
	"github.com/casestudyai/casestudyai/internal/gemini"
	"github.com/casestudyai/casestudyai/internal/model"
	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
)

// TempDirPrefix names the per-upload scratch directories under the OS temp
// dir. The cleanup job sweeps stale directories by this prefix, so uploads
// interrupted by a crash cannot leak temp copies forever.
const TempDirPrefix = "casestudyai-upload-"

type UploadService struct {
	client    StoreClient
	store     filestore.Store
	storeName string
	maxBytes  int64
}

func NewUploadService(client StoreClient, store filestore.Store, storeName string, maxBytes int64) *UploadService {
	return &UploadService{client: client, store: store, storeName: storeName, maxBytes: maxBytes}
}

// Ingest validates an uploaded document, persists a collision-safe copy,
// forwards it to the remote store and rolls the persisted copy back when
// remote ingestion fails, so local and remote state cannot drift apart.
func (s *UploadService) Ingest(ctx context.Context, filename string, data []byte) (*model.UploadResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: gemini api key not configured", appErr.ErrUnavailable)
	}
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return nil, fmt.Errorf("%w: file name is required", appErr.ErrInvalidFile)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !gemini.IsSupportedExtension(ext) {
		return nil, fmt.Errorf("%w: unsupported file type: %s. Supported: %s",
			appErr.ErrInvalidFile, ext, gemini.SupportedExtensionList())
	}
	sizeMB := float64(len(data)) / (1024 * 1024)
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %dMB limit (%.1fMB)",
			appErr.ErrInvalidFile, s.maxBytes/(1024*1024), sizeMB)
	}

	logger := logutil.GetLogger(ctx).With(zap.String("filename", name))

	key, err := s.reserveKey(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: reserve file name: %v", appErr.ErrInternal, err)
	}
	if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("%w: persist upload: %v", appErr.ErrInternal, err)
	}

	// The remote ingestion call wants a filesystem path; write a scratch
	// copy and remove it on every exit path.
	tmpDir, err := os.MkdirTemp("", TempDirPrefix+"*")
	if err != nil {
		s.rollback(ctx, key)
		return nil, fmt.Errorf("%w: create temp dir: %v", appErr.ErrInternal, err)
	}
	defer os.RemoveAll(tmpDir)
	tmpPath := filepath.Join(tmpDir, key)
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		s.rollback(ctx, key)
		return nil, fmt.Errorf("%w: write temp copy: %v", appErr.ErrInternal, err)
	}

	ok, msg := s.client.Upload(ctx, tmpPath, s.storeName)
	if !ok {
		s.rollback(ctx, key)
		logger.Error("remote ingestion failed", zap.String("message", msg))
		return nil, fmt.Errorf("%w: %s", appErr.ErrUpstream, msg)
	}

	logger.Info("upload ingested", zap.String("key", key), zap.Float64("size_mb", sizeMB))
	return &model.UploadResponse{
		Success:    true,
		Filename:   key,
		Message:    msg,
		FileSizeMB: &sizeMB,
	}, nil
}

// reserveKey resolves name collisions by suffixing an incrementing number
// before the extension until an unused key is found. Two identical names
// racing through here can still collide; accepted limitation.
func (s *UploadService) reserveKey(ctx context.Context, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	key := name
	for i := 1; ; i++ {
		exists, err := s.store.Exists(ctx, key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
		key = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

func (s *UploadService) rollback(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logutil.GetLogger(ctx).Warn("rollback of persisted copy failed",
			zap.String("key", key), zap.Error(err))
	}
}
