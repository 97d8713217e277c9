package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/gemini"
	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
)

type IngestSummary struct {
	Ingested int
	Skipped  int
	Failed   int
	Store    string
}

// IngestService bulk-loads a folder of documents through the same store
// upload path the HTTP endpoint uses.
type IngestService struct {
	client StoreClient
}

func NewIngestService(client StoreClient) *IngestService {
	return &IngestService{client: client}
}

// Run walks folder recursively, uploading every file with a supported
// extension; everything else counts as skipped. Upload failures are counted,
// not fatal.
func (s *IngestService) Run(ctx context.Context, folder, storeName string) (*IngestSummary, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: gemini api key not configured", appErr.ErrUnavailable)
	}
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: folder does not exist: %s", appErr.ErrInvalid, folder)
	}

	logger := logutil.GetLogger(ctx).With(zap.String("folder", folder), zap.String("store", storeName))
	summary := &IngestSummary{}
	walkErr := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !gemini.IsSupportedExtension(filepath.Ext(path)) {
			summary.Skipped++
			return nil
		}
		ok, msg := s.client.Upload(ctx, path, storeName)
		if !ok {
			summary.Failed++
			logger.Warn("ingest failed", zap.String("path", path), zap.String("message", msg))
			return nil
		}
		summary.Ingested++
		logger.Info("ingested", zap.String("path", path))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk folder: %w", walkErr)
	}
	if storeInfo, err := s.client.StoreInfo(ctx, storeName); err == nil {
		summary.Store = storeInfo.StoreName
	}
	return summary, nil
}
