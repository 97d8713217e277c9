package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/model"
)

type HealthService struct {
	client    StoreClient
	storeName string
}

func NewHealthService(client StoreClient, storeName string) *HealthService {
	return &HealthService{client: client, storeName: storeName}
}

// Check is purely observational. Status is "degraded" when the dependency
// was never configured, "healthy" with store id and occupancy otherwise,
// or "error: <detail>" when the client reports a hard failure. An unreadable
// occupancy is not a failure: the store client answers an unknown (nil)
// count and the status stays healthy.
func (s *HealthService) Check(ctx context.Context) *model.HealthResponse {
	if s.client == nil {
		return &model.HealthResponse{Status: "degraded"}
	}
	info, err := s.client.StoreInfo(ctx, s.storeName)
	if err != nil {
		logutil.GetLogger(ctx).Error("health check failed", zap.Error(err))
		return &model.HealthResponse{Status: fmt.Sprintf("error: %v", err)}
	}
	logutil.GetLogger(ctx).Info("health check",
		zap.String("store", info.StoreName),
		zap.Any("file_count", info.FileCount))
	return &model.HealthResponse{
		Status:    "healthy",
		StoreName: info.StoreName,
		FileCount: info.FileCount,
	}
}
