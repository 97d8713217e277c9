package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casestudyai/casestudyai/internal/model"
)

func TestHealthService_Degraded(t *testing.T) {
	svc := NewHealthService(nil, "case-study-store")
	resp := svc.Check(context.Background())
	require.Equal(t, "degraded", resp.Status)
	require.Empty(t, resp.StoreName)
	require.Nil(t, resp.FileCount)
}

func TestHealthService_Healthy(t *testing.T) {
	count := int64(12)
	fake := &fakeStoreClient{info: &model.StoreInfo{StoreName: "fileSearchStores/xyz", FileCount: &count}}
	svc := NewHealthService(fake, "case-study-store")

	resp := svc.Check(context.Background())
	require.Equal(t, "healthy", resp.Status)
	require.Equal(t, "fileSearchStores/xyz", resp.StoreName)
	require.NotNil(t, resp.FileCount)
	require.EqualValues(t, 12, *resp.FileCount)
}

func TestHealthService_HealthyWithUnknownCount(t *testing.T) {
	fake := &fakeStoreClient{info: &model.StoreInfo{StoreName: "stores/case-study-store"}}
	svc := NewHealthService(fake, "case-study-store")

	resp := svc.Check(context.Background())
	require.Equal(t, "healthy", resp.Status)
	require.Nil(t, resp.FileCount, "unknown occupancy stays unknown, not zero")
}

func TestHealthService_LookupError(t *testing.T) {
	fake := &fakeStoreClient{infoErr: fmt.Errorf("store lookup exploded")}
	svc := NewHealthService(fake, "case-study-store")

	resp := svc.Check(context.Background())
	require.Contains(t, resp.Status, "error: ")
	require.Contains(t, resp.Status, "store lookup exploded")
}
