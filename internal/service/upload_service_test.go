package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casestudyai/casestudyai/internal/config"
	"github.com/casestudyai/casestudyai/internal/filestore"
	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
)

func newUploadFixture(t *testing.T, fake *fakeStoreClient, maxBytes int64) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)
	var client StoreClient
	if fake != nil {
		client = fake
	}
	return NewUploadService(client, store, "case-study-store", maxBytes), dir
}

func TestUploadService_UnconfiguredDependency(t *testing.T) {
	svc, _ := newUploadFixture(t, nil, 100)
	_, err := svc.Ingest(context.Background(), "report.pdf", []byte("x"))
	require.ErrorIs(t, err, appErr.ErrUnavailable)
}

func TestUploadService_RejectsUnsupportedType(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: true}
	svc, dir := newUploadFixture(t, fake, 1024)

	_, err := svc.Ingest(context.Background(), "malware.exe", []byte("MZ"))
	require.ErrorIs(t, err, appErr.ErrInvalidFile)
	require.Zero(t, fake.uploadCalls, "rejected uploads must not reach the network")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "rejected uploads must not be persisted")
}

func TestUploadService_SizeBoundary(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: true, uploadMsg: "File uploaded successfully: a.txt"}
	svc, _ := newUploadFixture(t, fake, 16)

	resp, err := svc.Ingest(context.Background(), "a.txt", make([]byte, 16))
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.FileSizeMB)

	_, err = svc.Ingest(context.Background(), "b.txt", make([]byte, 17))
	require.ErrorIs(t, err, appErr.ErrInvalidFile)
}

func TestUploadService_CollisionSuffixing(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: true, uploadMsg: "ok"}
	svc, dir := newUploadFixture(t, fake, 1024)

	first, err := svc.Ingest(context.Background(), "report.pdf", []byte("one"))
	require.NoError(t, err)
	require.Equal(t, "report.pdf", first.Filename)

	second, err := svc.Ingest(context.Background(), "report.pdf", []byte("two"))
	require.NoError(t, err)
	require.Equal(t, "report_1.pdf", second.Filename)

	_, err = os.Stat(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "report_1.pdf"))
	require.NoError(t, err)
}

func TestUploadService_RollbackOnRemoteFailure(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: false, uploadMsg: "upload failed: quota exceeded"}
	svc, dir := newUploadFixture(t, fake, 1024)

	_, err := svc.Ingest(context.Background(), "report.pdf", []byte("body"))
	require.ErrorIs(t, err, appErr.ErrUpstream)
	require.Contains(t, err.Error(), "quota exceeded")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries, "persisted copy must be rolled back")
}

func TestUploadService_TempCopyRemoved(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: true, uploadMsg: "ok"}
	svc, _ := newUploadFixture(t, fake, 1024)

	_, err := svc.Ingest(context.Background(), "notes.md", []byte("body"))
	require.NoError(t, err)

	require.Len(t, fake.uploadPaths, 1)
	_, statErr := os.Stat(fake.uploadPaths[0])
	require.True(t, os.IsNotExist(statErr), "temp copy must be removed after ingestion")
}

func TestUploadService_StripsPathFromFilename(t *testing.T) {
	fake := &fakeStoreClient{uploadOK: true, uploadMsg: "ok"}
	svc, dir := newUploadFixture(t, fake, 1024)

	resp, err := svc.Ingest(context.Background(), "../../etc/report.pdf", []byte("body"))
	require.NoError(t, err)
	require.Equal(t, "report.pdf", resp.Filename)
	_, err = os.Stat(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
}
