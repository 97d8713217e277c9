// Package gemini wraps the Gemini File Search capability: store resolution,
// document ingestion, grounded generation and store occupancy.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/casestudyai/casestudyai/internal/model"
)

const (
	DefaultStoreName = "case-study-store"
	DefaultModel     = "gemini-2.5-flash"

	// MaxFileSizeBytes is the per-document limit enforced before any network
	// call; it mirrors the File Search service limit.
	MaxFileSizeBytes = 100 * 1024 * 1024

	pollInterval = 5 * time.Second

	chunkSizeTokens    int32 = 300
	chunkOverlapTokens int32 = 30
)

var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
}

func IsSupportedExtension(ext string) bool {
	_, ok := supportedExtensions[strings.ToLower(ext)]
	return ok
}

func SupportedExtensionList() string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

type Client struct {
	genai  *genai.Client
	model  string
	stores *storeCache
}

func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Client{
		genai:  client,
		model:  modelName,
		stores: newStoreCache(),
	}, nil
}

// ResolveStore maps a display name to its store resource identifier,
// creating the store when no existing one matches. The result (real or
// fallback) is cached for the process lifetime.
func (c *Client) ResolveStore(ctx context.Context, displayName string) string {
	return c.stores.Resolve(displayName, func() (string, error) {
		return c.lookupOrCreateStore(ctx, displayName)
	})
}

func (c *Client) lookupOrCreateStore(ctx context.Context, displayName string) (string, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("store", displayName))
	for store, err := range c.genai.FileSearchStores.All(ctx) {
		if err != nil {
			logger.Warn("list stores failed, using fallback store id", zap.Error(err))
			return "", err
		}
		// Display names are not unique; first match in listing order wins.
		if store != nil && store.DisplayName == displayName {
			logger.Info("using existing store", zap.String("name", store.Name))
			return store.Name, nil
		}
	}
	store, err := c.genai.FileSearchStores.Create(ctx, &genai.CreateFileSearchStoreConfig{
		DisplayName: displayName,
	})
	if err != nil {
		logger.Warn("create store failed, using fallback store id", zap.Error(err))
		return "", err
	}
	logger.Info("created new store", zap.String("name", store.Name))
	return store.Name, nil
}

// Upload ingests a local file into the store. Every failure path resolves to
// (false, message); this never returns an error to the caller. Local
// preconditions (existence, size, extension) are checked before any network
// interaction.
func (c *Client) Upload(ctx context.Context, path, storeDisplayName string) (success bool, message string) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Sprintf("file not found: %s", path)
	}
	if info.Size() > MaxFileSizeBytes {
		return false, fmt.Sprintf("file exceeds %dMB limit (%.1fMB)", MaxFileSizeBytes/(1024*1024), float64(info.Size())/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExtension(ext) {
		return false, fmt.Sprintf("unsupported file type: %s. Supported: %s", ext, SupportedExtensionList())
	}

	storeName := c.ResolveStore(ctx, storeDisplayName)
	op, err := c.genai.FileSearchStores.UploadToFileSearchStoreFromPath(ctx, path, storeName, &genai.UploadToFileSearchStoreConfig{
		DisplayName: filepath.Base(path),
		ChunkingConfig: &genai.ChunkingConfig{
			WhiteSpaceConfig: &genai.WhiteSpaceConfig{
				MaxTokensPerChunk: genai.Ptr(chunkSizeTokens),
				MaxOverlapTokens:  genai.Ptr(chunkOverlapTokens),
			},
		},
	})
	if err != nil {
		return false, fmt.Sprintf("upload failed: %v", err)
	}

	// Ingestion is a long-running remote operation; poll until done.
	for !op.Done {
		select {
		case <-ctx.Done():
			return false, fmt.Sprintf("upload interrupted: %v", ctx.Err())
		case <-time.After(pollInterval):
		}
		op, err = c.genai.Operations.GetUploadToFileSearchStoreOperation(ctx, op, nil)
		if err != nil {
			return false, fmt.Sprintf("upload failed: %v", err)
		}
	}
	if op.Error != nil {
		return false, fmt.Sprintf("upload failed: %v", op.Error)
	}
	return true, fmt.Sprintf("File uploaded successfully: %s", filepath.Base(path))
}

// Query runs a single grounded generation scoped to the resolved store and
// returns the answer text plus the first candidate's grounding metadata as
// opaque JSON (nil when absent). Zero candidates or a failed call is an
// error; there is no retry.
func (c *Client) Query(ctx context.Context, question, systemPrompt, storeDisplayName string) (string, json.RawMessage, error) {
	storeName := c.ResolveStore(ctx, storeDisplayName)
	fullPrompt := fmt.Sprintf("%s\n\nQ: %s", systemPrompt, question)

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(fullPrompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{
			FileSearch: &genai.FileSearch{
				FileSearchStoreNames: []string{storeName},
			},
		}},
	})
	if err != nil {
		return "", nil, fmt.Errorf("gemini query failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", nil, fmt.Errorf("no response candidates from gemini")
	}

	var meta json.RawMessage
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		if data, err := json.Marshal(gm); err == nil {
			meta = data
		}
	}
	return resp.Text(), meta, nil
}

// StoreInfo reports the resolved store identifier and its document count.
// A failed lookup degrades the count to unknown (nil) rather than failing:
// an empty store answers zero, an unreadable one answers unknown, and the
// identifier is always reported.
func (c *Client) StoreInfo(ctx context.Context, storeDisplayName string) (*model.StoreInfo, error) {
	storeName := c.ResolveStore(ctx, storeDisplayName)

	store, err := c.genai.FileSearchStores.Get(ctx, storeName, nil)
	if err != nil {
		logutil.GetLogger(ctx).Warn("could not read store info",
			zap.String("store", storeName), zap.Error(err))
		return &model.StoreInfo{StoreName: storeName}, nil
	}
	count := store.ActiveDocumentsCount
	return &model.StoreInfo{StoreName: storeName, FileCount: &count}, nil
}
