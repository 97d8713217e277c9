package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/citation"
	"github.com/casestudyai/casestudyai/internal/gemini"
	"github.com/casestudyai/casestudyai/internal/model"
	appErr "github.com/casestudyai/casestudyai/internal/pkg/errors"
	"github.com/casestudyai/casestudyai/internal/prompt"
)

const maxQuestionChars = 1000

// StoreClient is the document-store/generation capability the orchestrators
// depend on. *gemini.Client implements it; tests substitute fakes.
type StoreClient interface {
	Query(ctx context.Context, question, systemPrompt, storeDisplayName string) (string, json.RawMessage, error)
	Upload(ctx context.Context, path, storeDisplayName string) (success bool, message string)
	StoreInfo(ctx context.Context, storeDisplayName string) (*model.StoreInfo, error)
}

var _ StoreClient = (*gemini.Client)(nil)

type QueryService struct {
	client    StoreClient
	storeName string
}

// NewQueryService accepts a nil client: the service then answers every call
// with ErrUnavailable instead of attempting and failing per request.
func NewQueryService(client StoreClient, storeName string) *QueryService {
	return &QueryService{client: client, storeName: storeName}
}

func (s *QueryService) Query(ctx context.Context, question string) (*model.QueryResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: gemini api key not configured", appErr.ErrUnavailable)
	}
	q := strings.TrimSpace(question)
	if q == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", appErr.ErrInvalid)
	}
	if utf8.RuneCountInString(q) > maxQuestionChars {
		return nil, fmt.Errorf("%w: question is too long (max %d characters)", appErr.ErrInvalid, maxQuestionChars)
	}

	logger := logutil.GetLogger(ctx).With(zap.String("store", s.storeName))
	answer, meta, err := s.client.Query(ctx, q, prompt.SalesSystemPrompt, s.storeName)
	if err != nil {
		logger.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", appErr.ErrUpstream, err)
	}
	citations := citation.Extract(meta)
	logger.Info("query answered", zap.Int("citations", len(citations)))
	return &model.QueryResponse{Answer: answer, Citations: citations}, nil
}
