package biz

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/analysis/types"
	doctypes "github.com/lk2023060901/gost-search/internal/document/types"
	"github.com/lk2023060901/gost-search/internal/gigachat"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// DocumentResolver yields the text to analyse for a search result
type DocumentResolver interface {
	Resolve(ctx context.Context, primaryURL, title, query string) (*doctypes.FetchedDocument, error)
}

// Completer opens streaming chat completions
type Completer interface {
	NewChatRequest(messages ...openai.ChatCompletionMessage) *gigachat.ChatRequest
	StreamCompletion(ctx context.Context, chat *gigachat.ChatRequest) (io.ReadCloser, error)
}

// Orchestrator turns an analysis request into a live completion stream
type Orchestrator struct {
	resolver  DocumentResolver
	completer Completer
	budget    *TokenBudget
	vocab     types.Vocabulary
	logger    *logger.Logger
}

// NewOrchestrator creates a new orchestrator; a nil vocab uses DefaultVocabulary
func NewOrchestrator(resolver DocumentResolver, completer Completer, budget *TokenBudget, vocab types.Vocabulary, log *logger.Logger) *Orchestrator {
	if vocab == nil {
		vocab = types.DefaultVocabulary()
	}
	return &Orchestrator{
		resolver:  resolver,
		completer: completer,
		budget:    budget,
		vocab:     vocab,
		logger:    log,
	}
}

var _ Completer = (*gigachat.Client)(nil)

// StreamAnalysis resolves the document and returns the provider's raw SSE
// body. When resolution fails no token or completion request is made.
func (o *Orchestrator) StreamAnalysis(ctx context.Context, req *types.AnalysisRequest) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := o.logger.WithContext(ctx)

	doc, err := o.resolver.Resolve(ctx, req.URL, req.Title, req.Query)
	if err != nil {
		log.Error("document resolution failed", zap.String("url", req.URL), zap.Error(err))
		return nil, err
	}

	text, truncated := o.budget.Truncate(doc.Text)
	if truncated {
		log.Info("page text truncated to token budget",
			zap.String("url", doc.FinalURL),
			zap.Int("max_tokens", o.budget.max),
		)
	}

	chat := o.completer.NewChatRequest(BuildMessages(o.vocab, req.Message, req.Title, doc.FinalURL, text)...)
	stream, err := o.completer.StreamCompletion(ctx, chat)
	if err != nil {
		log.Error("completion request failed", zap.String("final_url", doc.FinalURL), zap.Error(err))
		return nil, err
	}

	log.Info("analysis stream opened",
		zap.String("url", req.URL),
		zap.String("final_url", doc.FinalURL),
	)
	return stream, nil
}
