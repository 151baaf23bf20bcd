package biz

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/pkg/logger"
)

// DefaultEncoding approximates the GigaChat tokenizer closely enough for budgeting
const DefaultEncoding = "cl100k_base"

// codec is the part of *tiktoken.Tiktoken the budget needs
type codec interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// TokenBudget truncates page text so the prompt fits the model context.
// A zero value or nil budget leaves text untouched.
type TokenBudget struct {
	max   int
	codec codec
}

// NewTokenBudget creates a budget of maxTokens; maxTokens <= 0 disables it.
// Failure to load the encoding disables truncation with a warning.
func NewTokenBudget(maxTokens int, encoding string, log *logger.Logger) *TokenBudget {
	if maxTokens <= 0 {
		return &TokenBudget{}
	}
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		log.Warn("token encoding unavailable, page text will not be truncated",
			zap.String("encoding", encoding),
			zap.Error(err),
		)
		return &TokenBudget{}
	}
	return &TokenBudget{max: maxTokens, codec: enc}
}

// Truncate returns text cut to the budget and whether it was cut
func (b *TokenBudget) Truncate(text string) (string, bool) {
	if b == nil || b.codec == nil || b.max <= 0 {
		return text, false
	}

	tokens := b.codec.Encode(text, nil, nil)
	if len(tokens) <= b.max {
		return text, false
	}

	// a token boundary may split a multi-byte rune
	cut := strings.ToValidUTF8(b.codec.Decode(tokens[:b.max]), "")
	return strings.TrimSpace(cut), true
}
