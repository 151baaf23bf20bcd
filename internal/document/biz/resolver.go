package biz

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/lk2023060901/gost-search/internal/document/types"
	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
	"github.com/lk2023060901/gost-search/internal/pkg/logger"
	wstypes "github.com/lk2023060901/gost-search/internal/websearch/types"
)

// PageLoader downloads a page and returns its readable text
type PageLoader interface {
	Load(ctx context.Context, url string) (string, error)
}

// Searcher finds alternative sources for a document
type Searcher interface {
	Search(ctx context.Context, query string, filters map[string]interface{}) (*wstypes.SearchResponse, error)
}

// errEmptyPage marks a page that loaded but had no readable text
var errEmptyPage = errors.New("page has no readable text")

// Resolver fetches a document, falling back to search results from other hosts
type Resolver struct {
	loader   PageLoader
	searcher Searcher
	logger   *logger.Logger
}

// NewResolver creates a new resolver
func NewResolver(loader PageLoader, searcher Searcher, log *logger.Logger) *Resolver {
	return &Resolver{
		loader:   loader,
		searcher: searcher,
		logger:   log,
	}
}

// Resolve returns the text of primaryURL, or of the first search candidate
// on another host that yields text. The fallback search term is query when
// set, otherwise title. Candidates are tried one at a time in result order.
func (r *Resolver) Resolve(ctx context.Context, primaryURL, title, query string) (*types.FetchedDocument, error) {
	log := r.logger.WithContext(ctx)

	text, err := r.load(ctx, primaryURL)
	if err == nil {
		return &types.FetchedDocument{FinalURL: primaryURL, Text: text}, nil
	}
	log.Warn("primary document unavailable, searching alternatives",
		zap.String("url", primaryURL),
		zap.Error(err),
	)

	term := strings.TrimSpace(query)
	if term == "" {
		term = strings.TrimSpace(title)
	}
	if term == "" {
		return nil, apperrors.NewResolutionError("no title or query to search alternatives", err)
	}

	host := hostname(primaryURL)
	var filters map[string]interface{}
	if host != "" {
		filters = wstypes.ExcludeDomains(host)
	}

	resp, serr := r.searcher.Search(ctx, term, filters)
	if serr != nil {
		return nil, apperrors.NewResolutionError("alternative search failed", serr)
	}

	for _, candidate := range resp.Results {
		if candidate == nil || candidate.URL == "" {
			continue
		}
		text, cerr := r.load(ctx, candidate.URL)
		if cerr != nil {
			log.Info("alternative source unavailable",
				zap.String("url", candidate.URL),
				zap.Error(cerr),
			)
			continue
		}
		log.Info("document resolved from alternative source",
			zap.String("primary_url", primaryURL),
			zap.String("final_url", candidate.URL),
		)
		return &types.FetchedDocument{FinalURL: candidate.URL, Text: text}, nil
	}

	return nil, apperrors.NewResolutionError(
		fmt.Sprintf("no usable alternative among %d results", len(resp.Results)), err)
}

// load treats an empty page the same as a failed download
func (r *Resolver) load(ctx context.Context, pageURL string) (string, error) {
	text, err := r.loader.Load(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", apperrors.NewFetchError(pageURL, errEmptyPage)
	}
	return text, nil
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
