package service

import (
	"context"
	"fmt"

	"github.com/mvailles/inkwell/internal/domain"
)

const (
	// DefaultPageSize is used when the caller supplies no page size.
	DefaultPageSize = 10
	// SuggestionLimit caps suggestion lookups.
	SuggestionLimit = 5
)

// QueryService serves read-only listing and search over posts. It bypasses
// the authorization guard entirely: all reads are public.
type QueryService struct {
	posts domain.PostRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(posts domain.PostRepository) *QueryService {
	return &QueryService{posts: posts}
}

// List returns one page of posts matching search, newest first, along with
// the total page count. Page and pageSize below 1 are normalized rather
// than rejected.
func (s *QueryService) List(ctx context.Context, page, pageSize int, search string) ([]domain.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	offset := (page - 1) * pageSize
	posts, total, err := s.posts.List(ctx, pageSize, offset, search)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return posts, totalPages, nil
}

// Suggest returns up to SuggestionLimit lightweight matches for query.
// Results keep natural storage order; suggestions are not sorted.
func (s *QueryService) Suggest(ctx context.Context, query string) ([]domain.Suggestion, error) {
	suggestions, err := s.posts.Suggest(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest posts: %w", err)
	}
	return suggestions, nil
}
