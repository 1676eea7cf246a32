package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvailles/inkwell/internal/domain"
)

// DefaultMaxPosts is the capacity of the post collection. Exceeding it
// triggers oldest-first eviction.
const DefaultMaxPosts = 150

// PostDraft carries the fields required to create a post. Tags is the raw
// comma-separated string as submitted by the client.
type PostDraft struct {
	Title   string
	Summary string
	Content string
	Tags    string
	Cover   []byte
}

// PostPatch carries replacement fields for an update. Title, Summary, and
// Content always overwrite the stored values, even when empty. Cover
// replaces the stored cover only when non-nil; Tags replaces the stored tag
// set only when the string is non-empty.
type PostPatch struct {
	Title   string
	Summary string
	Content string
	Tags    string
	Cover   []byte
}

// PostService owns post lifecycle: creation with capacity-bounded eviction,
// author-guarded mutation and deletion, and single-post reads.
type PostService struct {
	posts    domain.PostRepository
	users    domain.UserRepository
	maxPosts int
}

// NewPostService creates a new PostService. maxPosts values below 1 fall
// back to DefaultMaxPosts.
func NewPostService(posts domain.PostRepository, users domain.UserRepository, maxPosts int) *PostService {
	if maxPosts < 1 {
		maxPosts = DefaultMaxPosts
	}
	return &PostService{posts: posts, users: users, maxPosts: maxPosts}
}

// Create validates and stores a new post for the given author, then runs
// the eviction check. The check is housekeeping after the fact: a just
// created post is never the oldest, so authors never lose the post they
// just wrote.
func (s *PostService) Create(ctx context.Context, authorID string, draft PostDraft) (*domain.Post, error) {
	if draft.Title == "" || draft.Summary == "" || draft.Content == "" {
		return nil, fmt.Errorf("%w: title, summary, and content are required", domain.ErrInvalidInput)
	}

	// The author reference must resolve at creation time.
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: author does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	post := &domain.Post{
		Title:    draft.Title,
		Summary:  draft.Summary,
		Content:  draft.Content,
		Cover:    draft.Cover,
		Tags:     ParseTags(draft.Tags),
		AuthorID: authorID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.evictIfOverCap(ctx)

	return post, nil
}

// Get returns a post by ID with its author username resolved.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Update applies a patch to a post after the authorship check. Cover and
// tags retain their stored values when the patch omits them.
func (s *PostService) Update(ctx context.Context, callerID, id string, patch PostPatch) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(post, callerID); err != nil {
		return nil, err
	}

	post.Title = patch.Title
	post.Summary = patch.Summary
	post.Content = patch.Content
	if patch.Cover != nil {
		post.Cover = patch.Cover
	}
	if patch.Tags != "" {
		post.Tags = ParseTags(patch.Tags)
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post after the authorship check.
func (s *PostService) Delete(ctx context.Context, callerID, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireAuthor(post, callerID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

// requireAuthor is the authorization guard: the caller's ID must equal the
// post's author ID. Both sides are the canonical string form of the ID, so
// a single comparison serves every mutating path.
func requireAuthor(post *domain.Post, callerID string) error {
	if post.AuthorID != callerID {
		return domain.ErrNotAuthor
	}
	return nil
}

// evictIfOverCap deletes the single oldest post when the live count exceeds
// the cap. Exactly one eviction per creation event; a transient window one
// over the cap is acceptable, so failures are logged rather than surfaced.
func (s *PostService) evictIfOverCap(ctx context.Context) {
	count, err := s.posts.Count(ctx)
	if err != nil {
		slog.Error("count posts for eviction", "error", err)
		return
	}
	if count <= s.maxPosts {
		return
	}
	if err := s.posts.DeleteOldest(ctx); err != nil {
		slog.Error("evict oldest post", "error", err)
	}
}

// ParseTags splits a comma-separated tag string into an ordered sequence.
// Tokens are trimmed of surrounding whitespace and empty tokens are
// dropped, so trailing commas and blank entries are ignored.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
