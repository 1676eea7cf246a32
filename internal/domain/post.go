package domain

import (
	"context"
	"time"
)

// Post is a published article. Cover holds the raw image bytes inline and
// is nil when no cover was uploaded. Tags is an ordered sequence; updates
// replace the whole set, never individual entries.
type Post struct {
	ID        string
	Title     string
	Summary   string
	Content   string
	Cover     []byte
	Tags      []string
	AuthorID  string
	Author    string // username, resolved on read
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Suggestion is a lightweight search result for typeahead lookups.
type Suggestion struct {
	Title  string
	Author string
	Tags   []string
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// DeleteOldest removes the single post with the smallest creation
	// timestamp, ties broken by insertion order.
	DeleteOldest(ctx context.Context) error
	// List returns a page of posts matching search (empty matches all),
	// newest first, along with the total number of matching posts.
	List(ctx context.Context, limit, offset int, search string) ([]Post, int, error)
	// Suggest returns up to limit posts matching query in natural storage
	// order. Cover bytes are not loaded.
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}
