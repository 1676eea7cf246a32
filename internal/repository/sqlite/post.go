package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvailles/inkwell/internal/domain"
)

// PostRepository implements domain.PostRepository using SQLite.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLite-backed PostRepository.
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db.SqlDB}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, title, summary, content, cover, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, post.Title, post.Summary, post.Content, post.Cover, post.AuthorID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	if err := insertTags(ctx, tx, id, post.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post := &domain.Post{}
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.summary, p.content, p.cover, p.author_id, u.username, p.created_at, p.updated_at
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`, id,
	).Scan(&post.ID, &post.Title, &post.Summary, &post.Content, &post.Cover,
		&post.AuthorID, &post.Author, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query post by id: %w", err)
	}

	tags, err := r.tagsFor(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Tags = tags
	return post, nil
}

// Update rewrites the post row and replaces its tag set. The caller is
// expected to pass the full desired state; field retention rules live in
// the service layer.
func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE posts SET title = ?, summary = ?, content = ?, cover = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title, post.Summary, post.Content, post.Cover, now, post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// The post vanished between read and write.
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", post.ID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if err := insertTags(ctx, tx, post.ID, post.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// DeleteOldest removes the single post with the minimum creation timestamp.
// Ties are broken by insertion order via rowid.
func (r *PostRepository) DeleteOldest(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id =
		 (SELECT id FROM posts ORDER BY created_at ASC, rowid ASC LIMIT 1)`)
	if err != nil {
		return fmt.Errorf("delete oldest post: %w", err)
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int, search string) ([]domain.Post, int, error) {
	where, args := searchClause(search)

	var total int
	countQuery := "SELECT COUNT(*) FROM posts p" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count matching posts: %w", err)
	}

	query := `SELECT p.id, p.title, p.summary, p.content, p.author_id, u.username,
	                 p.cover IS NOT NULL, p.created_at, p.updated_at
	          FROM posts p
	          JOIN users u ON u.id = p.author_id` + where +
		` ORDER BY p.created_at DESC, p.rowid DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var hasCover bool
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.AuthorID,
			&p.Author, &hasCover, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		if hasCover {
			// Listing never carries cover bytes; mark presence only.
			p.Cover = []byte{}
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}

	for i := range posts {
		tags, err := r.tagsFor(ctx, posts[i].ID)
		if err != nil {
			return nil, 0, err
		}
		posts[i].Tags = tags
	}

	return posts, total, nil
}

func (r *PostRepository) Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	where, args := searchClause(query)

	// Natural storage order: suggestions are deliberately unsorted.
	q := `SELECT p.id, p.title, u.username
	      FROM posts p
	      JOIN users u ON u.id = p.author_id` + where + ` LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var ids []string
	var suggestions []domain.Suggestion
	for rows.Next() {
		var id string
		var s domain.Suggestion
		if err := rows.Scan(&id, &s.Title, &s.Author); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		ids = append(ids, id)
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	for i, id := range ids {
		tags, err := r.tagsFor(ctx, id)
		if err != nil {
			return nil, err
		}
		suggestions[i].Tags = tags
	}

	return suggestions, nil
}

func (r *PostRepository) tagsFor(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT tag FROM post_tags WHERE post_id = ? ORDER BY sort_order", postID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func insertTags(ctx context.Context, tx *sql.Tx, postID string, tags []string) error {
	for i, tag := range tags {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO post_tags (post_id, sort_order, tag) VALUES (?, ?, ?)",
			postID, i, tag)
		if err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// searchClause builds a WHERE fragment matching search as a case-insensitive
// substring of the title or any tag. An empty search matches everything.
func searchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(search) + "%"
	clause := ` WHERE (p.title LIKE ? ESCAPE '\'
	            OR EXISTS (SELECT 1 FROM post_tags t
	                       WHERE t.post_id = p.id AND t.tag LIKE ? ESCAPE '\'))`
	return clause, []any{pattern, pattern}
}

// escapeLike escapes LIKE metacharacters so search terms match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
