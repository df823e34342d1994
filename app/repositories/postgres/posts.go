package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quill/app/models"
	"quill/app/repositories"

	"github.com/google/uuid"
)

const selectPost = `SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
       u.id, u.email, u.name, u.password_hash, u.created_at
  FROM posts p
  JOIN users u ON u.id = p.author_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.NewString()
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return err
	}

	query :=
		`INSERT INTO posts (id, title, content, published, author_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Published, post.AuthorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if hasCode(err, codeForeignKeyViolation) {
			return fmt.Errorf("author %s: %w", post.AuthorID, repositories.ErrNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}

	author, err := NewUserRepository(r.db).GetByID(ctx, post.AuthorID)
	if err != nil {
		return err
	}
	return post.SetAuthor(author)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPost+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// List returns posts newest first. LIMIT NULL means no limit.
func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var pageSize sql.NullInt64
	if limit > 0 {
		pageSize = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	if offset < 0 {
		offset = 0
	}
	return r.query(ctx,
		selectPost+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`,
		pageSize, offset)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return r.query(ctx,
		selectPost+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`,
		authorID)
}

// Update writes the mutable fields. author_id and created_at are never
// updated.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now().UTC()
	}
	query :=
		`UPDATE posts SET title = $2, content = $3, published = $4, updated_at = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.Published, post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectAffected(res)
}

func (r *PostRepository) query(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return posts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.Published, &post.AuthorID, &post.CreatedAt, &post.UpdatedAt,
		&post.Author.ID, &post.Author.Email, &post.Author.Name, &post.Author.PasswordHash, &post.Author.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
