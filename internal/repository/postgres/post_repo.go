package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dankop/agora/internal/domain"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, title, content, view_count, comments_cnt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		post.ID, post.UserID, post.Title, post.Content,
		post.ViewCount, post.CommentsCnt, post.CreatedAt, post.UpdatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var p domain.Post
	err := r.pool.QueryRow(ctx,
		"SELECT id, user_id, title, content, view_count, comments_cnt, created_at, updated_at FROM posts WHERE id = $1", id,
	).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Content,
		&p.ViewCount, &p.CommentsCnt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) List(ctx context.Context, limit int) ([]domain.Post, error) {
	query := "SELECT id, user_id, title, content, view_count, comments_cnt, created_at, updated_at FROM posts ORDER BY created_at DESC LIMIT $1"

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.ViewCount, &p.CommentsCnt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, title, content string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"UPDATE posts SET title = $2, content = $3, updated_at = now() WHERE id = $1",
		id, title, content,
	)
	return tag.RowsAffected(), err
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return tag.RowsAffected(), err
}

// Counter updates run as single statements so concurrent requests never
// lose increments to read-modify-write races.

func (r *PostRepo) IncreaseViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET view_count = view_count + 1 WHERE id = $1", id)
	return tag.RowsAffected(), err
}

func (r *PostRepo) IncreaseCommentsCnt(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET comments_cnt = comments_cnt + 1 WHERE id = $1", id)
	return tag.RowsAffected(), err
}

func (r *PostRepo) DecreaseCommentsCnt(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE posts SET comments_cnt = GREATEST(comments_cnt - 1, 0) WHERE id = $1", id)
	return tag.RowsAffected(), err
}

func (r *PostRepo) IsOwner(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var owner bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1 AND user_id = $2)", postID, userID,
	).Scan(&owner)
	return owner, err
}
