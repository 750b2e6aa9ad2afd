package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

// Lookup methods return (nil, nil) when no row matches; services translate
// that into a not-found domain error. Unique-constraint violations surface
// as a domain error of kind Duplicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (int64, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email *string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// Counter mutations are single-statement atomic updates at the storage
// level; the decrement never takes comments_cnt below zero.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, limit int) ([]domain.Post, error)
	Update(ctx context.Context, id uuid.UUID, title, content string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	IncreaseViewCount(ctx context.Context, id uuid.UUID) (int64, error)
	IsOwner(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	IncreaseCommentsCnt(ctx context.Context, id uuid.UUID) (int64, error)
	DecreaseCommentsCnt(ctx context.Context, id uuid.UUID) (int64, error)
}
