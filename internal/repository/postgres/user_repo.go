package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dankop/agora/internal/domain"
)

// Postgres unique_violation error code.
const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, nickname, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.PasswordHash,
		user.Nickname, user.Email, user.CreatedAt,
	)
	return translateUnique(err, "username or email already taken")
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, password_hash, nickname, email, created_at FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT id, username, password_hash, nickname, email, created_at FROM users WHERE username = $1", username)
}

func (r *UserRepo) List(ctx context.Context, limit int) ([]domain.User, error) {
	query := "SELECT id, username, password_hash, nickname, email, created_at FROM users ORDER BY created_at DESC LIMIT $1"

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Nickname, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE users SET nickname = $2 WHERE id = $1", id, nickname)
	return tag.RowsAffected(), err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $2 WHERE id = $1", id, passwordHash)
	return tag.RowsAffected(), err
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id uuid.UUID, email *string) (int64, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE users SET email = $2 WHERE id = $1", id, email)
	if err != nil {
		return 0, translateUnique(err, "email already taken")
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	return tag.RowsAffected(), err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash,
		&u.Nickname, &u.Email, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// translateUnique maps a unique-constraint violation to the Duplicate
// domain kind; everything else passes through untouched.
func translateUnique(err error, message string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.Wrap(domain.KindDuplicate, message, err)
	}
	return err
}
