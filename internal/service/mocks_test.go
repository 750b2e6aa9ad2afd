package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository with the same failure
// signaling as the Postgres implementation: (nil, nil) for missing rows,
// Duplicate domain errors for unique violations.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.E(domain.KindDuplicate, "username or email already taken")
		}
		if u.Email != nil && user.Email != nil && *u.Email == *user.Email {
			return domain.E(domain.KindDuplicate, "username or email already taken")
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	r.order = append(r.order, user.ID)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.User
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		if u, ok := r.users[r.order[i]]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateNickname(_ context.Context, id uuid.UUID, nickname string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	u.Nickname = nickname
	return 1, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	u.PasswordHash = passwordHash
	return 1, nil
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id uuid.UUID, email *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	if email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email != nil && *other.Email == *email {
				return 0, domain.E(domain.KindDuplicate, "email already taken")
			}
		}
	}
	u.Email = email
	return 1, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

// fakePostRepo is an in-memory PostRepository. Counter mutations run under
// one lock, matching the single-statement atomicity of the SQL versions.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*domain.Post
	order []uuid.UUID
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *post
	r.posts[post.ID] = &cp
	r.order = append(r.order, post.ID)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(_ context.Context, limit int) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Post
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		if p, ok := r.posts[r.order[i]]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, id uuid.UUID, title, content string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return 0, nil
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = p.UpdatedAt.Add(1) // monotonic bump, stands in for now()
	return 1, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return 0, nil
	}
	delete(r.posts, id)
	return 1, nil
}

func (r *fakePostRepo) IncreaseViewCount(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return 0, nil
	}
	p.ViewCount++
	return 1, nil
}

func (r *fakePostRepo) IsOwner(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	return ok && p.UserID == userID, nil
}

func (r *fakePostRepo) IncreaseCommentsCnt(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return 0, nil
	}
	p.CommentsCnt++
	return 1, nil
}

func (r *fakePostRepo) DecreaseCommentsCnt(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return 0, nil
	}
	if p.CommentsCnt > 0 {
		p.CommentsCnt--
	}
	return 1, nil
}
