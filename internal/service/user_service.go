package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/authz"
	"github.com/dankop/agora/internal/crypto"
	"github.com/dankop/agora/internal/domain"
	"github.com/dankop/agora/internal/repository"
)

// maxListLimit caps list queries; larger requested limits are clamped
// silently, non-positive limits are rejected.
const maxListLimit = 1000

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// Register creates an account. Username and nickname are stored trimmed
// and lowercased, email lowercased when present. Registration is open to
// anonymous callers.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	nickname := strings.ToLower(strings.TrimSpace(input.Nickname))
	email := normalizeEmail(input.Email)

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Nickname:     nickname,
		Email:        email,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if domain.IsKind(err, domain.KindDuplicate) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("creating user: %w", err)
	}

	return user.ID, nil
}

// Get returns one user. Allowed for admins and the user themselves.
func (s *UserService) Get(ctx context.Context, principal *domain.Principal, id uuid.UUID) (*domain.User, error) {
	if err := authz.RequireAdminOrSelf(principal, id); err != nil {
		return nil, err
	}
	return s.getUser(ctx, id)
}

// List returns up to limit users, newest first. Admin only.
func (s *UserService) List(ctx context.Context, principal *domain.Principal, limit int) ([]domain.User, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, limit)
}

// ChangeNickname normalizes and persists a new nickname. Admin or self.
func (s *UserService) ChangeNickname(ctx context.Context, principal *domain.Principal, id uuid.UUID, nickname string) error {
	if err := authz.RequireAdminOrSelf(principal, id); err != nil {
		return err
	}

	nickname = strings.ToLower(strings.TrimSpace(nickname))

	affected, err := s.userRepo.UpdateNickname(ctx, id, nickname)
	if err != nil {
		return fmt.Errorf("updating nickname: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// ChangePassword sets a new password. The new password must differ from
// the current one; setting the same password again is rejected.
func (s *UserService) ChangePassword(ctx context.Context, principal *domain.Principal, id uuid.UUID, newPassword string) error {
	if err := authz.RequireAdminOrSelf(principal, id); err != nil {
		return err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if crypto.VerifyPassword(newPassword, user.PasswordHash) {
		return domain.E(domain.KindInvalidRequest, "new password matches the current password")
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	affected, err := s.userRepo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// ChangeEmail sets or clears the account email. Admin or self.
func (s *UserService) ChangeEmail(ctx context.Context, principal *domain.Principal, id uuid.UUID, email string) error {
	if err := authz.RequireAdminOrSelf(principal, id); err != nil {
		return err
	}

	affected, err := s.userRepo.UpdateEmail(ctx, id, normalizeEmail(email))
	if err != nil {
		if domain.IsKind(err, domain.KindDuplicate) {
			return err
		}
		return fmt.Errorf("updating email: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// Delete removes the account. Admin or self. All later operations on the
// id report not found.
func (s *UserService) Delete(ctx context.Context, principal *domain.Principal, id uuid.UUID) error {
	if err := authz.RequireAdminOrSelf(principal, id); err != nil {
		return err
	}

	affected, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

// Login verifies credentials and returns the account id. Unknown username
// reports not found, a failed password check reports unauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (uuid.UUID, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return uuid.Nil, domain.E(domain.KindNotFound, "user not found")
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return uuid.Nil, domain.E(domain.KindUnauthorized, "invalid credentials")
	}

	return user.ID, nil
}

func (s *UserService) getUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	if user == nil {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	return user, nil
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

func normalizeLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, domain.E(domain.KindInvalidRequest, "limit must be at least 1")
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}
