package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/authz"
	"github.com/dankop/agora/internal/domain"
	"github.com/dankop/agora/internal/repository"
)

// PostNotifier broadcasts post events to connected feed clients.
type PostNotifier interface {
	NotifyPostCreated(post *domain.Post)
	NotifyPostUpdated(post *domain.Post)
	NotifyPostDeleted(postID uuid.UUID)
}

type PostService struct {
	postRepo repository.PostRepository
	notifier PostNotifier
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// SetNotifier sets the live-feed notifier (optional dependency).
func (s *PostService) SetNotifier(n PostNotifier) {
	s.notifier = n
}

type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create persists a new post owned by the principal. Title and content are
// validated at the transport edge already; the checks here are the
// authoritative ones.
func (s *PostService) Create(ctx context.Context, principal *domain.Principal, input CreatePostInput) (uuid.UUID, error) {
	if err := authz.RequireAuthenticated(principal); err != nil {
		return uuid.Nil, err
	}
	if err := validatePostInput(input.Title, input.Content); err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    principal.UserID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return uuid.Nil, fmt.Errorf("creating post: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPostCreated(post)
	}

	return post.ID, nil
}

// Get returns one post for display and counts the view. The increment
// rides in front of the fetch so the returned post reflects its own read;
// a post deleted in between simply reports not found.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if err := s.IncreaseViewCount(ctx, id); err != nil {
		return nil, err
	}
	return s.getPost(ctx, id)
}

// List returns up to limit posts, newest first. Public.
func (s *PostService) List(ctx context.Context, limit int) ([]domain.Post, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx, limit)
}

// Update replaces title and content. Only the owner may update; the post's
// updated_at is bumped. Returns the number of rows affected.
func (s *PostService) Update(ctx context.Context, principal *domain.Principal, id uuid.UUID, input UpdatePostInput) (int64, error) {
	if err := authz.RequireAuthenticated(principal); err != nil {
		return 0, err
	}
	if err := validatePostInput(input.Title, input.Content); err != nil {
		return 0, err
	}
	if err := s.requireOwner(ctx, principal, id); err != nil {
		return 0, err
	}

	affected, err := s.postRepo.Update(ctx, id, input.Title, input.Content)
	if err != nil {
		return 0, fmt.Errorf("updating post: %w", err)
	}

	if s.notifier != nil && affected > 0 {
		if post, err := s.postRepo.GetByID(ctx, id); err == nil && post != nil {
			s.notifier.NotifyPostUpdated(post)
		}
	}

	return affected, nil
}

// Delete removes a post. Only the owner may delete.
func (s *PostService) Delete(ctx context.Context, principal *domain.Principal, id uuid.UUID) (int64, error) {
	if err := authz.RequireAuthenticated(principal); err != nil {
		return 0, err
	}
	if err := s.requireOwner(ctx, principal, id); err != nil {
		return 0, err
	}

	affected, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("deleting post: %w", err)
	}

	if s.notifier != nil && affected > 0 {
		s.notifier.NotifyPostDeleted(id)
	}

	return affected, nil
}

// IncreaseViewCount adds exactly one view. Zero rows affected (the post
// vanished under a concurrent delete) is tolerated, not an error.
func (s *PostService) IncreaseViewCount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.postRepo.IncreaseViewCount(ctx, id); err != nil {
		return fmt.Errorf("increasing view count: %w", err)
	}
	return nil
}

// IncreaseCommentsCnt is called by the comment collaborator when a comment
// is added to the post.
func (s *PostService) IncreaseCommentsCnt(ctx context.Context, id uuid.UUID) error {
	affected, err := s.postRepo.IncreaseCommentsCnt(ctx, id)
	if err != nil {
		return fmt.Errorf("increasing comments count: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "post not found")
	}
	return nil
}

// DecreaseCommentsCnt is called by the comment collaborator when a comment
// is removed. The counter floors at zero.
func (s *PostService) DecreaseCommentsCnt(ctx context.Context, id uuid.UUID) error {
	affected, err := s.postRepo.DecreaseCommentsCnt(ctx, id)
	if err != nil {
		return fmt.Errorf("decreasing comments count: %w", err)
	}
	if affected == 0 {
		return domain.E(domain.KindNotFound, "post not found")
	}
	return nil
}

// IsOwner reports whether userID owns the post. Pure query, no view-count
// side effect.
func (s *PostService) IsOwner(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return s.postRepo.IsOwner(ctx, postID, userID)
}

func (s *PostService) requireOwner(ctx context.Context, principal *domain.Principal, id uuid.UUID) error {
	post, err := s.getPost(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != principal.UserID {
		return domain.E(domain.KindForbidden, "only the post owner can perform this action")
	}
	return nil
}

func (s *PostService) getPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	if post == nil {
		return nil, domain.E(domain.KindNotFound, "post not found")
	}
	return post, nil
}

func validatePostInput(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return domain.E(domain.KindInvalidRequest, "title is required")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return domain.E(domain.KindInvalidRequest, "title is too long")
	}
	if strings.TrimSpace(content) == "" {
		return domain.E(domain.KindInvalidRequest, "content is required")
	}
	return nil
}
