package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankop/agora/internal/crypto"
	"github.com/dankop/agora/internal/domain"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewUserService(repo), repo
}

func registerUser(t *testing.T, svc *UserService, username, password string) uuid.UUID {
	t.Helper()
	id, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Password: password,
		Nickname: "someone",
	})
	require.NoError(t, err)
	return id
}

func selfPrincipal(id uuid.UUID) *domain.Principal {
	return &domain.Principal{UserID: id}
}

func adminPrincipal() *domain.Principal {
	return &domain.Principal{UserID: uuid.New(), Roles: []domain.Role{domain.RoleAdmin}}
}

func TestRegisterNormalizesFields(t *testing.T) {
	svc, repo := newUserFixture(t)

	id, err := svc.Register(context.Background(), RegisterInput{
		Username: "Alice ",
		Password: "Secret123",
		Nickname: "Nick",
		Email:    "E@X.com",
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "nick", stored.Nickname)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "e@x.com", *stored.Email)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newUserFixture(t)

	id := registerUser(t, svc, "bob", "Secret123")

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "Secret123")
	assert.True(t, crypto.VerifyPassword("Secret123", stored.PasswordHash))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, repo := newUserFixture(t)

	first := registerUser(t, svc, "bob", "Secret123")

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "bob",
		Password: "Other456",
		Nickname: "other",
	})
	assert.Equal(t, domain.KindDuplicate, domain.KindOf(err))

	// The first account is untouched.
	stored, err := repo.GetByID(context.Background(), first)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, crypto.VerifyPassword("Secret123", stored.PasswordHash))
}

func TestGetAuthorization(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	tests := []struct {
		name      string
		principal *domain.Principal
		wantKind  domain.Kind
	}{
		{"self allowed", selfPrincipal(id), ""},
		{"admin allowed", adminPrincipal(), ""},
		{"other user forbidden", selfPrincipal(uuid.New()), domain.KindForbidden},
		{"anonymous unauthorized", nil, domain.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Get(context.Background(), tt.principal, id)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, "bob", user.Username)
			} else {
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Get(context.Background(), adminPrincipal(), uuid.New())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListAdminOnly(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	_, err := svc.List(context.Background(), selfPrincipal(id), 10)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	users, err := svc.List(context.Background(), adminPrincipal(), 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListLimitValidation(t *testing.T) {
	svc, _ := newUserFixture(t)

	for _, limit := range []int{0, -1, -1000} {
		_, err := svc.List(context.Background(), adminPrincipal(), limit)
		assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err), "limit %d", limit)
	}
}

func TestListLimitClamp(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	for range 1005 {
		require.NoError(t, repo.Create(context.Background(), &domain.User{
			ID:       uuid.New(),
			Username: uuid.NewString(),
		}))
	}

	users, err := svc.List(context.Background(), adminPrincipal(), 5000)
	require.NoError(t, err)
	assert.Len(t, users, 1000)
}

func TestChangeNicknamePersists(t *testing.T) {
	svc, repo := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	err := svc.ChangeNickname(context.Background(), selfPrincipal(id), id, " NewNick ")
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "newnick", stored.Nickname)
}

func TestChangePasswordRejectsUnchanged(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	err := svc.ChangePassword(context.Background(), selfPrincipal(id), id, "Secret123")
	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
}

func TestChangePasswordThenLogin(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	err := svc.ChangePassword(context.Background(), selfPrincipal(id), id, "Fresh456")
	require.NoError(t, err)

	got, err := svc.Login(context.Background(), "bob", "Fresh456")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.Login(context.Background(), "bob", "Secret123")
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
}

func TestChangeEmailDuplicate(t *testing.T) {
	svc, _ := newUserFixture(t)
	first := registerUser(t, svc, "bob", "Secret123")
	second := registerUser(t, svc, "carol", "Secret123")

	require.NoError(t, svc.ChangeEmail(context.Background(), selfPrincipal(first), first, "bob@x.com"))

	err := svc.ChangeEmail(context.Background(), selfPrincipal(second), second, "BOB@x.com")
	assert.Equal(t, domain.KindDuplicate, domain.KindOf(err))
}

func TestChangeEmailClears(t *testing.T) {
	svc, repo := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	require.NoError(t, svc.ChangeEmail(context.Background(), selfPrincipal(id), id, "bob@x.com"))
	require.NoError(t, svc.ChangeEmail(context.Background(), selfPrincipal(id), id, ""))

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, stored.Email)
}

func TestDeleteTerminal(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "bob", "Secret123")

	require.NoError(t, svc.Delete(context.Background(), selfPrincipal(id), id))

	_, err := svc.Get(context.Background(), adminPrincipal(), id)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	err = svc.Delete(context.Background(), adminPrincipal(), id)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestLoginUnknownUsername(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestLoginNormalizesUsername(t *testing.T) {
	svc, _ := newUserFixture(t)
	id := registerUser(t, svc, "Bob", "Secret123")

	got, err := svc.Login(context.Background(), " BOB ", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
