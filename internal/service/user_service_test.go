package service

import (
	"context"
	"strings"
	"testing"

	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo repository.UserRepository) *UserService {
	svc := NewUserService(repo)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func validUserInput() CreateUserInput {
	return CreateUserInput{
		Name:             "Anna Karenina",
		Email:            "anna@example.com",
		Password:         "secret1",
		PasswordRepeated: "secret1",
	}
}

func TestUserService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first user becomes owner", func(t *testing.T) {
		t.Parallel()
		var saved *models.User
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		user, err := newTestUserService(repo).Create(ctx, validUserInput())
		require.NoError(t, err)
		assert.True(t, user.IsOwner)
		require.NotNil(t, saved)
		assert.NotEqual(t, "secret1", saved.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret1")))
	})

	t.Run("later users are readers", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.countFn = func(_ context.Context) (int64, error) { return 1, nil }
		user, err := newTestUserService(repo).Create(ctx, validUserInput())
		require.NoError(t, err)
		assert.False(t, user.IsOwner)
	})

	t.Run("duplicate email is reported with other violations", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.findByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		}
		repo.createFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("create must not run")
			return nil
		}
		in := validUserInput()
		in.PasswordRepeated = "other1"
		_, err := newTestUserService(repo).Create(ctx, in)
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Equal(t, []string{validation.MsgPasswordsMismatch, validation.MsgEmailTaken}, appErr.Messages)
	})

	t.Run("password longer than bcrypt accepts is a validation error", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("create must not run")
			return nil
		}
		in := validUserInput()
		in.Password = strings.Repeat("x", 80)
		in.PasswordRepeated = in.Password
		_, err := newTestUserService(repo).Create(ctx, in)
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Equal(t, []string{validation.MsgPasswordMax}, appErr.Messages)
	})

	t.Run("unique index race maps to the same message", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.createFn = func(_ context.Context, _ *models.User) error { return repository.ErrDuplicateEmail }
		_, err := newTestUserService(repo).Create(ctx, validUserInput())
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Equal(t, validation.MsgEmailTaken, appErr.Message)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := noopUserRepo()
	repo.findByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email != "anna@example.com" {
			return nil, nil
		}
		return &models.User{ID: 1, Email: email, PasswordHash: string(hash)}, nil
	}
	svc := newTestUserService(repo)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "anna@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	for _, tc := range []struct{ email, password string }{
		{"anna@example.com", "wrong-password"},
		{"nobody@example.com", "secret1"},
	} {
		_, err := svc.Authenticate(ctx, tc.email, tc.password)
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, MsgBadCredentials, appErr.Message)
	}
}
