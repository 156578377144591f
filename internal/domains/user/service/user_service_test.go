package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-backend/internal/domains/user/model"
	"cinema-backend/pkg/jwt"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users     map[uuid.UUID]*model.User
	byEmail   map[string]uuid.UUID
	purchased map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*model.User),
		byEmail:   make(map[string]uuid.UUID),
		purchased: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return model.ErrEmailExists
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) AddPurchasedMoviesWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, movieIDs []uuid.UUID) error {
	if f.purchased[userID] == nil {
		f.purchased[userID] = make(map[uuid.UUID]bool)
	}
	for _, id := range movieIDs {
		f.purchased[userID][id] = true
	}
	return nil
}

func (f *fakeUserRepo) GetPurchasedMovieIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	return f.purchased[userID], nil
}

func (f *fakeUserRepo) IsMoviePurchased(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	return f.purchased[userID][movieID], nil
}

func newTestService(repo *fakeUserRepo) UserService {
	return NewUserService(repo, jwt.NewManager("test-secret", 15*time.Minute))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and issues tokens", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		resp, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "ripley@example.com",
			Password: "nostromo1979",
			FullName: "Ellen Ripley",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "ripley@example.com", resp.User.Email)
		assert.Equal(t, model.RoleUser, resp.User.Role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		req := model.RegisterRequest{
			Email:    "ripley@example.com",
			Password: "nostromo1979",
			FullName: "Ellen Ripley",
		}
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)

		_, err = svc.Register(ctx, req)
		require.Error(t, err)

		var userErr *model.UserError
		require.True(t, errors.As(err, &userErr))
		assert.Equal(t, model.ErrCodeEmailExists, userErr.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestService(newFakeUserRepo())

		_, err := svc.Register(ctx, model.RegisterRequest{
			Email:    "ripley@example.com",
			Password: "short",
			FullName: "Ellen Ripley",
		})
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "ripley@example.com",
		Password: "nostromo1979",
		FullName: "Ellen Ripley",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, model.LoginRequest{
			Email:    "ripley@example.com",
			Password: "nostromo1979",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password and unknown email map to the same error", func(t *testing.T) {
		_, badPassErr := svc.Login(ctx, model.LoginRequest{
			Email:    "ripley@example.com",
			Password: "wrong-password",
		})
		_, noUserErr := svc.Login(ctx, model.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever123",
		})
		require.Error(t, badPassErr)
		require.Error(t, noUserErr)

		var e1, e2 *model.UserError
		require.True(t, errors.As(badPassErr, &e1))
		require.True(t, errors.As(noUserErr, &e2))
		assert.Equal(t, model.ErrCodeInvalidCredentials, e1.Code)
		assert.Equal(t, e1.Code, e2.Code)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeUserRepo())

	registered, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "ripley@example.com",
		Password: "nostromo1979",
		FullName: "Ellen Ripley",
	})
	require.NoError(t, err)

	t.Run("exchanges refresh token for a new pair", func(t *testing.T) {
		resp, err := svc.Refresh(ctx, model.RefreshRequest{RefreshToken: registered.RefreshToken})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, registered.User.ID, resp.User.ID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, model.RefreshRequest{RefreshToken: registered.AccessToken})
		require.Error(t, err)

		var userErr *model.UserError
		require.True(t, errors.As(err, &userErr))
		assert.Equal(t, model.ErrCodeInvalidCredentials, userErr.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, model.RefreshRequest{
			RefreshToken: strings.Repeat("x", 32),
		})
		require.Error(t, err)
	})
}
