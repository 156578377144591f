package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-backend/internal/domains/cart/model"
)

// fakeCartRepo is an in-memory CartRepository.
type fakeCartRepo struct {
	carts     map[uuid.UUID]*model.Cart // by user id
	items     map[uuid.UUID][]model.CartItemDetail
	addErr    error
	removeErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: make(map[uuid.UUID]*model.Cart),
		items: make(map[uuid.UUID][]model.CartItemDetail),
	}
}

func (f *fakeCartRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	f.carts[userID] = cart
	return cart, nil
}

func (f *fakeCartRepo) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	return nil, model.ErrCartNotFound
}

func (f *fakeCartRepo) AddItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	if f.addErr != nil {
		return f.addErr
	}
	for _, item := range f.items[cartID] {
		if item.MovieID == movieID {
			return model.ErrAlreadyInCart
		}
	}
	f.items[cartID] = append(f.items[cartID], model.CartItemDetail{MovieID: movieID})
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	items := f.items[cartID]
	for i, item := range items {
		if item.MovieID == movieID {
			f.items[cartID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return model.ErrNotInCart
}

func (f *fakeCartRepo) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItemDetail, error) {
	return f.items[cartID], nil
}

func (f *fakeCartRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	f.items[cartID] = nil
	return nil
}

func (f *fakeCartRepo) ClearCartWithTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	f.items[cartID] = nil
	return nil
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := uuid.New()

	t.Run("adds a movie", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		resp, err := svc.AddToCart(ctx, userID, movieID)
		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("rejects a duplicate", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		_, err := svc.AddToCart(ctx, userID, movieID)
		require.NoError(t, err)

		_, err = svc.AddToCart(ctx, userID, movieID)
		require.Error(t, err)

		var cartErr *model.CartError
		require.True(t, errors.As(err, &cartErr))
		assert.Equal(t, model.ErrCodeAlreadyInCart, cartErr.Code)
	})

	t.Run("unknown movie", func(t *testing.T) {
		repo := newFakeCartRepo()
		repo.addErr = model.ErrMovieNotFound
		svc := NewCartService(repo)

		_, err := svc.AddToCart(ctx, userID, movieID)
		require.Error(t, err)

		var cartErr *model.CartError
		require.True(t, errors.As(err, &cartErr))
		assert.Equal(t, model.ErrCodeMovieNotFound, cartErr.Code)
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	movieID := uuid.New()

	t.Run("removes an item", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		_, err := svc.AddToCart(ctx, userID, movieID)
		require.NoError(t, err)

		resp, err := svc.RemoveFromCart(ctx, userID, movieID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("movie not in cart", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		_, err := svc.AddToCart(ctx, userID, uuid.New())
		require.NoError(t, err)

		_, err = svc.RemoveFromCart(ctx, userID, movieID)
		require.Error(t, err)

		var cartErr *model.CartError
		require.True(t, errors.As(err, &cartErr))
		assert.Equal(t, model.ErrCodeNotInCart, cartErr.Code)
	})

	t.Run("no cart at all", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		_, err := svc.RemoveFromCart(ctx, userID, movieID)
		require.Error(t, err)

		var cartErr *model.CartError
		require.True(t, errors.As(err, &cartErr))
		assert.Equal(t, model.ErrCodeNotInCart, cartErr.Code)
	})
}

func TestGetCartPurchasedItems(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := newFakeCartRepo()
	svc := NewCartService(repo)

	cart, err := repo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)

	repo.items[cart.ID] = []model.CartItemDetail{
		{MovieID: uuid.New(), Title: "Heat", Price: decimal.RequireFromString("10.00"), ReleaseYear: 1995, Genres: []string{"Crime", "Thriller"}},
		{MovieID: uuid.New(), Title: "Alien", Price: decimal.RequireFromString("5.50"), ReleaseYear: 1979, Genres: []string{"Horror", "Sci-Fi"}, Purchased: true},
	}

	resp, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)

	// Purchased items stay visible but are excluded from the total and
	// produce a warning.
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "Alien")

	// Listing carries the movie eager-load: year and genres.
	assert.Equal(t, 1995, resp.Items[0].ReleaseYear)
	assert.Equal(t, []string{"Crime", "Thriller"}, resp.Items[0].Genres)
	assert.Equal(t, []string{"Horror", "Sci-Fi"}, resp.Items[1].Genres)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("empties the cart", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		cart, err := repo.GetOrCreateCart(ctx, userID)
		require.NoError(t, err)
		repo.items[cart.ID] = []model.CartItemDetail{
			{MovieID: uuid.New(), Title: "Heat", Price: decimal.RequireFromString("10.00")},
		}

		require.NoError(t, svc.ClearCart(ctx, userID))

		resp, err := svc.GetCart(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("no cart is a no-op", func(t *testing.T) {
		repo := newFakeCartRepo()
		svc := NewCartService(repo)

		require.NoError(t, svc.ClearCart(ctx, userID))
	})
}
