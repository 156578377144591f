package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartModel "cinema-backend/internal/domains/cart/model"
	movieModel "cinema-backend/internal/domains/movie/model"
	"cinema-backend/internal/domains/order/model"
	userModel "cinema-backend/internal/domains/user/model"
)

// fakeTx satisfies pgx.Tx for fakes that never touch the database.
type fakeTx struct {
	pgx.Tx
}

// =====================================================
// FAKES
// =====================================================

type fakeOrderRepo struct {
	orders    map[uuid.UUID]*model.Order
	items     map[uuid.UUID][]model.OrderItem
	commits   int
	rollbacks int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		items:  make(map[uuid.UUID][]model.OrderItem),
	}
}

func (f *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }
func (f *fakeOrderRepo) CommitTx(ctx context.Context, tx pgx.Tx) error {
	f.commits++
	return nil
}
func (f *fakeOrderRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	f.rollbacks++
	return nil
}

func (f *fakeOrderRepo) CreateOrderWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) CreateOrderItemsWithTx(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	for _, item := range items {
		f.items[item.OrderID] = append(f.items[item.OrderID], item)
	}
	return nil
}

func (f *fakeOrderRepo) UpdateOrderTotalWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, total decimal.Decimal) error {
	f.orders[orderID].Total = total
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *order
	copied.Items = f.items[orderID]
	return &copied, nil
}

func (f *fakeOrderRepo) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context, query model.ListOrdersQuery, restrictToUser *uuid.UUID) ([]model.Order, int, error) {
	var out []model.Order
	for _, order := range f.orders {
		if restrictToUser != nil && order.UserID != *restrictToUser {
			continue
		}
		out = append(out, *order)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) MarkPaidWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	return f.transition(orderID, model.OrderStatusPaid), nil
}

func (f *fakeOrderRepo) MarkCanceledWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	return f.transition(orderID, model.OrderStatusCanceled), nil
}

func (f *fakeOrderRepo) MarkCanceled(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return f.transition(orderID, model.OrderStatusCanceled), nil
}

func (f *fakeOrderRepo) transition(orderID uuid.UUID, to model.OrderStatus) bool {
	order, ok := f.orders[orderID]
	if !ok || order.Status != model.OrderStatusPending {
		return false
	}
	order.Status = to
	return true
}

func (f *fakeOrderRepo) ExpirePendingOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, order := range f.orders {
		if order.Status == model.OrderStatusPending && order.CreatedAt.Before(cutoff) {
			order.Status = model.OrderStatusCanceled
			n++
		}
	}
	return n, nil
}

type fakeCartRepo struct {
	carts map[uuid.UUID]*cartModel.Cart
	items map[uuid.UUID][]cartModel.CartItemDetail
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: make(map[uuid.UUID]*cartModel.Cart),
		items: make(map[uuid.UUID][]cartModel.CartItemDetail),
	}
}

func (f *fakeCartRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*cartModel.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	cart := &cartModel.Cart{ID: uuid.New(), UserID: userID}
	f.carts[userID] = cart
	return cart, nil
}

func (f *fakeCartRepo) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*cartModel.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	return nil, cartModel.ErrCartNotFound
}

func (f *fakeCartRepo) AddItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	f.items[cartID] = append(f.items[cartID], cartModel.CartItemDetail{MovieID: movieID})
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, movieID uuid.UUID) error {
	return nil
}

func (f *fakeCartRepo) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]cartModel.CartItemDetail, error) {
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

type fakeMovieRepo struct {
	movies map[uuid.UUID]movieModel.Movie
}

func newFakeMovieRepo() *fakeMovieRepo {
	return &fakeMovieRepo{movies: make(map[uuid.UUID]movieModel.Movie)}
}

func (f *fakeMovieRepo) CreateMovie(ctx context.Context, movie *movieModel.Movie) error {
	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeMovieRepo) GetMovieByID(ctx context.Context, movieID uuid.UUID) (*movieModel.Movie, error) {
	movie, ok := f.movies[movieID]
	if !ok {
		return nil, movieModel.ErrMovieNotFound
	}
	return &movie, nil
}

func (f *fakeMovieRepo) GetMovieBySlug(ctx context.Context, slug string) (*movieModel.Movie, error) {
	return nil, movieModel.ErrMovieNotFound
}

func (f *fakeMovieRepo) GetMoviesByIDs(ctx context.Context, movieIDs []uuid.UUID) ([]movieModel.Movie, error) {
	var out []movieModel.Movie
	for _, id := range movieIDs {
		if movie, ok := f.movies[id]; ok {
			out = append(out, movie)
		}
	}
	return out, nil
}

func (f *fakeMovieRepo) ListMovies(ctx context.Context, query movieModel.ListMoviesQuery) ([]movieModel.Movie, int, error) {
	return nil, 0, nil
}

func (f *fakeMovieRepo) UpdateMovie(ctx context.Context, movie *movieModel.Movie) error { return nil }
func (f *fakeMovieRepo) UpdatePosterURL(ctx context.Context, movieID uuid.UUID, posterURL string) error {
	return nil
}
func (f *fakeMovieRepo) DeleteMovie(ctx context.Context, movieID uuid.UUID) error { return nil }
func (f *fakeMovieRepo) SetMovieGenres(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	return nil
}
func (f *fakeMovieRepo) GetGenres(ctx context.Context) ([]movieModel.Genre, error) { return nil, nil }

type fakeUserRepo struct {
	users     map[uuid.UUID]*userModel.User
	purchased map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*userModel.User),
		purchased: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *userModel.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*userModel.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userModel.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*userModel.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, userModel.ErrUserNotFound
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
	set := f.purchased[userID]
	if set == nil {
		set = map[uuid.UUID]bool{}
	}
	return set, nil
}

func (f *fakeUserRepo) IsMoviePurchased(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	return f.purchased[userID][movieID], nil
}

// =====================================================
// TESTS
// =====================================================

func addToCart(t *testing.T, carts *fakeCartRepo, userID uuid.UUID, movieIDs ...uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	cart, err := carts.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	for _, id := range movieIDs {
		require.NoError(t, carts.AddItem(ctx, cart.ID, id))
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots prices and clears the cart", func(t *testing.T) {
		orders := newFakeOrderRepo()
		carts := newFakeCartRepo()
		movies := newFakeMovieRepo()
		users := newFakeUserRepo()
		svc := NewOrderService(orders, carts, movies, users)

		userID := uuid.New()
		movieA := movieModel.Movie{ID: uuid.New(), Title: "Heat", Price: decimal.RequireFromString("10.00")}
		movieB := movieModel.Movie{ID: uuid.New(), Title: "Alien", Price: decimal.RequireFromString("5.50")}
		require.NoError(t, movies.CreateMovie(ctx, &movieA))
		require.NoError(t, movies.CreateMovie(ctx, &movieB))

		// Alien is already in the user's library.
		require.NoError(t, users.AddPurchasedMoviesWithTx(ctx, fakeTx{}, userID, []uuid.UUID{movieB.ID}))

		addToCart(t, carts, userID, movieA.ID, movieB.ID)

		order, err := svc.CreateOrder(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, model.OrderStatusPending, order.Status)
		require.Len(t, order.Items, 1)
		assert.Equal(t, movieA.ID, order.Items[0].MovieID)
		assert.True(t, order.Items[0].PriceAtOrder.Equal(decimal.RequireFromString("10.00")))
		assert.True(t, order.Total.Equal(decimal.RequireFromString("10.00")))

		// The cart is emptied entirely, purchased leftovers included.
		cart, err := carts.GetCartByUserID(ctx, userID)
		require.NoError(t, err)
		items, err := carts.GetCartItems(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, items)

		assert.Equal(t, 1, orders.commits)
	})

	t.Run("no cart", func(t *testing.T) {
		svc := NewOrderService(newFakeOrderRepo(), newFakeCartRepo(), newFakeMovieRepo(), newFakeUserRepo())

		_, err := svc.CreateOrder(ctx, uuid.New())
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeCartEmpty, orderErr.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		carts := newFakeCartRepo()
		svc := NewOrderService(newFakeOrderRepo(), carts, newFakeMovieRepo(), newFakeUserRepo())

		userID := uuid.New()
		_, err := carts.GetOrCreateCart(ctx, userID)
		require.NoError(t, err)

		_, err = svc.CreateOrder(ctx, userID)
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeCartEmpty, orderErr.Code)
	})

	t.Run("cart holds only purchased movies", func(t *testing.T) {
		orders := newFakeOrderRepo()
		carts := newFakeCartRepo()
		movies := newFakeMovieRepo()
		users := newFakeUserRepo()
		svc := NewOrderService(orders, carts, movies, users)

		userID := uuid.New()
		movieA := movieModel.Movie{ID: uuid.New(), Title: "Heat", Price: decimal.RequireFromString("10.00")}
		require.NoError(t, movies.CreateMovie(ctx, &movieA))
		require.NoError(t, users.AddPurchasedMoviesWithTx(ctx, fakeTx{}, userID, []uuid.UUID{movieA.ID}))
		addToCart(t, carts, userID, movieA.ID)

		_, err := svc.CreateOrder(ctx, userID)
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeCartEmpty, orderErr.Code)
		assert.Zero(t, orders.commits)
	})

	t.Run("movie removed from catalog aborts checkout", func(t *testing.T) {
		orders := newFakeOrderRepo()
		carts := newFakeCartRepo()
		svc := NewOrderService(orders, carts, newFakeMovieRepo(), newFakeUserRepo())

		userID := uuid.New()
		addToCart(t, carts, userID, uuid.New())

		_, err := svc.CreateOrder(ctx, userID)
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeMovieUnavailable, orderErr.Code)
		assert.Zero(t, orders.commits)
	})
}

func TestGetOrderOwnership(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrderRepo()
	svc := NewOrderService(orders, newFakeCartRepo(), newFakeMovieRepo(), newFakeUserRepo())

	owner := uuid.New()
	orderID := uuid.New()
	require.NoError(t, orders.CreateOrderWithTx(ctx, fakeTx{}, &model.Order{
		ID:     orderID,
		UserID: owner,
		Status: model.OrderStatusPending,
	}))

	t.Run("owner sees the order", func(t *testing.T) {
		order, err := svc.GetOrder(ctx, owner, orderID, false)
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
	})

	t.Run("stranger gets not-found", func(t *testing.T) {
		_, err := svc.GetOrder(ctx, uuid.New(), orderID, false)
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeOrderNotFound, orderErr.Code)
	})

	t.Run("admin sees any order", func(t *testing.T) {
		order, err := svc.GetOrder(ctx, uuid.New(), orderID, true)
		require.NoError(t, err)
		assert.Equal(t, orderID, order.ID)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	newOrder := func(status model.OrderStatus) (*fakeOrderRepo, uuid.UUID, uuid.UUID) {
		orders := newFakeOrderRepo()
		userID := uuid.New()
		orderID := uuid.New()
		_ = orders.CreateOrderWithTx(ctx, fakeTx{}, &model.Order{
			ID:     orderID,
			UserID: userID,
			Status: status,
		})
		return orders, userID, orderID
	}

	t.Run("pending order cancels", func(t *testing.T) {
		orders, userID, orderID := newOrder(model.OrderStatusPending)
		svc := NewOrderService(orders, newFakeCartRepo(), newFakeMovieRepo(), newFakeUserRepo())

		order, err := svc.CancelOrder(ctx, userID, orderID, false)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCanceled, order.Status)
	})

	t.Run("paid order cannot cancel", func(t *testing.T) {
		orders, userID, orderID := newOrder(model.OrderStatusPaid)
		svc := NewOrderService(orders, newFakeCartRepo(), newFakeMovieRepo(), newFakeUserRepo())

		_, err := svc.CancelOrder(ctx, userID, orderID, false)
		require.Error(t, err)

		var orderErr *model.OrderError
		require.True(t, errors.As(err, &orderErr))
		assert.Equal(t, model.ErrCodeOrderCannotCancel, orderErr.Code)
	})
}

func TestExpirePendingOrders(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrderRepo()
	svc := NewOrderService(orders, newFakeCartRepo(), newFakeMovieRepo(), newFakeUserRepo())

	stale := &model.Order{ID: uuid.New(), UserID: uuid.New(), Status: model.OrderStatusPending}
	require.NoError(t, orders.CreateOrderWithTx(ctx, fakeTx{}, stale))
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)

	fresh := &model.Order{ID: uuid.New(), UserID: uuid.New(), Status: model.OrderStatusPending}
	require.NoError(t, orders.CreateOrderWithTx(ctx, fakeTx{}, fresh))

	expired, err := svc.ExpirePendingOrders(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)
	assert.Equal(t, model.OrderStatusCanceled, stale.Status)
	assert.Equal(t, model.OrderStatusPending, fresh.Status)
}
