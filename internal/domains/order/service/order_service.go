package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartModel "cinema-backend/internal/domains/cart/model"
	cartRepository "cinema-backend/internal/domains/cart/repository"
	movieRepository "cinema-backend/internal/domains/movie/repository"
	"cinema-backend/internal/domains/order/model"
	"cinema-backend/internal/domains/order/repository"
	userRepository "cinema-backend/internal/domains/user/repository"
	"cinema-backend/pkg/logger"
)

type OrderService interface {
	// CreateOrder turns the user's cart into a priced PENDING order.
	CreateOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error)
	GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, privileged bool) (*model.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, privileged bool, query model.ListOrdersQuery) (*model.OrderListResponse, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, privileged bool) (*model.Order, error)

	// ExpirePendingOrders cancels orders stuck in PENDING longer than
	// ttl. Called by the worker, never from a request path.
	ExpirePendingOrders(ctx context.Context, ttl time.Duration) (int64, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  cartRepository.CartRepository
	movieRepo movieRepository.MovieRepository
	userRepo  userRepository.UserRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo cartRepository.CartRepository,
	movieRepo movieRepository.MovieRepository,
	userRepo userRepository.UserRepository,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		movieRepo: movieRepo,
		userRepo:  userRepo,
	}
}

// =====================================================
// CREATE ORDER (checkout)
// =====================================================

// CreateOrder runs the whole cart-to-order conversion in one
// transaction: order row, priced items, total, cart clearing. Any
// failure rolls everything back; a half-written order never persists.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, cartModel.ErrCartNotFound) {
			return nil, model.NewOrderError(model.ErrCodeCartEmpty, "cart is empty", model.ErrCartEmpty)
		}
		return nil, err
	}

	cartItems, err := s.cartRepo.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, model.NewOrderError(model.ErrCodeCartEmpty, "cart is empty", model.ErrCartEmpty)
	}

	// Exclude movies the user already owns. The excluded items stay
	// in the cart until the clear below empties it entirely.
	purchased, err := s.userRepo.GetPurchasedMovieIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var payableIDs []uuid.UUID
	for _, item := range cartItems {
		if !purchased[item.MovieID] {
			payableIDs = append(payableIDs, item.MovieID)
		}
	}
	if len(payableIDs) == 0 {
		return nil, model.NewOrderError(model.ErrCodeCartEmpty, "all movies in cart are already purchased", model.ErrCartEmpty)
	}

	// Re-read the catalog so prices are snapshotted from the source of
	// truth. A movie deleted since it was carted aborts the checkout.
	movies, err := s.movieRepo.GetMoviesByIDs(ctx, payableIDs)
	if err != nil {
		return nil, err
	}
	if len(movies) != len(payableIDs) {
		return nil, model.NewOrderError(model.ErrCodeMovieUnavailable, "a movie in the cart is no longer available", model.ErrMovieUnavailable)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orderRepo.RollbackTx(ctx, tx)

	order := &model.Order{
		ID:     uuid.New(),
		UserID: userID,
		Total:  decimal.Zero,
		Status: model.OrderStatusPending,
	}

	if err := s.orderRepo.CreateOrderWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(movies))
	total := decimal.Zero
	for _, movie := range movies {
		items = append(items, model.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			MovieID:      movie.ID,
			MovieTitle:   movie.Title,
			PriceAtOrder: movie.Price,
		})
		total = total.Add(movie.Price)
	}

	if err := s.orderRepo.CreateOrderItemsWithTx(ctx, tx, items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateOrderTotalWithTx(ctx, tx, order.ID, total); err != nil {
		return nil, err
	}

	// Clear everything, purchased leftovers included.
	if err := s.cartRepo.ClearCartWithTx(ctx, tx, cart.ID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	order.Total = total
	order.Items = items

	logger.Info("Order created", map[string]interface{}{
		"orderId": order.ID.String(),
		"userId":  userID.String(),
		"total":   total.StringFixed(2),
		"items":   len(items),
	})

	return order, nil
}

// =====================================================
// READS
// =====================================================

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, privileged bool) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "order not found", err)
		}
		return nil, err
	}

	if !privileged && order.UserID != userID {
		// Not-found instead of forbidden to avoid leaking order ids.
		return nil, model.NewOrderError(model.ErrCodeOrderNotFound, "order not found", model.ErrOrderNotFound)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, privileged bool, query model.ListOrdersQuery) (*model.OrderListResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	query.Normalize()

	var restrictToUser *uuid.UUID
	if !privileged {
		restrictToUser = &userID
	}

	orders, total, err := s.orderRepo.ListOrders(ctx, query, restrictToUser)
	if err != nil {
		return nil, err
	}

	return &model.OrderListResponse{
		Orders: orders,
		Total:  total,
		Page:   query.Page,
		Limit:  query.Limit,
	}, nil
}

// =====================================================
// CANCEL
// =====================================================

func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, privileged bool) (*model.Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID, privileged)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, model.NewOrderError(model.ErrCodeOrderCannotCancel, "only pending orders can be cancelled", model.ErrOrderCannotCancel)
	}

	changed, err := s.orderRepo.MarkCanceled(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost the race against a callback that just finalized it.
		return nil, model.NewOrderError(model.ErrCodeOrderCannotCancel, "order is no longer pending", model.ErrOrderCannotCancel)
	}

	return s.orderRepo.GetOrderByID(ctx, orderID)
}

// =====================================================
// EXPIRY
// =====================================================

func (s *orderService) ExpirePendingOrders(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)

	expired, err := s.orderRepo.ExpirePendingOrdersBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		logger.Info("Expired stale pending orders", map[string]interface{}{
			"count":  expired,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}

	return expired, nil
}
