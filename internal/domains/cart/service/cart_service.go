package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cinema-backend/internal/domains/cart/model"
	"cinema-backend/internal/domains/cart/repository"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)
	AddToCart(ctx context.Context, userID, movieID uuid.UUID) (*model.CartResponse, error)
	RemoveFromCart(ctx context.Context, userID, movieID uuid.UUID) (*model.CartResponse, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{
		repo: repo,
	}
}

// =====================================================
// GET CART
// =====================================================

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, cart.ID)
}

// =====================================================
// ADD
// =====================================================

// AddToCart allows adding movies the user already owns; the purchased
// flag is surfaced on listing and the item is skipped at checkout.
func (s *cartService) AddToCart(ctx context.Context, userID, movieID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddItem(ctx, cart.ID, movieID); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyInCart):
			return nil, model.NewCartError(model.ErrCodeAlreadyInCart, "movie already in cart", err)
		case errors.Is(err, model.ErrMovieNotFound):
			return nil, model.NewCartError(model.ErrCodeMovieNotFound, "movie not found", err)
		default:
			return nil, err
		}
	}

	return s.buildResponse(ctx, cart.ID)
}

// =====================================================
// REMOVE
// =====================================================

func (s *cartService) RemoveFromCart(ctx context.Context, userID, movieID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			return nil, model.NewCartError(model.ErrCodeNotInCart, "movie not in cart", model.ErrNotInCart)
		}
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, cart.ID, movieID); err != nil {
		if errors.Is(err, model.ErrNotInCart) {
			return nil, model.NewCartError(model.ErrCodeNotInCart, "movie not in cart", err)
		}
		return nil, err
	}

	return s.buildResponse(ctx, cart.ID)
}

// =====================================================
// CLEAR
// =====================================================

// ClearCart empties the user's cart. Clearing an absent or already
// empty cart is a no-op.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrCartNotFound) {
			return nil
		}
		return err
	}

	return s.repo.ClearCart(ctx, cart.ID)
}

func (s *cartService) buildResponse(ctx context.Context, cartID uuid.UUID) (*model.CartResponse, error) {
	items, err := s.repo.GetCartItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	var warnings []string
	for _, item := range items {
		if item.Purchased {
			warnings = append(warnings, fmt.Sprintf("%q is already in your library and will not be charged", item.Title))
			continue
		}
		total = total.Add(item.Price)
	}

	return &model.CartResponse{
		CartID:   cartID,
		Items:    items,
		Total:    total,
		Warnings: warnings,
	}, nil
}
