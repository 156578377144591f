package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinema-backend/internal/domains/cart/model"
	"cinema-backend/internal/domains/cart/service"
	"cinema-backend/internal/shared/response"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	cart, err := h.service.AddToCart(c.Request.Context(), userID, movieID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:movieId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	movieID, err := uuid.Parse(c.Param("movieId"))
	if err != nil {
		response.BadRequest(c, "invalid movie id")
		return
	}

	cart, err := h.service.RemoveFromCart(c.Request.Context(), userID, movieID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	if err := h.service.ClearCart(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return
	}

	var cartErr *model.CartError
	if errors.As(err, &cartErr) {
		switch cartErr.Code {
		case model.ErrCodeAlreadyInCart:
			response.ErrorResponse(c, http.StatusConflict, cartErr.Code, cartErr.Message)
		case model.ErrCodeNotInCart, model.ErrCodeMovieNotFound, model.ErrCodeCartNotFound:
			response.ErrorResponse(c, http.StatusNotFound, cartErr.Code, cartErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, cartErr.Code, cartErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}
