package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinema-backend/internal/domains/order/model"
	"cinema-backend/internal/domains/order/service"
	paymentModel "cinema-backend/internal/domains/payment/model"
	paymentService "cinema-backend/internal/domains/payment/service"
	userModel "cinema-backend/internal/domains/user/model"
	"cinema-backend/internal/shared/response"
)

type OrderHandler struct {
	orderService   service.OrderService
	paymentService paymentService.PaymentService
}

func NewOrderHandler(orderService service.OrderService, paymentService paymentService.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// Create handles POST /api/v1/orders/create.
// It converts the cart into an order, then asks the gateway for a
// hosted session. A gateway failure leaves the order PENDING; the
// client retries via POST /api/v1/orders/:id/pay.
func (h *OrderHandler) Create(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	session, err := h.paymentService.CreateSession(c.Request.Context(), order)
	if err != nil {
		var paymentErr *paymentModel.PaymentError
		if errors.As(err, &paymentErr) && paymentErr.Code == paymentModel.ErrCodeGatewayUnavailable {
			// The order survived; surface it so the client can retry the payment.
			response.ErrorWithDetails(c, http.StatusServiceUnavailable, paymentErr.Code,
				"payment gateway unavailable, retry payment for this order",
				gin.H{"order_id": order.ID})
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, model.CreateOrderResponse{
		Order:      order,
		PaymentURL: session.SessionURL,
	})
}

// Pay handles POST /api/v1/orders/:id/pay — (re)creates the payment
// session for an existing pending order.
func (h *OrderHandler) Pay(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	privileged := userModel.IsPrivileged(c.GetString("role"))

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, privileged)
	if err != nil {
		h.handleError(c, err)
		return
	}

	session, err := h.paymentService.CreateSession(c.Request.Context(), order)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.CreateOrderResponse{
		Order:      order,
		PaymentURL: session.SessionURL,
	})
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	privileged := userModel.IsPrivileged(c.GetString("role"))

	var query model.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.orderService.ListOrders(c.Request.Context(), userID, privileged, query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, resp.Orders, response.Pagination(resp.Page, resp.Limit, resp.Total))
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	privileged := userModel.IsPrivileged(c.GetString("role"))

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, orderID, privileged)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// Cancel handles POST /api/v1/orders/cancel/:id
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	privileged := userModel.IsPrivileged(c.GetString("role"))

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), userID, orderID, privileged)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return
	}

	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case model.ErrCodeCartEmpty, model.ErrCodeMovieUnavailable:
			response.ErrorResponse(c, http.StatusBadRequest, orderErr.Code, orderErr.Message)
		case model.ErrCodeOrderNotFound:
			response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
		case model.ErrCodeOrderCannotCancel:
			response.ErrorResponse(c, http.StatusConflict, orderErr.Code, orderErr.Message)
		case model.ErrCodeUnauthorized:
			response.ErrorResponse(c, http.StatusForbidden, orderErr.Code, orderErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, orderErr.Code, orderErr.Message)
		}
		return
	}

	var paymentErr *paymentModel.PaymentError
	if errors.As(err, &paymentErr) {
		switch paymentErr.Code {
		case paymentModel.ErrCodeGatewayUnavailable:
			response.ErrorResponse(c, http.StatusServiceUnavailable, paymentErr.Code, paymentErr.Message)
		case paymentModel.ErrCodeOrderNotPayable:
			response.ErrorResponse(c, http.StatusConflict, paymentErr.Code, paymentErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, paymentErr.Code, paymentErr.Message)
		}
		return
	}

	response.InternalServerError(c, "internal server error")
}
