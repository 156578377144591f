package handler

import (
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinema-backend/internal/domains/payment/model"
	"cinema-backend/internal/domains/payment/service"
	userModel "cinema-backend/internal/domains/user/model"
	"cinema-backend/internal/shared/response"
	"cinema-backend/pkg/logger"
)

// =====================================================
// PAYMENT HANDLER
// =====================================================

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Success handles the gateway redirect after a completed checkout.
// GET /payments/success?session_id=...
func (h *PaymentHandler) Success(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.BadRequest(c, "session_id is required")
		return
	}

	result, err := h.paymentService.HandleSuccess(c.Request.Context(), sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payment": model.ToPaymentResponse(result.Payment),
		"applied": result.Applied,
	})
}

// Cancel handles the gateway redirect after an abandoned checkout.
// GET /payments/cancel?session_id=...
func (h *PaymentHandler) Cancel(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.BadRequest(c, "session_id is required")
		return
	}

	result, err := h.paymentService.HandleCancel(c.Request.Context(), sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payment": model.ToPaymentResponse(result.Payment),
		"applied": result.Applied,
	})
}

// Webhook receives signed gateway events.
// POST /payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	if err := h.paymentService.ProcessWebhook(c.Request.Context(), payload, signature); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

// List returns payment history; staff can filter by user, status
// and calendar day.
// GET /payments/list
func (h *PaymentHandler) List(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	privileged := userModel.IsPrivileged(c.GetString("role"))

	var query model.ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	query.Normalize()

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), userID, privileged, query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	responses := make([]model.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, model.ToPaymentResponse(&payments[i]))
	}

	response.SuccessWithMeta(c, http.StatusOK, responses, response.Pagination(query.Page, query.Limit, total))
}

// =====================================================
// ERROR HANDLING
// =====================================================

func (h *PaymentHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", validationErrs)
		return
	}

	var paymentErr *model.PaymentError
	if errors.As(err, &paymentErr) {
		switch paymentErr.Code {
		case model.ErrCodePaymentNotFound:
			response.NotFound(c, paymentErr.Message)
		case model.ErrCodeGatewayUnavailable:
			response.ServiceUnavailable(c, paymentErr.Message)
		case model.ErrCodeOrderNotPayable, model.ErrCodeAlreadyFinalized:
			response.Conflict(c, paymentErr.Message)
		case model.ErrCodeInvalidSignature:
			response.Unauthorized(c, paymentErr.Message)
		default:
			logger.Error("payment operation failed", err)
			response.InternalServerError(c, "something went wrong")
		}
		return
	}

	logger.Error("payment operation failed", err)
	response.InternalServerError(c, "something went wrong")
}
