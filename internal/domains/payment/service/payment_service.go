package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	orderModel "cinema-backend/internal/domains/order/model"
	orderRepository "cinema-backend/internal/domains/order/repository"
	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
	"cinema-backend/internal/domains/payment/repository"
	userRepository "cinema-backend/internal/domains/user/repository"
	"cinema-backend/internal/shared"
	"cinema-backend/internal/shared/utils"
	"cinema-backend/pkg/logger"
)

// =====================================================
// PAYMENT SERVICE INTERFACE
// =====================================================

type PaymentService interface {
	// CreateSession opens a checkout session for a pending order. Calling
	// it again for the same order replaces the session instead of creating
	// a second payment.
	CreateSession(ctx context.Context, order *orderModel.Order) (*model.Payment, error)

	// HandleSuccess and HandleCancel reconcile a gateway redirect or
	// webhook against the payment identified by its session id. Both are
	// idempotent; replays report Applied=false.
	HandleSuccess(ctx context.Context, sessionID string) (*model.CallbackResult, error)
	HandleCancel(ctx context.Context, sessionID string) (*model.CallbackResult, error)

	// ProcessWebhook verifies the gateway signature before touching any
	// state, then dispatches to HandleSuccess or HandleCancel.
	ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error

	ListPayments(ctx context.Context, userID uuid.UUID, privileged bool, query model.ListPaymentsQuery) ([]model.Payment, int, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   orderRepository.OrderRepository
	userRepo    userRepository.UserRepository
	gateway     gateway.CheckoutGateway
	asynqClient *asynq.Client
	currency    string
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo orderRepository.OrderRepository,
	userRepo userRepository.UserRepository,
	checkoutGateway gateway.CheckoutGateway,
	asynqClient *asynq.Client,
	currency string,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		gateway:     checkoutGateway,
		asynqClient: asynqClient,
		currency:    currency,
	}
}

// =====================================================
// SESSION CREATION
// =====================================================

func (s *paymentService) CreateSession(ctx context.Context, order *orderModel.Order) (*model.Payment, error) {
	if order.Status != orderModel.OrderStatusPending {
		return nil, model.NewPaymentError(
			model.ErrCodeOrderNotPayable,
			fmt.Sprintf("order is %s and cannot be paid", order.Status),
			model.ErrOrderNotPayable,
		)
	}

	existing, err := s.paymentRepo.GetPaymentByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, model.ErrPaymentNotFound) {
		return nil, model.NewPaymentError("PAY500", "failed to look up payment", err)
	}

	if existing != nil && existing.Status.IsTerminal() {
		return nil, model.NewPaymentError(
			model.ErrCodeOrderNotPayable,
			"payment for this order is already finalized",
			model.ErrOrderNotPayable,
		)
	}

	// The gateway call happens before any payment row is written, so a
	// gateway failure leaves no partial state behind.
	session, err := s.gateway.CreateSession(ctx, gateway.CreateSessionRequest{
		OrderID:  order.ID.String(),
		Amount:   order.Total,
		Currency: s.currency,
	})
	if err != nil {
		logger.Error("checkout session creation failed", err)
		return nil, model.NewPaymentError(
			model.ErrCodeGatewayUnavailable,
			"payment gateway is unavailable, please retry",
			err,
		)
	}

	if existing != nil {
		if err := s.paymentRepo.UpdateSession(ctx, existing.ID, session.SessionID, session.SessionURL); err != nil {
			return nil, model.NewPaymentError("PAY500", "failed to update payment session", err)
		}
		existing.SessionID = session.SessionID
		existing.SessionURL = session.SessionURL
		return existing, nil
	}

	payment := &model.Payment{
		UserID:     order.UserID,
		OrderID:    order.ID,
		SessionID:  session.SessionID,
		SessionURL: session.SessionURL,
		Amount:     order.Total,
		Currency:   s.currency,
		Status:     model.PaymentStatusPending,
	}
	for _, item := range order.Items {
		payment.Items = append(payment.Items, model.PaymentItem{
			OrderItemID:    item.ID,
			MovieID:        item.MovieID,
			PriceAtPayment: item.PriceAtOrder,
		})
	}

	if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to create payment", err)
	}

	logger.Info("checkout session created", map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   order.ID,
		"session_id": session.SessionID,
	})

	return payment, nil
}

// =====================================================
// RECONCILIATION
// =====================================================

func (s *paymentService) HandleSuccess(ctx context.Context, sessionID string) (*model.CallbackResult, error) {
	payment, err := s.getBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case model.PaymentStatusCompleted:
		// Replay of a success we already applied.
		return &model.CallbackResult{Payment: payment, Applied: false}, nil
	case model.PaymentStatusCancelled:
		return nil, model.NewPaymentError(
			model.ErrCodeAlreadyFinalized,
			"payment was already cancelled",
			model.ErrAlreadyFinalized,
		)
	}

	tx, err := s.paymentRepo.BeginTx(ctx)
	if err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to begin transaction", err)
	}
	defer s.paymentRepo.RollbackTx(ctx, tx)

	changed, err := s.paymentRepo.MarkCompletedWithTx(ctx, tx, payment.ID)
	if err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to complete payment", err)
	}
	if !changed {
		// Lost a race with a concurrent success; nothing more to apply.
		fresh, err := s.getBySession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return &model.CallbackResult{Payment: fresh, Applied: false}, nil
	}

	orderChanged, err := s.orderRepo.MarkPaidWithTx(ctx, tx, payment.OrderID)
	if err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to mark order paid", err)
	}

	movieIDs := make([]uuid.UUID, 0, len(payment.Items))
	for _, item := range payment.Items {
		movieIDs = append(movieIDs, item.MovieID)
	}
	if err := s.userRepo.AddPurchasedMoviesWithTx(ctx, tx, payment.UserID, movieIDs); err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to record purchases", err)
	}

	if err := s.paymentRepo.CommitTx(ctx, tx); err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to commit transaction", err)
	}

	payment.Status = model.PaymentStatusCompleted

	if !orderChanged {
		// Order left PENDING before the success arrived, usually through a
		// user cancel. The payment and ledger stand; flag the divergence so
		// support can reconcile a refund.
		logger.Warn("payment completed for finalized order", map[string]interface{}{
			"payment_id": payment.ID,
			"order_id":   payment.OrderID,
			"user_id":    payment.UserID,
		})
	}

	logger.Info("payment completed", map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"user_id":    payment.UserID,
	})

	s.enqueueCompletionEmail(ctx, payment)

	return &model.CallbackResult{Payment: payment, Applied: true}, nil
}

func (s *paymentService) HandleCancel(ctx context.Context, sessionID string) (*model.CallbackResult, error) {
	payment, err := s.getBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case model.PaymentStatusCompleted:
		// A completed payment is immutable; a late cancel must not undo it.
		return nil, model.NewPaymentError(
			model.ErrCodeAlreadyFinalized,
			"payment was already completed",
			model.ErrAlreadyFinalized,
		)
	case model.PaymentStatusCancelled:
		return &model.CallbackResult{Payment: payment, Applied: false}, nil
	}

	tx, err := s.paymentRepo.BeginTx(ctx)
	if err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to begin transaction", err)
	}
	defer s.paymentRepo.RollbackTx(ctx, tx)

	changed, err := s.paymentRepo.MarkCancelledWithTx(ctx, tx, payment.ID)
	if err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to cancel payment", err)
	}
	if !changed {
		fresh, err := s.getBySession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == model.PaymentStatusCompleted {
			return nil, model.NewPaymentError(
				model.ErrCodeAlreadyFinalized,
				"payment was already completed",
				model.ErrAlreadyFinalized,
			)
		}
		return &model.CallbackResult{Payment: fresh, Applied: false}, nil
	}

	if _, err := s.orderRepo.MarkCanceledWithTx(ctx, tx, payment.OrderID); err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to cancel order", err)
	}

	if err := s.paymentRepo.CommitTx(ctx, tx); err != nil {
		return nil, model.NewPaymentError("PAY500", "failed to commit transaction", err)
	}

	payment.Status = model.PaymentStatusCancelled

	logger.Info("payment cancelled", map[string]interface{}{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
	})

	return &model.CallbackResult{Payment: payment, Applied: true}, nil
}

func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyWebhookSignature(payload, signatureHeader)
	if err != nil {
		return model.NewPaymentError(
			model.ErrCodeInvalidSignature,
			"webhook signature verification failed",
			err,
		)
	}

	switch event.Type {
	case gateway.EventCheckoutCompleted:
		_, err = s.HandleSuccess(ctx, event.SessionID)
	case gateway.EventCheckoutExpired:
		_, err = s.HandleCancel(ctx, event.SessionID)
	default:
		logger.Debug("ignoring webhook event", map[string]interface{}{
			"type": event.Type,
		})
		return nil
	}

	// Replays surface as already-finalized; the webhook has nothing to do.
	if err != nil && errors.Is(err, model.ErrAlreadyFinalized) {
		return nil
	}
	return err
}

// ListPayments returns payment history. Staff callers may filter
// across users; everyone else is pinned to their own payments.
func (s *paymentService) ListPayments(ctx context.Context, userID uuid.UUID, privileged bool, query model.ListPaymentsQuery) ([]model.Payment, int, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, err
	}
	query.Normalize()

	restrictToUser := &userID
	if privileged {
		restrictToUser = nil
	}

	return s.paymentRepo.ListPayments(ctx, query, restrictToUser)
}

// =====================================================
// HELPERS
// =====================================================

func (s *paymentService) getBySession(ctx context.Context, sessionID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrPaymentNotFound) {
			return nil, model.NewPaymentError(
				model.ErrCodePaymentNotFound,
				"no payment found for this session",
				err,
			)
		}
		return nil, model.NewPaymentError("PAY500", "failed to look up payment", err)
	}
	return payment, nil
}

func (s *paymentService) enqueueCompletionEmail(ctx context.Context, payment *model.Payment) {
	if s.asynqClient == nil {
		return
	}

	user, err := s.userRepo.GetUserByID(ctx, payment.UserID)
	if err != nil {
		logger.Warn("failed to load user for completion email", map[string]interface{}{
			"user_id": payment.UserID,
			"error":   err.Error(),
		})
		return
	}

	var titles []string
	if items, err := s.orderRepo.GetOrderItems(ctx, payment.OrderID); err == nil {
		for _, item := range items {
			titles = append(titles, item.MovieTitle)
		}
	}

	data, err := utils.MarshalTask(shared.PaymentCompleteEmailPayload{
		UserID:      payment.UserID.String(),
		Email:       user.Email,
		OrderID:     payment.OrderID.String(),
		MovieTitles: titles,
		Total:       payment.Amount.StringFixed(2),
	})
	if err != nil {
		logger.Warn("failed to marshal completion email task", map[string]interface{}{
			"payment_id": payment.ID,
			"error":      err.Error(),
		})
		return
	}

	task := asynq.NewTask(shared.TypeSendPaymentCompleteEmail, data)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueDefault)); err != nil {
		logger.Warn("failed to enqueue completion email", map[string]interface{}{
			"payment_id": payment.ID,
			"error":      err.Error(),
		})
	}
}
