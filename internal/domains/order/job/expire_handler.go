package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cinema-backend/internal/domains/order/service"
)

// ============================================
// Expire Pending Orders Handler
// ============================================

// ExpirePendingOrdersHandler cancels orders that sat in PENDING longer
// than the configured TTL. Scheduled hourly.
type ExpirePendingOrdersHandler struct {
	orderService service.OrderService
	ttl          time.Duration
}

func NewExpirePendingOrdersHandler(orderService service.OrderService, ttl time.Duration) *ExpirePendingOrdersHandler {
	return &ExpirePendingOrdersHandler{
		orderService: orderService,
		ttl:          ttl,
	}
}

func (h *ExpirePendingOrdersHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	expired, err := h.orderService.ExpirePendingOrders(ctx, h.ttl)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire pending orders")
		return fmt.Errorf("expire pending orders: %w", err)
	}

	log.Info().
		Int64("expired", expired).
		Dur("ttl", h.ttl).
		Msg("Expired stale pending orders")

	return nil
}
