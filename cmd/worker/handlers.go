package main

import (
	"github.com/hibiken/asynq"

	movieJob "cinema-backend/internal/domains/movie/job"
	orderJob "cinema-backend/internal/domains/order/job"
	"cinema-backend/internal/infrastructure/email"
	emailJob "cinema-backend/internal/infrastructure/email/job"
	"cinema-backend/internal/shared"
	"cinema-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	paymentCompleteEmail *emailJob.PaymentCompleteEmailHandler
	expirePendingOrders  *orderJob.ExpirePendingOrdersHandler
	deletePosterImages   *movieJob.DeletePosterImagesHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.SMTP)

	return &HandlerRegistry{
		paymentCompleteEmail: emailJob.NewPaymentCompleteEmailHandler(emailSvc),
		expirePendingOrders:  orderJob.NewExpirePendingOrdersHandler(c.OrderService, cfg.PendingOrderTTL),
		deletePosterImages:   movieJob.NewDeletePosterImagesHandler(c.Storage),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendPaymentCompleteEmail, h.paymentCompleteEmail.ProcessTask)
	mux.HandleFunc(shared.TypeExpirePendingOrders, h.expirePendingOrders.ProcessTask)
	mux.HandleFunc(shared.TypeDeletePosterImages, h.deletePosterImages.ProcessTask)
}
