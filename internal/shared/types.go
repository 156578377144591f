package shared

// Task type names shared between the API (producer) and the worker (consumer).
const (
	TypeSendPaymentCompleteEmail = "email:payment_complete"
	TypeExpirePendingOrders      = "order:expire_pending"
	TypeDeletePosterImages       = "movie:delete_posters"
)

// Queue names in priority order.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// PaymentCompleteEmailPayload is the task payload for the purchase
// confirmation email sent after a successful checkout.
type PaymentCompleteEmailPayload struct {
	UserID      string   `json:"userId"`
	Email       string   `json:"email"`
	OrderID     string   `json:"orderId"`
	MovieTitles []string `json:"movieTitles"`
	Total       string   `json:"total"`
}

// DeletePosterImagesPayload identifies the movie whose poster objects
// should be removed from storage.
type DeletePosterImagesPayload struct {
	MovieID string `json:"movieId"`
}

// UserBasicInfo carries user identity without importing the user domain.
type UserBasicInfo struct {
	ID       string
	Email    string
	FullName string
}
