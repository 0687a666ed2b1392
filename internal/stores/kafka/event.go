package kafka

import "time"

const (
	TopicOrderCreated       = `order-service.order-created`
	TopicOrderStatusChanged = `order-service.order-status-changed`
)

// OrderCreatedEvent is published after an order commits.
type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	UserID        string    `json:"user_id,omitempty"`
	IsGuest       bool      `json:"is_guest"`
	TotalAmount   string    `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStatusChangedEvent is published after an admin status mutation.
type OrderStatusChangedEvent struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ChangedAt     time.Time `json:"changed_at"`
}
