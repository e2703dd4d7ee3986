package domain

import "time"

const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Payment struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	OrderID           string    `json:"order_id"`
	GatewayOrderID    string    `json:"gateway_order_id"`
	GatewayPaymentID  string    `json:"gateway_payment_id,omitempty"`
	GatewaySignature  string    `json:"-"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
