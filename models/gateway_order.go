package models

import "time"

const (
	GatewayOrderCreated = "created"
	GatewayOrderPaid    = "paid"
)

// GatewayOrder pins a provider order to the amount it was opened for. The
// verified callback settles exactly this amount, never what the client claims
// and never the invoice balance; a consumed order cannot settle twice.
type GatewayOrder struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClinicID uint   `gorm:"index:idx_clinic_gateway_order,unique;not null" json:"clinic_id"`
	OrderID  string `gorm:"size:64;index:idx_clinic_gateway_order,unique;not null" json:"order_id"`

	Amount   float64 `gorm:"not null" json:"amount"` // rupees
	Currency string  `gorm:"size:8;not null" json:"currency"`
	Receipt  string  `gorm:"size:64" json:"receipt"`

	Status    string `gorm:"size:12;not null" json:"status"` // created | paid
	PaymentID string `gorm:"size:64" json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
