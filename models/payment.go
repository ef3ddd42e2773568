package models

import "time"

// Payment is an immutable ledger entry against one invoice. The only mutation
// ever applied after creation is the status flip to refunded.
type Payment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ClinicID  uint   `gorm:"index:idx_clinic_payment_no,unique;not null" json:"clinic_id"`
	PaymentNo string `gorm:"size:40;index:idx_clinic_payment_no,unique;not null" json:"payment_no"`

	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	Amount float64       `gorm:"not null" json:"amount"`
	PaidAt time.Time     `gorm:"not null" json:"paid_at"`
	Method PaymentMethod `gorm:"size:20;not null" json:"method"`

	// Provider payment id for gateway payments, free-form reference otherwise.
	TransactionID string `gorm:"size:128" json:"transaction_id,omitempty"`
	Notes         string `gorm:"size:255" json:"notes,omitempty"`

	Status PaymentRecordStatus `gorm:"size:12;not null" json:"status"`

	ReceivedByID uint      `gorm:"index;not null" json:"received_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}
