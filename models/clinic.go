package models

import "time"

// Clinic is the tenant. Provisioning lives outside this service; billing only
// reads the row for scoping and for the gateway credentials.
type Clinic struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:180;not null" json:"name"`
	Email   string `gorm:"size:180" json:"email"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	// Online payment gateway credentials. The secret never leaves the server
	// unmasked (see settings controller).
	GatewayKeyID     string `gorm:"size:64" json:"gateway_key_id"`
	GatewayKeySecret string `gorm:"size:128" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
