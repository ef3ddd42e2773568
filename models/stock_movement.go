package models

import "time"

// StockMovement is the immutable audit record behind every stock change.
// Quantity is the signed delta that was applied; previous/new reconcile it.
type StockMovement struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ClinicID   uint   `gorm:"index:idx_clinic_movement_no,unique;not null" json:"clinic_id"`
	MovementNo string `gorm:"size:40;index:idx_clinic_movement_no,unique;not null" json:"movement_no"`

	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `json:"product,omitempty"`

	Quantity      int64 `gorm:"not null" json:"quantity"`
	PreviousStock int64 `gorm:"not null" json:"previous_stock"`
	NewStock      int64 `gorm:"not null" json:"new_stock"`

	Reason string `gorm:"size:40;not null" json:"reason"` // invoice | adjustment
	RefNo  string `gorm:"size:40" json:"ref_no,omitempty"`

	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}
