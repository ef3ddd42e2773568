package models

import "time"

type Product struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClinicID uint   `gorm:"index:idx_clinic_product_code,unique;not null" json:"clinic_id"`
	Code     string `gorm:"size:60;index:idx_clinic_product_code,unique;not null" json:"code"`
	Name     string `gorm:"size:200;not null" json:"name"`
	Unit     string `gorm:"size:20" json:"unit"`

	Price   float64 `gorm:"not null" json:"price"`
	TaxRate float64 `gorm:"not null;default:0" json:"tax_rate"` // percent, from the rate table

	// TrackStock=false marks a service (consultation, procedure); those lines
	// never touch inventory.
	TrackStock bool  `gorm:"not null;default:false" json:"track_stock"`
	Stock      int64 `gorm:"not null;default:0" json:"stock"`
	MinStock   int64 `gorm:"not null;default:0" json:"min_stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
