package models

// TaxRate is a rate-table row consumed as data. Which rate applies to a
// product is decided by the catalog, not by billing.
type TaxRate struct {
	ID   uint    `gorm:"primaryKey" json:"id"`
	Name string  `gorm:"size:40;uniqueIndex;not null" json:"name"`
	Rate float64 `gorm:"not null" json:"rate"`
}
