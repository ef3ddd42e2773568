package models

import "time"

// Invoice header. Line items are immutable after creation; corrections are new
// documents. grand_total = taxable_amount + total_tax + round_off and
// balance_amount = grand_total - paid_amount hold after every mutation.
type Invoice struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ClinicID  uint   `gorm:"index:idx_clinic_invoice_no,unique;not null" json:"clinic_id"`
	InvoiceNo string `gorm:"size:40;index:idx_clinic_invoice_no,unique;not null" json:"invoice_no"`

	InvoiceDate time.Time `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`

	// Patient snapshot, captured at creation. Not a live reference.
	PatientName    string `gorm:"size:180;not null" json:"patient_name"`
	PatientPhone   string `gorm:"size:20" json:"patient_phone"`
	PatientAddress string `gorm:"size:255" json:"patient_address"`

	Subtotal float64 `gorm:"not null" json:"subtotal"`

	// Invoice-level discount, applied after per-line discounts.
	DiscountType   DiscountType `gorm:"size:12" json:"discount_type"`
	DiscountValue  float64      `gorm:"not null;default:0" json:"discount_value"`
	DiscountAmount float64      `gorm:"not null;default:0" json:"discount_amount"`

	TaxableAmount float64 `gorm:"not null" json:"taxable_amount"`
	TotalTax      float64 `gorm:"not null" json:"total_tax"`
	RoundOff      float64 `gorm:"not null;default:0" json:"round_off"`
	GrandTotal    float64 `gorm:"not null" json:"grand_total"`

	PaidAmount    float64 `gorm:"not null;default:0" json:"paid_amount"`
	BalanceAmount float64 `gorm:"not null;default:0" json:"balance_amount"`

	PaymentStatus PaymentStatus `gorm:"size:12;index;not null" json:"payment_status"`
	Status        InvoiceStatus `gorm:"size:12;index;not null" json:"status"`

	Items    []InvoiceItem    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	TaxLines []InvoiceTaxLine `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tax_breakdown"`
	Payments []Payment        `json:"payments,omitempty"`

	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	// nil product means a non-stock line (service).
	ProductID *uint  `json:"product_id,omitempty"`
	Name      string `gorm:"size:200;not null" json:"name"`
	Unit      string `gorm:"size:20" json:"unit"`

	Quantity  float64 `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`

	DiscountType  DiscountType `gorm:"size:12" json:"discount_type"`
	DiscountValue float64      `gorm:"not null;default:0" json:"discount_value"`
	TaxRate       float64      `gorm:"not null;default:0" json:"tax_rate"`

	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	DiscountAmount float64 `gorm:"not null;default:0" json:"discount_amount"`
	TaxableAmount  float64 `gorm:"not null" json:"taxable_amount"`
	TaxAmount      float64 `gorm:"not null;default:0" json:"tax_amount"`
	Total          float64 `gorm:"not null" json:"total"`
}

// InvoiceTaxLine is one distinct-rate entry of the tax breakdown. The entries
// sum exactly to the invoice's total_tax.
type InvoiceTaxLine struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	RateName      string  `gorm:"size:40;not null" json:"rate_name"`
	Rate          float64 `gorm:"not null" json:"rate"`
	TaxableAmount float64 `gorm:"not null" json:"taxable_amount"`
	TaxAmount     float64 `gorm:"not null" json:"tax_amount"`
}
