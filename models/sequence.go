package models

// SequenceCounter backs document numbering, one row per (clinic, doc type).
// current_number is only ever touched by the allocator's single
// increment-and-return statement; nothing else reads or writes it.
type SequenceCounter struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	ClinicID      uint    `gorm:"index:idx_clinic_doc_type,unique;not null" json:"clinic_id"`
	DocType       DocType `gorm:"size:20;index:idx_clinic_doc_type,unique;not null" json:"doc_type"`
	CurrentNumber int64   `gorm:"not null;default:0" json:"current_number"`
}
