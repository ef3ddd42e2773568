package billing

import (
	"fmt"

	"gorm.io/gorm"

	"go-clinic-billing/models"
)

// Numbering format is persisted and user-visible; prefixes and pad widths must
// stay stable.
type docFormat struct {
	prefix string
	width  int
}

var docFormats = map[models.DocType]docFormat{
	models.DocTypeInvoice:       {prefix: "INV", width: 4},
	models.DocTypePayment:       {prefix: "PAY", width: 4},
	models.DocTypeStockMovement: {prefix: "STK", width: 6},
}

// NextNumber issues the next number for a (clinic, doc type) pair as a single
// increment-and-return statement against the counter row. Concurrent callers
// never see the same value; gaps are possible when a caller aborts after
// allocation, duplicates are not.
func NextNumber(tx *gorm.DB, clinicID uint, docType models.DocType) (string, int64, error) {
	f, ok := docFormats[docType]
	if !ok {
		return "", 0, &ValidationError{Field: "doc_type", Message: fmt.Sprintf("unknown document type %q", docType)}
	}

	var n int64
	res := tx.Raw(`
		INSERT INTO sequence_counters (clinic_id, doc_type, current_number)
		VALUES (?, ?, 1)
		ON CONFLICT (clinic_id, doc_type)
		DO UPDATE SET current_number = sequence_counters.current_number + 1
		RETURNING current_number`,
		clinicID, docType,
	).Scan(&n)
	if res.Error != nil {
		return "", 0, &StorageError{Op: "sequence " + string(docType), Err: res.Error}
	}
	if res.RowsAffected == 0 || n == 0 {
		return "", 0, &StorageError{Op: "sequence " + string(docType), Err: fmt.Errorf("counter returned no value")}
	}

	return FormatDocNumber(f.prefix, f.width, n), n, nil
}

// FormatDocNumber renders {PREFIX}-{N} with N left-zero-padded to width.
func FormatDocNumber(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, n)
}
