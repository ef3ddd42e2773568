package billing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"go-clinic-billing/models"
)

// PaymentInput is a payment to apply against an invoice.
type PaymentInput struct {
	Amount        float64              `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	TransactionID string               `json:"transaction_id"`
	Notes         string               `json:"notes"`
}

// PaymentResult carries the new ledger entry plus the invoice as it stands
// after the mutation.
type PaymentResult struct {
	Payment *models.Payment `json:"payment"`
	Invoice *models.Invoice `json:"invoice"`
}

// ApplyPayment records a payment and moves the invoice's paid/balance
// aggregates. The overpayment check and the balance update are one conditional
// statement: two concurrent payments against the same stale balance cannot
// both pass it.
func ApplyPayment(tx *gorm.DB, clinicID, invoiceID uint, in PaymentInput, actorID uint) (*PaymentResult, error) {
	if in.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	if !in.Method.Valid() {
		return nil, &ValidationError{Field: "method", Message: fmt.Sprintf("unknown payment method %q", in.Method)}
	}

	var inv models.Invoice
	if err := tx.Where("id = ? AND clinic_id = ?", invoiceID, clinicID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, &StorageError{Op: "invoice lookup", Err: err}
	}

	switch inv.PaymentStatus {
	case models.PaymentUnpaid, models.PaymentPartial:
	default:
		return nil, &ValidationError{Field: "invoice", Message: fmt.Sprintf("invoice %s does not accept payments in status %s", inv.InvoiceNo, inv.PaymentStatus)}
	}
	if in.Amount > inv.BalanceAmount {
		return nil, &ValidationError{Field: "amount", Message: fmt.Sprintf("amount %.2f exceeds invoice balance %.2f", in.Amount, inv.BalanceAmount)}
	}

	// The decisive check. RowsAffected==0 means a concurrent payment got
	// there first and the remaining balance no longer covers this amount.
	res := tx.Model(&models.Invoice{}).
		Where("id = ? AND clinic_id = ? AND balance_amount >= ? AND payment_status IN ?",
			invoiceID, clinicID, in.Amount,
			[]models.PaymentStatus{models.PaymentUnpaid, models.PaymentPartial}).
		Updates(map[string]interface{}{
			"paid_amount":    gorm.Expr("paid_amount + ?", in.Amount),
			"balance_amount": gorm.Expr("balance_amount - ?", in.Amount),
		})
	if res.Error != nil {
		return nil, &StorageError{Op: "balance update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, &ValidationError{Field: "amount", Message: "amount exceeds invoice balance"}
	}

	if err := tx.First(&inv, inv.ID).Error; err != nil {
		return nil, &StorageError{Op: "invoice reload", Err: err}
	}

	// Snap float residue so a fully paid invoice lands on an exact zero.
	if inv.BalanceAmount != 0 && math.Abs(inv.BalanceAmount) < 0.005 {
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
			Updates(map[string]interface{}{
				"balance_amount": 0,
				"paid_amount":    inv.GrandTotal,
			}).Error; err != nil {
			return nil, &StorageError{Op: "balance snap", Err: err}
		}
		inv.BalanceAmount = 0
		inv.PaidAmount = inv.GrandTotal
	}

	next := models.PaymentPartial
	if inv.BalanceAmount == 0 {
		next = models.PaymentPaid
	}
	if next != inv.PaymentStatus {
		if !inv.PaymentStatus.CanTransition(next) {
			return nil, &ConflictError{Op: "payment status", Err: fmt.Errorf("illegal transition %s -> %s", inv.PaymentStatus, next)}
		}
		updates := map[string]interface{}{"payment_status": next}
		// A settled invoice leaves the document pipeline as well.
		if next == models.PaymentPaid &&
			(inv.Status == models.InvoiceDraft || inv.Status == models.InvoiceSent || inv.Status == models.InvoiceOverdue) {
			updates["status"] = models.InvoicePaid
			inv.Status = models.InvoicePaid
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(updates).Error; err != nil {
			return nil, &StorageError{Op: "status update", Err: err}
		}
		inv.PaymentStatus = next
	}

	paymentNo, _, err := NextNumber(tx, clinicID, models.DocTypePayment)
	if err != nil {
		return nil, err
	}

	pay := models.Payment{
		ClinicID:      clinicID,
		PaymentNo:     paymentNo,
		InvoiceID:     inv.ID,
		Amount:        in.Amount,
		PaidAt:        time.Now().UTC(),
		Method:        in.Method,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		Status:        models.PaymentRecordCompleted,
		ReceivedByID:  actorID,
	}
	if err := tx.Create(&pay).Error; err != nil {
		return nil, &StorageError{Op: "payment insert", Err: err}
	}

	return &PaymentResult{Payment: &pay, Invoice: &inv}, nil
}

// RefundPayment flips a completed payment and its fully-paid invoice to
// refunded. Amounts are untouched: a refund is a distinct status, never a
// balance reset.
func RefundPayment(tx *gorm.DB, clinicID, paymentID uint, actorID uint) (*PaymentResult, error) {
	var pay models.Payment
	if err := tx.Where("id = ? AND clinic_id = ?", paymentID, clinicID).First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, &StorageError{Op: "payment lookup", Err: err}
	}
	if pay.Status != models.PaymentRecordCompleted {
		return nil, &ValidationError{Field: "payment", Message: fmt.Sprintf("payment %s is %s, only completed payments can be refunded", pay.PaymentNo, pay.Status)}
	}

	var inv models.Invoice
	if err := tx.First(&inv, pay.InvoiceID).Error; err != nil {
		return nil, &StorageError{Op: "invoice lookup", Err: err}
	}
	if !inv.PaymentStatus.CanTransition(models.PaymentRefunded) {
		return nil, &ValidationError{Field: "invoice", Message: fmt.Sprintf("invoice %s cannot move from %s to refunded", inv.InvoiceNo, inv.PaymentStatus)}
	}

	if err := tx.Model(&models.Payment{}).Where("id = ?", pay.ID).
		Update("status", models.PaymentRecordRefunded).Error; err != nil {
		return nil, &StorageError{Op: "payment refund", Err: err}
	}
	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Update("payment_status", models.PaymentRefunded).Error; err != nil {
		return nil, &StorageError{Op: "invoice refund", Err: err}
	}
	pay.Status = models.PaymentRecordRefunded
	inv.PaymentStatus = models.PaymentRefunded

	return &PaymentResult{Payment: &pay, Invoice: &inv}, nil
}

// CancelInvoice marks an invoice cancelled. Line items stay immutable and no
// balances move; corrections are new documents.
func CancelInvoice(tx *gorm.DB, clinicID, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := tx.Where("id = ? AND clinic_id = ?", invoiceID, clinicID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, &StorageError{Op: "invoice lookup", Err: err}
	}
	if inv.PaymentStatus == models.PaymentCancelled {
		return &inv, nil
	}
	if !inv.PaymentStatus.CanTransition(models.PaymentCancelled) {
		return nil, &ValidationError{Field: "invoice", Message: fmt.Sprintf("invoice %s cannot be cancelled from %s", inv.InvoiceNo, inv.PaymentStatus)}
	}
	if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentCancelled,
			"status":         models.InvoiceCancelled,
		}).Error; err != nil {
		return nil, &StorageError{Op: "invoice cancel", Err: err}
	}
	inv.PaymentStatus = models.PaymentCancelled
	inv.Status = models.InvoiceCancelled
	return &inv, nil
}
