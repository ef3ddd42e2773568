package billing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"go-clinic-billing/models"
)

// InvoiceInput is everything needed to turn a cart into an invoice.
type InvoiceInput struct {
	ClinicID uint

	PatientName    string
	PatientPhone   string
	PatientAddress string

	InvoiceDate time.Time
	DueInDays   int

	Items []LineInput

	// Invoice-level discount, applied to the post-line-discount subtotal.
	DiscountType  models.DiscountType
	DiscountValue float64

	// Optional immediate payment recorded in the same transaction.
	Payment *PaymentInput

	CreatedByID uint
}

// CreateInvoice runs the whole creation flow in one transaction: line
// computation, tax grouping, rounding, number allocation, persistence, stock
// reservation and the optional immediate payment. A unique-index collision
// gets one automatic retry since nothing was committed.
func CreateInvoice(db *gorm.DB, policy StockPolicy, in InvoiceInput) (*models.Invoice, error) {
	if in.PatientName == "" {
		return nil, &ValidationError{Field: "patient_name", Message: "patient name is required"}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one line item is required"}
	}

	// All lines compute up front; any bad line fails the whole invoice before
	// anything touches the store.
	items := make([]models.InvoiceItem, 0, len(in.Items))
	for i, li := range in.Items {
		amounts, err := ComputeLine(li)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return nil, &ValidationError{Field: fmt.Sprintf("items[%d].%s", i, ve.Field), Message: ve.Message}
			}
			return nil, err
		}
		if li.ProductID != nil && li.Quantity != math.Trunc(li.Quantity) {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "stock-tracked lines require a whole quantity"}
		}
		items = append(items, models.InvoiceItem{
			ProductID:      li.ProductID,
			Name:           li.Name,
			Unit:           li.Unit,
			Quantity:       li.Quantity,
			UnitPrice:      li.UnitPrice,
			DiscountType:   li.DiscountType,
			DiscountValue:  li.DiscountValue,
			TaxRate:        li.TaxRate,
			Subtotal:       amounts.Subtotal,
			DiscountAmount: amounts.DiscountAmount,
			TaxableAmount:  amounts.TaxableAmount,
			TaxAmount:      amounts.TaxAmount,
			Total:          amounts.Total,
		})
	}

	subtotal := 0.0
	lineTaxable := 0.0
	for _, it := range items {
		subtotal = round2(subtotal + it.Subtotal)
		lineTaxable = round2(lineTaxable + it.TaxableAmount)
	}

	// Group by distinct rate so the breakdown sums exactly to the tax total
	// even when rates repeat across items.
	groups := map[float64]*models.InvoiceTaxLine{}
	for _, it := range items {
		g, ok := groups[it.TaxRate]
		if !ok {
			g = &models.InvoiceTaxLine{
				RateName: fmt.Sprintf("GST %g%%", it.TaxRate),
				Rate:     it.TaxRate,
			}
			groups[it.TaxRate] = g
		}
		g.TaxableAmount = round2(g.TaxableAmount + it.TaxableAmount)
		g.TaxAmount = round2(g.TaxAmount + it.TaxAmount)
	}
	rates := make([]float64, 0, len(groups))
	for r := range groups {
		rates = append(rates, r)
	}
	sort.Float64s(rates)
	taxLines := make([]models.InvoiceTaxLine, 0, len(groups))
	totalTax := 0.0
	for _, r := range rates {
		taxLines = append(taxLines, *groups[r])
		totalTax = round2(totalTax + groups[r].TaxAmount)
	}

	overallDiscount, err := discountAmount(lineTaxable, in.DiscountValue, in.DiscountType)
	if err != nil {
		return nil, err
	}

	taxable := round2(lineTaxable - overallDiscount)
	totalAmount := round2(taxable + totalTax)

	// Grand totals carry no fractional rupees; the signed round-off keeps the
	// audit trail reconciling.
	grandTotal := math.Round(totalAmount)
	roundOff := round2(grandTotal - totalAmount)

	invoiceDate := in.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now().UTC()
	}
	if in.DueInDays < 0 {
		return nil, &ValidationError{Field: "due_in_days", Message: "due days cannot be negative"}
	}

	const maxAttempts = 2
	var inv *models.Invoice
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		inv = nil
		lastErr = db.Transaction(func(tx *gorm.DB) error {
			invoiceNo, _, err := NextNumber(tx, in.ClinicID, models.DocTypeInvoice)
			if err != nil {
				return err
			}

			// A fully-discounted invoice has nothing to collect; it is born
			// settled rather than parked unpaid with a zero balance no
			// payment could ever clear.
			payStatus := models.PaymentUnpaid
			docStatus := models.InvoiceSent
			if grandTotal == 0 {
				payStatus = models.PaymentPaid
				docStatus = models.InvoicePaid
			}

			doc := models.Invoice{
				ClinicID:       in.ClinicID,
				InvoiceNo:      invoiceNo,
				InvoiceDate:    invoiceDate,
				DueDate:        invoiceDate.AddDate(0, 0, in.DueInDays),
				PatientName:    in.PatientName,
				PatientPhone:   in.PatientPhone,
				PatientAddress: in.PatientAddress,
				Subtotal:       subtotal,
				DiscountType:   in.DiscountType,
				DiscountValue:  in.DiscountValue,
				DiscountAmount: overallDiscount,
				TaxableAmount:  taxable,
				TotalTax:       totalTax,
				RoundOff:       roundOff,
				GrandTotal:     grandTotal,
				PaidAmount:     0,
				BalanceAmount:  grandTotal,
				PaymentStatus:  payStatus,
				Status:         docStatus,
				Items:          cloneItems(items),
				TaxLines:       cloneTaxLines(taxLines),
				CreatedByID:    in.CreatedByID,
			}
			if err := tx.Create(&doc).Error; err != nil {
				if isUniqueViolation(err) {
					return &ConflictError{Op: "invoice insert", Err: err}
				}
				return &StorageError{Op: "invoice insert", Err: err}
			}

			// Stock reservations are synchronous; a failed decrement fails the
			// invoice rather than leaving it claiming stock never reserved.
			for _, it := range doc.Items {
				if it.ProductID == nil {
					continue
				}
				if _, err := DecrementStock(tx, policy, in.ClinicID, *it.ProductID, int64(it.Quantity), invoiceNo, in.CreatedByID); err != nil {
					return err
				}
			}

			if in.Payment != nil {
				res, err := ApplyPayment(tx, in.ClinicID, doc.ID, *in.Payment, in.CreatedByID)
				if err != nil {
					return err
				}
				doc.PaidAmount = res.Invoice.PaidAmount
				doc.BalanceAmount = res.Invoice.BalanceAmount
				doc.PaymentStatus = res.Invoice.PaymentStatus
				doc.Status = res.Invoice.Status
				doc.Payments = []models.Payment{*res.Payment}
			}

			inv = &doc
			return nil
		})

		if lastErr == nil {
			return inv, nil
		}
		var ce *ConflictError
		if errors.As(lastErr, &ce) {
			continue
		}
		break
	}
	return nil, lastErr
}

func cloneItems(items []models.InvoiceItem) []models.InvoiceItem {
	out := make([]models.InvoiceItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].ID = 0
		out[i].InvoiceID = 0
	}
	return out
}

func cloneTaxLines(lines []models.InvoiceTaxLine) []models.InvoiceTaxLine {
	out := make([]models.InvoiceTaxLine, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].ID = 0
		out[i].InvoiceID = 0
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite in tests
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
