package models

// DocType selects which per-clinic sequence a document number is issued from.
type DocType string

const (
	DocTypeInvoice       DocType = "invoice"
	DocTypePayment       DocType = "payment"
	DocTypeStockMovement DocType = "stock_movement"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PaymentMethod string

const (
	MethodCash       PaymentMethod = "cash"
	MethodCard       PaymentMethod = "card"
	MethodUPI        PaymentMethod = "upi"
	MethodNetbanking PaymentMethod = "netbanking"
	MethodRazorpay   PaymentMethod = "razorpay"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodNetbanking, MethodRazorpay:
		return true
	}
	return false
}

// PaymentStatus is the money side of an invoice.
type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// CanTransition is the single source of truth for payment-status edges.
// Money never re-enters unpaid; a refund is a distinct terminal state,
// not a balance reset.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	switch s {
	case PaymentUnpaid:
		return to == PaymentPartial || to == PaymentPaid || to == PaymentCancelled
	case PaymentPartial:
		return to == PaymentPaid || to == PaymentCancelled
	case PaymentPaid:
		return to == PaymentRefunded || to == PaymentCancelled
	case PaymentRefunded:
		return to == PaymentCancelled
	}
	return false
}

// InvoiceStatus is the document side of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// PaymentRecordStatus is the state of an individual payment record.
type PaymentRecordStatus string

const (
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
	PaymentRecordRefunded  PaymentRecordStatus = "refunded"
)
