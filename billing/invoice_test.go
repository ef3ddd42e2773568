package billing

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"go-clinic-billing/models"
)

func serviceLine(name string, qty, price, tax float64) LineInput {
	return LineInput{Name: name, Quantity: qty, Unit: "visit", UnitPrice: price, TaxRate: tax}
}

func TestCreateInvoiceSingleDiscountedLine(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			Name:          "Consultation",
			Quantity:      2,
			Unit:          "visit",
			UnitPrice:     500,
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			TaxRate:       18,
		}},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if inv.InvoiceNo != "INV-0001" {
		t.Errorf("invoice no = %q, want INV-0001", inv.InvoiceNo)
	}
	if inv.Subtotal != 1000 {
		t.Errorf("subtotal = %v, want 1000", inv.Subtotal)
	}
	if inv.TaxableAmount != 900 {
		t.Errorf("taxable = %v, want 900", inv.TaxableAmount)
	}
	if inv.TotalTax != 162 {
		t.Errorf("tax = %v, want 162", inv.TotalTax)
	}
	if inv.GrandTotal != 1062 {
		t.Errorf("grand total = %v, want 1062", inv.GrandTotal)
	}
	if inv.RoundOff != 0 {
		t.Errorf("round off = %v, want 0", inv.RoundOff)
	}
	if inv.BalanceAmount != 1062 || inv.PaidAmount != 0 {
		t.Errorf("ledger = paid %v / balance %v, want 0 / 1062", inv.PaidAmount, inv.BalanceAmount)
	}
	if inv.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("payment status = %s, want unpaid", inv.PaymentStatus)
	}

	item := inv.Items[0]
	if item.Subtotal != 1000 || item.DiscountAmount != 100 || item.TaxableAmount != 900 || item.TaxAmount != 162 || item.Total != 1062 {
		t.Errorf("line amounts = %+v", item)
	}
	if len(inv.TaxLines) != 1 || inv.TaxLines[0].Rate != 18 || inv.TaxLines[0].TaxAmount != 162 {
		t.Errorf("tax lines = %+v", inv.TaxLines)
	}
}

func TestCreateInvoiceRoundsGrandTotal(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items:       []LineInput{serviceLine("Dressing", 1, 999.40, 0)},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.GrandTotal != 999 {
		t.Errorf("grand total = %v, want 999", inv.GrandTotal)
	}
	if inv.RoundOff != -0.40 {
		t.Errorf("round off = %v, want -0.40", inv.RoundOff)
	}
	if inv.BalanceAmount != 999 {
		t.Errorf("balance = %v, want 999", inv.BalanceAmount)
	}
}

func TestCreateInvoiceTaxBreakdownGroupsByRate(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{
			serviceLine("Consultation", 1, 500, 18),
			serviceLine("Lab panel", 1, 300, 5),
			serviceLine("Follow-up", 1, 200, 18),
		},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(inv.TaxLines) != 2 {
		t.Fatalf("got %d tax lines, want 2 (rates 5 and 18)", len(inv.TaxLines))
	}
	// Sorted ascending by rate.
	if inv.TaxLines[0].Rate != 5 || inv.TaxLines[0].TaxableAmount != 300 || inv.TaxLines[0].TaxAmount != 15 {
		t.Errorf("5%% line = %+v", inv.TaxLines[0])
	}
	if inv.TaxLines[1].Rate != 18 || inv.TaxLines[1].TaxableAmount != 700 || inv.TaxLines[1].TaxAmount != 126 {
		t.Errorf("18%% line = %+v", inv.TaxLines[1])
	}

	sum := 0.0
	for _, tl := range inv.TaxLines {
		sum = round2(sum + tl.TaxAmount)
	}
	if sum != inv.TotalTax {
		t.Errorf("breakdown sums to %v, invoice tax is %v", sum, inv.TotalTax)
	}
}

func TestCreateInvoiceOverallDiscountAfterLineDiscounts(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	// Line: 1000 gross, 10% line discount -> 900 taxable, no tax. The 10%
	// overall discount applies to the 900, not the 1000.
	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			Name:          "Physiotherapy",
			Quantity:      2,
			Unit:          "session",
			UnitPrice:     500,
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
		}},
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		CreatedByID:   1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.DiscountAmount != 90 {
		t.Errorf("overall discount = %v, want 90 (10%% of 900)", inv.DiscountAmount)
	}
	if inv.TaxableAmount != 810 {
		t.Errorf("taxable = %v, want 810", inv.TaxableAmount)
	}
	if inv.GrandTotal != 810 {
		t.Errorf("grand total = %v, want 810", inv.GrandTotal)
	}
}

func TestCreateInvoiceFixedOverallDiscountCapped(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:      clinic.ID,
		PatientName:   "Asha Rao",
		Items:         []LineInput{serviceLine("Dressing", 1, 200, 0)},
		DiscountType:  models.DiscountFixed,
		DiscountValue: 500,
		CreatedByID:   1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.DiscountAmount != 200 {
		t.Errorf("discount = %v, want capped at 200", inv.DiscountAmount)
	}
	if inv.GrandTotal != 0 {
		t.Errorf("grand total = %v, want 0", inv.GrandTotal)
	}
}

func TestCreateInvoiceZeroTotalIsBornPaid(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:      clinic.ID,
		PatientName:   "Asha Rao",
		Items:         []LineInput{serviceLine("Free health camp", 1, 300, 0)},
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 100,
		CreatedByID:   1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.GrandTotal != 0 || inv.BalanceAmount != 0 {
		t.Fatalf("totals = grand %v / balance %v, want 0 / 0", inv.GrandTotal, inv.BalanceAmount)
	}
	if inv.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status = %s, want paid", inv.PaymentStatus)
	}
	if inv.Status != models.InvoicePaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}

	// Nothing to collect, so the ledger refuses payments against it.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := ApplyPayment(tx, clinic.ID, inv.ID, PaymentInput{Amount: 100, Method: models.MethodCash}, 1)
		return err
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("pay zero-total invoice: got %v, want ValidationError", err)
	}
}

func TestCreateInvoiceBadLineFailsWhole(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	_, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{
			serviceLine("Consultation", 1, 500, 18),
			serviceLine("Broken", -1, 100, 0),
		},
		CreatedByID: 1,
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if ve.Field != "items[1].quantity" {
		t.Errorf("field = %q, want items[1].quantity", ve.Field)
	}

	var count int64
	if err := db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("invoices persisted = %d, want 0", count)
	}
	var seq int64
	if err := db.Model(&models.SequenceCounter{}).Count(&seq).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if seq != 0 {
		t.Errorf("sequence rows = %d, want 0 (validation before allocation)", seq)
	}
}

func TestCreateInvoiceDecrementsStockAndRecordsMovement(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)
	prod := seedProduct(t, db, clinic.ID, "PARA-500", 20)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			ProductID: &prod.ID,
			Name:      prod.Name,
			Quantity:  3,
			Unit:      prod.Unit,
			UnitPrice: prod.Price,
			TaxRate:   prod.TaxRate,
		}},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var got models.Product
	if err := db.First(&got, prod.ID).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Stock != 17 {
		t.Errorf("stock = %d, want 17", got.Stock)
	}

	var mv models.StockMovement
	if err := db.Where("product_id = ?", prod.ID).First(&mv).Error; err != nil {
		t.Fatalf("movement: %v", err)
	}
	if mv.MovementNo != "STK-000001" {
		t.Errorf("movement no = %q, want STK-000001", mv.MovementNo)
	}
	if mv.Quantity != -3 || mv.PreviousStock != 20 || mv.NewStock != 17 {
		t.Errorf("movement = %+v", mv)
	}
	if mv.Reason != "invoice" || mv.RefNo != inv.InvoiceNo {
		t.Errorf("movement ref = %s/%s, want invoice/%s", mv.Reason, mv.RefNo, inv.InvoiceNo)
	}
}

func TestCreateInvoiceOversellAllowGoesNegative(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)
	prod := seedProduct(t, db, clinic.ID, "PARA-500", 2)

	_, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			ProductID: &prod.ID,
			Name:      prod.Name,
			Quantity:  5,
			Unit:      prod.Unit,
			UnitPrice: prod.Price,
			TaxRate:   prod.TaxRate,
		}},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var got models.Product
	if err := db.First(&got, prod.ID).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Stock != -3 {
		t.Errorf("stock = %d, want -3", got.Stock)
	}
}

func TestCreateInvoiceOversellRejectRollsBack(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)
	prod := seedProduct(t, db, clinic.ID, "PARA-500", 2)

	_, err := CreateInvoice(db, StockPolicyReject, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			ProductID: &prod.ID,
			Name:      prod.Name,
			Quantity:  5,
			Unit:      prod.Unit,
			UnitPrice: prod.Price,
			TaxRate:   prod.TaxRate,
		}},
		CreatedByID: 1,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	var got models.Product
	if err := db.First(&got, prod.ID).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	if got.Stock != 2 {
		t.Errorf("stock = %d, want untouched 2", got.Stock)
	}
	var count int64
	if err := db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("invoices persisted = %d, want 0 after rollback", count)
	}
	var movements int64
	if err := db.Model(&models.StockMovement{}).Count(&movements).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if movements != 0 {
		t.Errorf("movements persisted = %d, want 0 after rollback", movements)
	}
}

func TestCreateInvoiceWithImmediatePayment(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
		ClinicID:    clinic.ID,
		PatientName: "Asha Rao",
		Items: []LineInput{{
			Name:          "Consultation",
			Quantity:      2,
			Unit:          "visit",
			UnitPrice:     500,
			DiscountType:  models.DiscountPercentage,
			DiscountValue: 10,
			TaxRate:       18,
		}},
		Payment:     &PaymentInput{Amount: 1062, Method: models.MethodCash},
		CreatedByID: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status = %s, want paid", inv.PaymentStatus)
	}
	if inv.BalanceAmount != 0 || inv.PaidAmount != 1062 {
		t.Errorf("ledger = paid %v / balance %v, want 1062 / 0", inv.PaidAmount, inv.BalanceAmount)
	}
	if inv.Status != models.InvoicePaid {
		t.Errorf("status = %s, want paid", inv.Status)
	}
	if len(inv.Payments) != 1 || inv.Payments[0].PaymentNo != "PAY-0001" {
		t.Errorf("payments = %+v", inv.Payments)
	}
}

func TestCreateInvoiceSequentialNumbers(t *testing.T) {
	db := setupTestDB(t)
	clinic := seedClinic(t, db)

	want := []string{"INV-0001", "INV-0002", "INV-0003"}
	for _, w := range want {
		inv, err := CreateInvoice(db, StockPolicyAllow, InvoiceInput{
			ClinicID:    clinic.ID,
			PatientName: "Asha Rao",
			Items:       []LineInput{serviceLine("Consultation", 1, 500, 0)},
			CreatedByID: 1,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if inv.InvoiceNo != w {
			t.Errorf("invoice no = %q, want %q", inv.InvoiceNo, w)
		}
	}
}
