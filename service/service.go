package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-clinic-billing/models"
)

// Report rows consumed by the dashboard; all figures come out of the payment
// ledger and the invoice aggregates, never recomputed from line items.

type RevenueRow struct {
	Date   string  `json:"date"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

type RevenueReport struct {
	From  time.Time    `json:"from"`
	To    time.Time    `json:"to"`
	Total float64      `json:"total"`
	Rows  []RevenueRow `json:"rows"`
}

type OutstandingRow struct {
	InvoiceID     uint      `json:"invoice_id"`
	InvoiceNo     string    `json:"invoice_no"`
	PatientName   string    `json:"patient_name"`
	DueDate       time.Time `json:"due_date"`
	GrandTotal    float64   `json:"grand_total"`
	PaidAmount    float64   `json:"paid_amount"`
	BalanceAmount float64   `json:"balance_amount"`
	DaysOverdue   int       `json:"days_overdue"`
}

type LowStockRow struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Stock     int64  `json:"stock"`
	MinStock  int64  `json:"min_stock"`
}

type Service interface {
	// Revenue sums completed payments by day and method over [from, to].
	Revenue(ctx context.Context, clinicID uint, from, to time.Time) (RevenueReport, error)

	// Outstanding lists invoices still carrying a balance, oldest due first.
	Outstanding(ctx context.Context, clinicID uint, page, pageSize int) ([]OutstandingRow, int64, error)

	// LowStock lists stock-tracked products at or below their minimum.
	LowStock(ctx context.Context, clinicID uint) ([]LowStockRow, error)
}

type service struct{ db *gorm.DB }

func NewService(db *gorm.DB) Service { return &service{db: db} }

func (s *service) Revenue(ctx context.Context, clinicID uint, from, to time.Time) (RevenueReport, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	var rows []RevenueRow
	if err := s.db.WithContext(ctx).
		Table("payments").
		Select(`date(paid_at) AS date, method, SUM(amount) AS amount, COUNT(id) AS count`).
		Where("clinic_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			clinicID, models.PaymentRecordCompleted, from, to).
		Group("date(paid_at), method").
		Order("date ASC, method ASC").
		Scan(&rows).Error; err != nil {
		return RevenueReport{}, err
	}

	report := RevenueReport{From: from, To: to, Rows: rows}
	for _, r := range rows {
		report.Total += r.Amount
	}
	return report, nil
}

func (s *service) Outstanding(ctx context.Context, clinicID uint, page, pageSize int) ([]OutstandingRow, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}

	q := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("clinic_id = ? AND balance_amount > 0 AND payment_status IN ?",
			clinicID, []models.PaymentStatus{models.PaymentUnpaid, models.PaymentPartial})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []OutstandingRow
	if err := q.
		Select("id AS invoice_id, invoice_no, patient_name, due_date, grand_total, paid_amount, balance_amount").
		Order("due_date ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	for i := range rows {
		if d := int(now.Sub(rows[i].DueDate).Hours() / 24); d > 0 {
			rows[i].DaysOverdue = d
		}
	}
	return rows, total, nil
}

func (s *service) LowStock(ctx context.Context, clinicID uint) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id AS product_id, name, code, stock, min_stock").
		Where("clinic_id = ? AND track_stock AND stock <= min_stock", clinicID).
		Order("stock ASC").
		Scan(&rows).Error
	return rows, err
}
