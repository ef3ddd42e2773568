package billing

import (
	"fmt"

	"gorm.io/gorm"

	"go-clinic-billing/logger"
	"go-clinic-billing/models"
)

// StockPolicy decides what happens when an invoice would drive stock negative.
type StockPolicy string

const (
	// StockPolicyAllow lets stock go negative and flags it in the log; the
	// invoice is not blocked on an oversell.
	StockPolicyAllow StockPolicy = "allow"
	// StockPolicyReject refuses the decrement and fails invoice creation.
	StockPolicyReject StockPolicy = "reject"
)

type stockRow struct {
	Stock    int64
	MinStock int64
}

// DecrementStock reserves stock for an invoice line as one atomic
// `stock = stock - ?` update, then writes the immutable movement record.
// Concurrent invoices against the same product serialize at the store; there
// is no read-then-write anywhere in this path.
func DecrementStock(tx *gorm.DB, policy StockPolicy, clinicID, productID uint, qty int64, refNo string, actorID uint) (int64, error) {
	return moveStock(tx, policy, clinicID, productID, -qty, "invoice", refNo, actorID)
}

// AdjustStock applies a manual signed correction with reason "adjustment".
// Negative adjustments follow the same policy as invoice decrements.
func AdjustStock(tx *gorm.DB, policy StockPolicy, clinicID, productID uint, delta int64, actorID uint) (int64, error) {
	return moveStock(tx, policy, clinicID, productID, delta, "adjustment", "", actorID)
}

func moveStock(tx *gorm.DB, policy StockPolicy, clinicID, productID uint, delta int64, reason, refNo string, actorID uint) (int64, error) {
	if delta == 0 {
		return 0, &ValidationError{Field: "quantity", Message: "quantity must not be zero"}
	}

	var row stockRow
	var res *gorm.DB
	if policy == StockPolicyReject && delta < 0 {
		res = tx.Raw(`
			UPDATE products
			SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND clinic_id = ? AND track_stock AND stock >= ?
			RETURNING stock, min_stock`,
			delta, productID, clinicID, -delta,
		).Scan(&row)
	} else {
		res = tx.Raw(`
			UPDATE products
			SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND clinic_id = ? AND track_stock
			RETURNING stock, min_stock`,
			delta, productID, clinicID,
		).Scan(&row)
	}
	if res.Error != nil {
		return 0, &StorageError{Op: "stock update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		// Either the product is missing or the reject policy refused the
		// decrement; tell them apart for the caller.
		var cnt int64
		if err := tx.Model(&models.Product{}).
			Where("id = ? AND clinic_id = ? AND track_stock", productID, clinicID).
			Count(&cnt).Error; err != nil {
			return 0, &StorageError{Op: "stock lookup", Err: err}
		}
		if cnt == 0 {
			return 0, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
		}
		return 0, fmt.Errorf("product %d: %w", productID, ErrInsufficientStock)
	}

	movementNo, _, err := NextNumber(tx, clinicID, models.DocTypeStockMovement)
	if err != nil {
		return 0, err
	}

	mv := models.StockMovement{
		ClinicID:      clinicID,
		MovementNo:    movementNo,
		ProductID:     productID,
		Quantity:      delta,
		PreviousStock: row.Stock - delta,
		NewStock:      row.Stock,
		Reason:        reason,
		RefNo:         refNo,
		CreatedByID:   actorID,
	}
	if err := tx.Create(&mv).Error; err != nil {
		return 0, &StorageError{Op: "stock movement", Err: err}
	}

	// Best-effort low-stock flag; never blocks the transaction.
	if row.Stock < 0 || row.Stock < row.MinStock {
		log := logger.WithComponent("stock")
		log.Warn().
			Uint("clinic_id", clinicID).
			Uint("product_id", productID).
			Int64("stock", row.Stock).
			Int64("min_stock", row.MinStock).
			Str("movement_no", movementNo).
			Msg("stock at or below minimum")
	}

	return row.Stock, nil
}
