package billing

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-clinic-billing/models"
)

// setupTestDB opens an isolated in-memory database. A single connection keeps
// sqlite from tripping over concurrent writers in the race tests; the
// serialization the production store does with row locks, sqlite does here at
// the connection pool.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.TaxRate{},
		&models.Product{},
		&models.SequenceCounter{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceTaxLine{},
		&models.Payment{},
		&models.StockMovement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedClinic(t *testing.T, db *gorm.DB) models.Clinic {
	t.Helper()
	clinic := models.Clinic{Name: "City Clinic"}
	if err := db.Create(&clinic).Error; err != nil {
		t.Fatalf("clinic: %v", err)
	}
	return clinic
}

func seedProduct(t *testing.T, db *gorm.DB, clinicID uint, code string, stock int64) models.Product {
	t.Helper()
	p := models.Product{
		ClinicID:   clinicID,
		Code:       code,
		Name:       "Paracetamol 500mg",
		Unit:       "strip",
		Price:      40,
		TaxRate:    12,
		TrackStock: true,
		Stock:      stock,
		MinStock:   5,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return p
}
