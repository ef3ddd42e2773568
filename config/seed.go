package config

import "go-clinic-billing/models"

// SeedTaxRates loads the GST slab table. Rates are reference data only; which
// rate applies to a product is catalog configuration.
func SeedTaxRates() {
	rates := []models.TaxRate{
		{Name: "GST 0%", Rate: 0},
		{Name: "GST 5%", Rate: 5},
		{Name: "GST 12%", Rate: 12},
		{Name: "GST 18%", Rate: 18},
		{Name: "GST 28%", Rate: 28},
	}
	for _, r := range rates {
		var cnt int64
		DB.Model(&models.TaxRate{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			DB.Create(&r)
		}
	}
}

// SeedDefaultClinic creates a first tenant on an empty database so a fresh
// local install is usable immediately.
func SeedDefaultClinic() {
	var cnt int64
	DB.Model(&models.Clinic{}).Count(&cnt)
	if cnt == 0 {
		DB.Create(&models.Clinic{Name: "Default Clinic"})
	}
}
