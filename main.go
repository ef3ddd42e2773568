package main

import (
	"github.com/gin-gonic/gin"

	"go-clinic-billing/config"
	"go-clinic-billing/logger"
	"go-clinic-billing/middlewares"
	"go-clinic-billing/models"
	"go-clinic-billing/routes"
	"go-clinic-billing/utils"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithComponent("main")

	config.ConnectDB()

	if err := config.DB.AutoMigrate(
		&models.Clinic{},
		&models.TaxRate{},
		&models.Product{},
		&models.SequenceCounter{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceTaxLine{},
		&models.Payment{},
		&models.StockMovement{},
		&models.GatewayOrder{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	config.SeedTaxRates()
	config.SeedDefaultClinic()

	if cfg.JWTSecret != "" {
		utils.SetSecret(cfg.JWTSecret)
	}

	r := gin.New()
	r.Use(middlewares.RequestLogger(), gin.Recovery())
	routes.SetupRoutes(r)

	log.Info().Str("port", cfg.Port).Str("stock_policy", cfg.StockPolicy).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
