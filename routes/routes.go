package routes

import (
	"github.com/gin-gonic/gin"

	"go-clinic-billing/controllers"
	"go-clinic-billing/middlewares"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		auth := api.Group("/", middlewares.ClinicAuth())

		invoices := auth.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.ListInvoices)
			invoices.GET("/:id", controllers.InvoiceDetail)
			invoices.POST("/:id/cancel", controllers.CancelInvoice)
			invoices.POST("/:id/payments", controllers.ApplyPayment)
			invoices.GET("/:id/payments", controllers.PaymentHistory)
		}

		payments := auth.Group("/payments")
		{
			payments.POST("/:id/refund", controllers.RefundPayment)
		}

		gateway := auth.Group("/gateway")
		{
			gateway.POST("/orders", controllers.CreateGatewayOrder)
			gateway.POST("/verify", controllers.VerifyGatewayPayment)
		}

		products := auth.Group("/products")
		{
			products.GET("", controllers.ListProducts)
			products.POST("", controllers.CreateProduct)
			products.POST("/:id/stock-adjust", controllers.AdjustProductStock)
			products.GET("/:id/movements", controllers.ListStockMovements)
		}

		settings := auth.Group("/settings")
		{
			settings.GET("/payment", controllers.GetPaymentSettings)
			settings.PUT("/payment", controllers.UpdatePaymentSettings)
		}
		auth.GET("/tax-rates", controllers.ListTaxRates)

		reports := auth.Group("/reports")
		{
			reports.GET("/revenue", controllers.ReportRevenue)
			reports.GET("/outstanding", controllers.ReportOutstanding)
			reports.GET("/stock", controllers.ReportLowStock)
		}
	}
}
