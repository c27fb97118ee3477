package api

import (
	v1 "github.com/factupro/factupro/internal/api/v1"
	"github.com/factupro/factupro/internal/config"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/rest/middleware"
	"github.com/factupro/factupro/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Company *v1.CompanyHandler
	Client  *v1.ClientHandler
	Invoice *v1.InvoiceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	companies := router.Group("/companies")
	{
		companies.POST("", handlers.Company.CreateCompany)
		companies.GET("", handlers.Company.ListCompanies)
		companies.GET("/:id", handlers.Company.GetCompany)
		companies.PUT("/:id", handlers.Company.UpdateCompany)
		companies.DELETE("/:id", handlers.Company.DeleteCompany)
		companies.POST("/:id/default", handlers.Company.SetDefaultCompany)
	}

	clients := router.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
		clients.PUT("/:id", handlers.Client.UpdateClient)
		clients.DELETE("/:id", handlers.Client.DeleteClient)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.POST("/preview", handlers.Invoice.PreviewInvoice)
		invoices.POST("/export", handlers.Invoice.ExportInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.PUT("/:id/status", handlers.Invoice.UpdateInvoiceStatus)
		invoices.GET("/:id/document", handlers.Invoice.GetInvoiceDocument)
		invoices.GET("/:id/pdf", handlers.Invoice.GetInvoicePDF)
	}
}
