package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/factupro/factupro/internal/api"
	v1 "github.com/factupro/factupro/internal/api/v1"
	"github.com/factupro/factupro/internal/cache"
	"github.com/factupro/factupro/internal/config"
	"github.com/factupro/factupro/internal/httpclient"
	"github.com/factupro/factupro/internal/layout"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/pdf"
	"github.com/factupro/factupro/internal/repository/memory"
	"github.com/factupro/factupro/internal/s3"
	"github.com/factupro/factupro/internal/service"
	"github.com/factupro/factupro/internal/types"
	"github.com/factupro/factupro/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// HTTP Client
			provideHTTPClient,

			// Documents
			provideMeasurer,
			pdf.NewConfiguredLetterheadLoader,
			pdf.NewGenerator,
			s3.NewService,
			service.NewDocumentAssembler,

			// Repositories
			memory.NewCompanyRepository,
			memory.NewClientRepository,
			memory.NewInvoiceRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCompanyService,
			service.NewClientService,
			service.NewInvoiceService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHTTPClient(cfg *config.Configuration, log *logger.Logger) httpclient.Client {
	return httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:  cfg.Document.LetterheadFetchTimeout,
		RetryMax: 2,
	}, log)
}

func provideMeasurer() layout.Measurer {
	return pdf.NewFontMeasurer()
}

func provideHandlers(
	logger *logger.Logger,
	companyService service.CompanyService,
	clientService service.ClientService,
	invoiceService service.InvoiceService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(logger),
		Company: v1.NewCompanyHandler(companyService, logger),
		Client:  v1.NewClientHandler(clientService, logger),
		Invoice: v1.NewInvoiceHandler(invoiceService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
