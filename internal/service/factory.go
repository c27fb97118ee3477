package service

import (
	"github.com/factupro/factupro/internal/config"
	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/pdf"
	"github.com/factupro/factupro/internal/s3"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	Assembler    DocumentAssembler
	PDFGenerator pdf.Generator
	// S3 is nil when uploads are disabled
	S3 s3.Service

	// Repositories
	CompanyRepo company.Repository
	ClientRepo  client.Repository
	InvoiceRepo invoice.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	assembler DocumentAssembler,
	pdfGenerator pdf.Generator,
	s3Service s3.Service,
	companyRepo company.Repository,
	clientRepo client.Repository,
	invoiceRepo invoice.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Assembler:    assembler,
		PDFGenerator: pdfGenerator,
		S3:           s3Service,
		CompanyRepo:  companyRepo,
		ClientRepo:   clientRepo,
		InvoiceRepo:  invoiceRepo,
	}
}
