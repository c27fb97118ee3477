package testutil

import (
	"context"
	"time"

	"github.com/factupro/factupro/internal/cache"
	"github.com/factupro/factupro/internal/config"
	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	"github.com/factupro/factupro/internal/logger"
	"github.com/factupro/factupro/internal/repository/memory"
	"github.com/factupro/factupro/internal/types"
	"github.com/factupro/factupro/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CompanyRepo company.Repository
	ClientRepo  client.Repository
	InvoiceRepo invoice.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	cache        cache.Cache
	stores       Stores
	logger       *logger.Logger
	config       *config.Configuration
	now          time.Time
	pdfGenerator *MockPDFGenerator
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.pdfGenerator = NewMockPDFGenerator()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) setupStores() {
	s.cache = cache.NewInMemoryCache()
	s.stores = Stores{
		CompanyRepo: memory.NewCompanyRepository(s.cache, s.logger),
		ClientRepo:  memory.NewClientRepository(s.cache, s.logger),
		InvoiceRepo: memory.NewInvoiceRepository(s.cache, s.logger),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetPDFGenerator returns the mocked renderer
func (s *BaseServiceTestSuite) GetPDFGenerator() *MockPDFGenerator {
	return s.pdfGenerator
}

// CreateTestCompany stores a company with sensible defaults
func (s *BaseServiceTestSuite) CreateTestCompany(name string, isDefault bool) *company.Company {
	c := &company.Company{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMPANY),
		Name:      name,
		MF:        "1234567/A/M/000",
		Address:   "12 Rue de Marseille\nTunis",
		IsDefault: isDefault,
		BaseModel: types.GetDefaultBaseModel(),
	}
	s.Require().NoError(s.stores.CompanyRepo.Create(s.ctx, c))
	return c
}

// CreateTestClient stores a client with sensible defaults
func (s *BaseServiceTestSuite) CreateTestClient(name string) *client.Client {
	c := &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      name,
		MF:        "7654321/B/A/000",
		Address:   "Zone Industrielle\nSfax",
		BaseModel: types.GetDefaultBaseModel(),
	}
	s.Require().NoError(s.stores.ClientRepo.Create(s.ctx, c))
	return c
}
