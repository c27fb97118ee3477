package service

import (
	"context"
	"strings"
	"time"

	"github.com/factupro/factupro/internal/api/dto"
	"github.com/factupro/factupro/internal/domain/company"
	"github.com/factupro/factupro/internal/domain/invoice"
	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/pdf"
	"github.com/factupro/factupro/internal/s3"
	"github.com/factupro/factupro/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

const dateLayout = "2006-01-02"

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error

	// PreviewInvoice lays out a draft without storing it
	PreviewInvoice(ctx context.Context, req dto.PreviewInvoiceRequest) (*RenderableDocument, error)
	GetInvoiceDocument(ctx context.Context, id string) (*RenderableDocument, error)
	// GetInvoicePDF returns the rendered file and its name
	GetInvoicePDF(ctx context.Context, id string) ([]byte, string, error)
	ExportInvoices(ctx context.Context, req dto.ExportInvoicesRequest) (*dto.ExportInvoicesResponse, error)
}

type invoiceService struct {
	ServiceParams
	companies CompanyService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		companies:     NewCompanyService(params),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	draft := req.Draft
	if err := s.resolveSnapshots(ctx, &draft, req.CompanyID); err != nil {
		return nil, err
	}

	inv := invoice.Normalize(&draft, s.Config.Document.DefaultCurrency)
	inv.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE)
	inv.BaseModel = types.GetDefaultBaseModel()

	if inv.Date == "" {
		inv.Date = inv.CreatedAt.Format(dateLayout)
	}
	if inv.Number == "" {
		// numbering counts every stored document, invoices and quotes alike,
		// and skips past the highest number so a delete never frees one
		count, err := s.InvoiceRepo.Count(ctx, &types.InvoiceFilter{})
		if err != nil {
			return nil, err
		}
		last, err := s.InvoiceRepo.LastSequence(ctx)
		if err != nil {
			return nil, err
		}
		inv.Number = invoice.NextNumber(inv.CreatedAt, max(count, last))
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"type", inv.Type,
		"number", inv.Number,
		"client_id", inv.ClientID,
		"company_id", inv.CompanyID(),
	)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.NewInvoiceResponse(inv)
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// UpdateInvoice replaces the editable fields. The client and company snapshots
// are only retaken when the referenced record changes.
func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := req.Draft
	draft.ID = existing.ID
	draft.Type = lo.Ternary(draft.Type == "", existing.Type, draft.Type)
	draft.Status = lo.Ternary(draft.Status == "", existing.Status, draft.Status)
	draft.Number = lo.Ternary(strings.TrimSpace(draft.Number) == "", existing.Number, draft.Number)
	draft.Date = lo.Ternary(draft.Date == "", existing.Date, draft.Date)
	draft.Currency = lo.Ternary(draft.Currency == "", existing.Currency, draft.Currency)
	if draft.TvaApplicable == nil {
		draft.TvaApplicable = lo.ToPtr(existing.TvaApplicable)
	}

	if draft.ClientID == "" || draft.ClientID == existing.ClientID {
		draft.ClientID = existing.ClientID
		if draft.ClientSnap == nil {
			draft.ClientSnap = lo.ToPtr(existing.ClientSnap)
		}
	} else if draft.ClientSnap != nil && draft.ClientSnap.ID != draft.ClientID {
		// stale snapshot of the previous client
		draft.ClientSnap = nil
	}
	companyID := lo.Ternary(req.CompanyID == "", existing.CompanyID(), req.CompanyID)
	if companyID == existing.CompanyID() && draft.CompanySnap == nil {
		draft.CompanySnap = lo.ToPtr(existing.CompanySnap)
	}

	if err := s.resolveSnapshots(ctx, &draft, companyID); err != nil {
		return nil, err
	}

	inv := invoice.Normalize(&draft, s.Config.Document.DefaultCurrency)
	inv.BaseModel = existing.BaseModel
	inv.UpdatedAt = time.Now().UTC()

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Debugw("updated invoice", "invoice_id", inv.ID, "number", inv.Number)
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Status = req.Status
	inv.UpdatedAt = time.Now().UTC()
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.getInvoice(ctx, id); err != nil {
		return err
	}
	return s.InvoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) PreviewInvoice(ctx context.Context, req dto.PreviewInvoiceRequest) (*RenderableDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	draft := req.Draft
	if err := s.resolveSnapshots(ctx, &draft, req.CompanyID); err != nil {
		return nil, err
	}

	inv := invoice.Normalize(&draft, s.Config.Document.DefaultCurrency)
	return s.Assembler.Assemble(ctx, inv)
}

func (s *invoiceService) GetInvoiceDocument(ctx context.Context, id string) (*RenderableDocument, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Assembler.Assemble(ctx, inv)
}

func (s *invoiceService) GetInvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return s.render(ctx, inv)
}

// ExportInvoices renders the requested documents in parallel. A document that
// fails is reported in its own entry and does not fail the batch.
func (s *invoiceService) ExportInvoices(ctx context.Context, req dto.ExportInvoicesRequest) (*dto.ExportInvoicesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ids := lo.Uniq(req.InvoiceIDs)
	p := pool.NewWithResults[dto.ExportedDocument]().
		WithContext(ctx).
		WithMaxGoroutines(max(s.Config.Document.ExportConcurrency, 1))

	for _, id := range ids {
		p.Go(func(ctx context.Context) (dto.ExportedDocument, error) {
			return s.exportOne(ctx, id), nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to export documents").
			Mark(ierr.ErrSystem)
	}

	// the pool does not keep submission order
	byID := lo.KeyBy(results, func(d dto.ExportedDocument) string { return d.InvoiceID })
	docs := lo.Map(ids, func(id string, _ int) dto.ExportedDocument { return byID[id] })
	failed := lo.CountBy(docs, func(d dto.ExportedDocument) bool { return d.Error != "" })

	s.Logger.Infow("exported invoices", "requested", len(ids), "failed", failed)
	return &dto.ExportInvoicesResponse{
		Documents: docs,
		Failed:    failed,
	}, nil
}

func (s *invoiceService) exportOne(ctx context.Context, id string) dto.ExportedDocument {
	doc := dto.ExportedDocument{InvoiceID: id}

	fail := func(err error) dto.ExportedDocument {
		s.Logger.Warnw("failed to export invoice", "invoice_id", id, "error", err)
		doc.Error = err.Error()
		return doc
	}

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return fail(err)
	}

	data, filename, err := s.render(ctx, inv)
	if err != nil {
		return fail(err)
	}
	doc.Filename = filename
	doc.Size = len(data)

	if s.S3 == nil {
		doc.Content = data
		return doc
	}

	key, err := s.S3.UploadDocument(ctx, s3.NewPdfDocument(filename, data))
	if err != nil {
		return fail(err)
	}
	doc.Location = key
	if url, err := s.S3.GetPresignedUrl(ctx, key); err == nil {
		doc.Location = url
	} else {
		s.Logger.Warnw("failed to presign exported invoice", "invoice_id", id, "key", key, "error", err)
	}
	return doc
}

func (s *invoiceService) render(ctx context.Context, inv *invoice.Invoice) ([]byte, string, error) {
	doc, err := s.Assembler.Assemble(ctx, inv)
	if err != nil {
		return nil, "", err
	}

	data, err := s.PDFGenerator.RenderDocument(ctx, &pdf.Document{
		Title:  strings.TrimSuffix(doc.Filename, ".pdf"),
		Author: inv.CompanySnap.Name,
		Blocks: doc.Blocks,
	})
	if err != nil {
		return nil, "", err
	}

	s.Logger.Debugw("rendered invoice pdf",
		"invoice_id", inv.ID,
		"filename", doc.Filename,
		"pages", doc.PageCount,
		"size", len(data),
	)
	return data, doc.Filename, nil
}

func (s *invoiceService) getInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	if id == "" {
		return nil, ierr.NewError("invoice_id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	return s.InvoiceRepo.Get(ctx, id)
}

// resolveSnapshots fills the client and company snapshots the draft does not
// carry yet, from the stored client and from companyID or the default company
func (s *invoiceService) resolveSnapshots(ctx context.Context, draft *invoice.Draft, companyID string) error {
	if draft.ClientSnap == nil && draft.ClientID != "" {
		c, err := s.ClientRepo.Get(ctx, draft.ClientID)
		if err != nil {
			return err
		}
		draft.ClientSnap = lo.ToPtr(c.Snapshot())
	}

	if draft.CompanySnap != nil && (companyID == "" || companyID == draft.CompanySnap.ID) {
		return nil
	}

	var (
		c   *company.Company
		err error
	)
	if companyID != "" {
		c, err = s.CompanyRepo.Get(ctx, companyID)
	} else {
		c, err = s.companies.GetDefaultCompany(ctx)
	}
	if err != nil {
		return err
	}
	draft.CompanySnap = lo.ToPtr(c.Snapshot())
	return nil
}
