package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/backend/internal/application/tax"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/shared/valueobject"
	domaintax "github.com/finbooks/backend/internal/domain/tax"
)

// InvoiceService provides application-level invoice operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	taxService  *tax.TaxService
	eventBus    shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, taxService *tax.TaxService, eventBus shared.EventPublisher) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		taxService:  taxService,
		eventBus:    eventBus,
	}
}

// InvoiceLineRequest represents one line in a create request
type InvoiceLineRequest struct {
	Description  string          `json:"description" binding:"required"`
	HSNCode      string          `json:"hsn_code" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	TaxableValue decimal.Decimal `json:"taxable_value" binding:"required"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest represents a request to record a sales invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"required"`
	InvoiceDate   time.Time            `json:"invoice_date" binding:"required"`
	CustomerName  string               `json:"customer_name" binding:"required"`
	CustomerGSTIN string               `json:"customer_gstin"`
	PlaceOfSupply string               `json:"place_of_supply"`
	Lines         []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineResponse represents one invoice line in API responses
type InvoiceLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	HSNCode      string          `json:"hsn_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	CustomerName  string                `json:"customer_name"`
	CustomerGSTIN string                `json:"customer_gstin,omitempty"`
	PlaceOfSupply string                `json:"place_of_supply,omitempty"`
	Status        string                `json:"status"`
	SupplyType    string                `json:"supply_type,omitempty"`
	Bucket        string                `json:"bucket,omitempty"`
	TaxableValue  decimal.Decimal       `json:"taxable_value"`
	CGST          decimal.Decimal       `json:"cgst"`
	SGST          decimal.Decimal       `json:"sgst"`
	IGST          decimal.Decimal       `json:"igst"`
	InvoiceValue  decimal.Decimal       `json:"invoice_value"`
	Lines         []InvoiceLineResponse `json:"lines"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Status   string `form:"status"`
	Period   string `form:"period"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateInvoice records a draft sales invoice and derives its tax split
// and classification where the jurisdiction is already resolvable
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	var customerGSTIN domaintax.GSTIN
	if req.CustomerGSTIN != "" {
		g, err := domaintax.NewGSTIN(req.CustomerGSTIN)
		if err != nil {
			return nil, err
		}
		customerGSTIN = g
	}

	invoice, err := billing.NewInvoice(req.InvoiceNumber, req.InvoiceDate, req.CustomerName, customerGSTIN, req.PlaceOfSupply)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		rate, err := domaintax.NewRate(line.TaxRate)
		if err != nil {
			return nil, err
		}
		if err := invoice.AddLine(line.Description, line.HSNCode, line.Quantity, line.Unit,
			valueobject.NewMoneyINR(line.TaxableValue), rate); err != nil {
			return nil, err
		}
	}

	// A draft with resolvable jurisdiction gets its derived fields up
	// front; otherwise they stay pending until finalisation.
	if profile, err := s.taxService.Profile(ctx); err == nil {
		if err := invoice.Recompute(profile); err != nil {
			var derr *shared.DomainError
			if !(errors.As(err, &derr) && derr.Code == "UNCLASSIFIABLE_SUPPLY") {
				return nil, err
			}
		}
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// GetInvoice gets an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return toInvoiceResponse(invoice), nil
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Period != "" {
		domainFilter.Filters["period"] = filter.Period
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *toInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// FinalizeInvoice freezes an invoice, derives its final tax split and
// classification, and publishes it into its reporting period
func (s *InvoiceService) FinalizeInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	profile, err := s.taxService.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := invoice.Finalize(profile); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, invoice.GetDomainEvents()...); err == nil {
			invoice.ClearDomainEvents()
		}
	}
	return toInvoiceResponse(invoice), nil
}

func toInvoiceResponse(invoice *billing.Invoice) *InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, InvoiceLineResponse{
			ID:           line.ID,
			Description:  line.Description,
			HSNCode:      line.HSNCode,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			TaxableValue: line.TaxableValue.Amount(),
			TaxRate:      line.Rate.Percent(),
			CGST:         line.Split.CGST.Amount(),
			SGST:         line.Split.SGST.Amount(),
			IGST:         line.Split.IGST.Amount(),
		})
	}

	return &InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate,
		CustomerName:  invoice.CustomerName,
		CustomerGSTIN: invoice.CustomerGSTIN.String(),
		PlaceOfSupply: invoice.PlaceOfSupply,
		Status:        invoice.Status.String(),
		SupplyType:    invoice.SupplyType.String(),
		Bucket:        invoice.Bucket.String(),
		TaxableValue:  invoice.Split.TaxableValue.Amount(),
		CGST:          invoice.Split.CGST.Amount(),
		SGST:          invoice.Split.SGST.Amount(),
		IGST:          invoice.Split.IGST.Amount(),
		InvoiceValue:  invoice.Split.TotalValue().Amount(),
		Lines:         lines,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
		Version:       invoice.Version,
	}
}
