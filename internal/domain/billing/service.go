package billing

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	codes        CPTCodeRepository
	transactions TransactionRepository
	invoices     InvoiceRepository
	dueDays      int
	now          func() time.Time
}

func NewService(codes CPTCodeRepository, transactions TransactionRepository, invoices InvoiceRepository, invoiceDueDays int) *Service {
	if invoiceDueDays <= 0 {
		invoiceDueDays = 30
	}
	return &Service{
		codes:        codes,
		transactions: transactions,
		invoices:     invoices,
		dueDays:      invoiceDueDays,
		now:          time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// VerifyCPTCode looks up a service code in the registry.
func (s *Service) VerifyCPTCode(ctx context.Context, code string) (*CPTCode, error) {
	return s.codes.Get(ctx, code)
}

func (s *Service) ListCPTCodes(ctx context.Context) ([]*CPTCode, error) {
	return s.codes.List(ctx)
}

// CalculateServiceCost quotes a service. Modifier 22 (increased procedural
// service) multiplies the total by 1.5 and modifier 52 (reduced service) by
// 0.5; both may apply. Duration scales with units.
func (s *Service) CalculateServiceCost(ctx context.Context, code string, units int, modifiers []string) (*ServiceCost, error) {
	if units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", units)
	}
	cpt, err := s.codes.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	total := cpt.Rate * float64(units)
	for _, m := range modifiers {
		switch m {
		case ModifierIncreased:
			total *= 1.5
		case ModifierReduced:
			total *= 0.5
		}
	}

	if modifiers == nil {
		modifiers = []string{}
	}
	return &ServiceCost{
		CPTCode:         cpt.Code,
		Service:         cpt.Description,
		BaseRate:        cpt.Rate,
		Units:           units,
		Modifiers:       modifiers,
		TotalCost:       total,
		DurationMinutes: cpt.DurationMinutes * units,
	}, nil
}

// ProcessPayment records a completed payment for services rendered.
func (s *Service) ProcessPayment(ctx context.Context, patientID string, amount float64, method string, svc *ServiceCost) (*Transaction, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative, got %.2f", amount)
	}
	if !validPaymentMethods[method] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, method)
	}

	t := &Transaction{
		PatientID: patientID,
		Amount:    amount,
		Method:    method,
		Service:   svc,
		Timestamp: s.now(),
		Status:    TransactionCompleted,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetTransaction(ctx context.Context, number string) (*Transaction, error) {
	return s.transactions.GetByNumber(ctx, number)
}

func (s *Service) ListTransactions(ctx context.Context, limit, offset int) ([]*Transaction, int, error) {
	return s.transactions.List(ctx, limit, offset)
}

// GenerateInvoice totals the given services and appends an invoice. An empty
// service list produces a zero-total invoice.
func (s *Service) GenerateInvoice(ctx context.Context, patientID string, services []ServiceCost, status string) (*Invoice, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if status == "" {
		status = "unpaid"
	}
	if !validInvoiceStatuses[status] {
		return nil, fmt.Errorf("invalid invoice status: %s", status)
	}

	var total float64
	for _, svc := range services {
		total += svc.TotalCost
	}

	issued := s.now()
	inv := &Invoice{
		PatientID:   patientID,
		Services:    services,
		TotalAmount: total,
		IssueDate:   issued,
		DueDate:     issued.AddDate(0, 0, s.dueDays),
		Status:      status,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, number string) (*Invoice, error) {
	return s.invoices.GetByNumber(ctx, number)
}

func (s *Service) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}

// UpdateInvoiceStatus moves an invoice between unpaid, paid and cancelled.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, number, status string) (*Invoice, error) {
	if !validInvoiceStatuses[status] {
		return nil, fmt.Errorf("invalid invoice status: %s", status)
	}
	inv, err := s.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	inv.Status = status
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// PatientHistory aggregates a patient's transactions and invoices. Unknown
// patients yield an empty history.
func (s *Service) PatientHistory(ctx context.Context, patientID string) (*History, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}

	transactions, _, err := s.transactions.ListByPatient(ctx, patientID, 0, 0)
	if err != nil {
		return nil, err
	}
	invoices, _, err := s.invoices.ListByPatient(ctx, patientID, 0, 0)
	if err != nil {
		return nil, err
	}

	h := &History{
		PatientID:    patientID,
		Transactions: transactions,
		Invoices:     invoices,
	}
	for _, t := range transactions {
		h.TotalPaid += t.Amount
	}
	for _, inv := range invoices {
		if inv.Status == "unpaid" {
			h.OutstandingBalance += inv.TotalAmount
		}
	}
	return h, nil
}
