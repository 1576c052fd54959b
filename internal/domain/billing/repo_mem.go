package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/enehealths/support/pkg/pagination"
)

// In-memory repositories. Records live for the lifetime of the process;
// there is no durable storage behind them. Reads return copies so
// callers never share mutable state with the store; writes copy back in
// under the repository lock.

type cptCodeRepoMem struct {
	mu    sync.RWMutex
	codes map[string]*CPTCode
}

// NewCPTCodeRepoMem returns an in-memory CPT code registry seeded with the
// default mental health service codes.
func NewCPTCodeRepoMem() CPTCodeRepository {
	r := &cptCodeRepoMem{codes: make(map[string]*CPTCode)}
	for _, c := range DefaultCPTCodes() {
		r.codes[c.Code] = c
	}
	return r
}

func cloneCPTCode(c *CPTCode) *CPTCode {
	out := *c
	return &out
}

func (r *cptCodeRepoMem) Get(_ context.Context, code string) (*CPTCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codes[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCPTCode, code)
	}
	return cloneCPTCode(c), nil
}

func (r *cptCodeRepoMem) Put(_ context.Context, c *CPTCode) error {
	if c.Code == "" {
		return fmt.Errorf("code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[c.Code] = cloneCPTCode(c)
	return nil
}

func (r *cptCodeRepoMem) List(_ context.Context) ([]*CPTCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*CPTCode, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, cloneCPTCode(c))
	}
	return out, nil
}

func cloneServiceCost(sc ServiceCost) ServiceCost {
	sc.Modifiers = append([]string(nil), sc.Modifiers...)
	return sc
}

type transactionRepoMem struct {
	mu       sync.RWMutex
	records  []*Transaction
	byNumber map[string]*Transaction
}

// NewTransactionRepoMem returns an empty in-memory transaction ledger.
func NewTransactionRepoMem() TransactionRepository {
	return &transactionRepoMem{byNumber: make(map[string]*Transaction)}
}

func cloneTransaction(t *Transaction) *Transaction {
	out := *t
	if t.Service != nil {
		svc := cloneServiceCost(*t.Service)
		out.Service = &svc
	}
	return &out
}

func (r *transactionRepoMem) Create(_ context.Context, t *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	if t.Number == "" {
		t.Number = TransactionNumber(len(r.records)+1, t.Timestamp)
	}
	stored := cloneTransaction(t)
	r.records = append(r.records, stored)
	r.byNumber[stored.Number] = stored
	return nil
}

func (r *transactionRepoMem) GetByNumber(_ context.Context, number string) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, number)
	}
	return cloneTransaction(t), nil
}

func (r *transactionRepoMem) List(_ context.Context, limit, offset int) ([]*Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pageTransactions(r.records, limit, offset)
}

func (r *transactionRepoMem) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Transaction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*Transaction
	for _, t := range r.records {
		if t.PatientID == patientID {
			matched = append(matched, t)
		}
	}
	return pageTransactions(matched, limit, offset)
}

func pageTransactions(all []*Transaction, limit, offset int) ([]*Transaction, int, error) {
	total := len(all)
	start, end := pagination.Bounds(total, limit, offset)
	out := make([]*Transaction, 0, end-start)
	for _, t := range all[start:end] {
		out = append(out, cloneTransaction(t))
	}
	return out, total, nil
}

type invoiceRepoMem struct {
	mu       sync.RWMutex
	records  []*Invoice
	byNumber map[string]*Invoice
}

// NewInvoiceRepoMem returns an empty in-memory invoice ledger.
func NewInvoiceRepoMem() InvoiceRepository {
	return &invoiceRepoMem{byNumber: make(map[string]*Invoice)}
}

func cloneInvoice(inv *Invoice) *Invoice {
	out := *inv
	out.Services = append([]ServiceCost(nil), inv.Services...)
	for i := range out.Services {
		out.Services[i] = cloneServiceCost(out.Services[i])
	}
	return &out
}

func (r *invoiceRepoMem) Create(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv.ID = uuid.New()
	if inv.Number == "" {
		inv.Number = InvoiceNumber(len(r.records)+1, inv.IssueDate)
	}
	stored := cloneInvoice(inv)
	r.records = append(r.records, stored)
	r.byNumber[stored.Number] = stored
	return nil
}

func (r *invoiceRepoMem) GetByNumber(_ context.Context, number string) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, number)
	}
	return cloneInvoice(inv), nil
}

func (r *invoiceRepoMem) Update(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byNumber[inv.Number]
	if !ok {
		return fmt.Errorf("%w: invoice %s", ErrNotFound, inv.Number)
	}
	*existing = *cloneInvoice(inv)
	return nil
}

func (r *invoiceRepoMem) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pageInvoices(r.records, limit, offset)
}

func (r *invoiceRepoMem) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*Invoice
	for _, inv := range r.records {
		if inv.PatientID == patientID {
			matched = append(matched, inv)
		}
	}
	return pageInvoices(matched, limit, offset)
}

func pageInvoices(all []*Invoice, limit, offset int) ([]*Invoice, int, error) {
	total := len(all)
	start, end := pagination.Bounds(total, limit, offset)
	out := make([]*Invoice, 0, end-start)
	for _, inv := range all[start:end] {
		out = append(out, cloneInvoice(inv))
	}
	return out, total, nil
}
