package insurance

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/enehealths/support/pkg/pagination"
)

// In-memory repositories. Records live for the lifetime of the process.
// Reads return copies so callers never share mutable state with the
// store; writes copy back in under the repository lock.

type providerRepoMem struct {
	mu        sync.RWMutex
	providers map[string]*Provider
}

// NewProviderRepoMem returns an in-memory payer registry seeded with the
// default providers.
func NewProviderRepoMem() ProviderRepository {
	r := &providerRepoMem{providers: make(map[string]*Provider)}
	for _, p := range DefaultProviders() {
		r.providers[p.Code] = p
	}
	return r
}

func cloneProvider(p *Provider) *Provider {
	out := *p
	out.Coverage = make(map[string]float64, len(p.Coverage))
	for code, pct := range p.Coverage {
		out.Coverage[code] = pct
	}
	out.RequiresPreauth = append([]string(nil), p.RequiresPreauth...)
	return &out
}

func (r *providerRepoMem) Get(_ context.Context, code string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, code)
	}
	return cloneProvider(p), nil
}

func (r *providerRepoMem) Put(_ context.Context, p *Provider) error {
	if p.Code == "" {
		return fmt.Errorf("provider code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Code] = cloneProvider(p)
	return nil
}

func (r *providerRepoMem) List(_ context.Context) ([]*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, cloneProvider(p))
	}
	return out, nil
}

type claimRepoMem struct {
	mu       sync.RWMutex
	records  []*Claim
	byNumber map[string]*Claim
}

// NewClaimRepoMem returns an empty in-memory claim store.
func NewClaimRepoMem() ClaimRepository {
	return &claimRepoMem{byNumber: make(map[string]*Claim)}
}

func cloneClaim(c *Claim) *Claim {
	out := *c
	if c.Coverage != nil {
		cov := *c.Coverage
		out.Coverage = &cov
	}
	out.StatusHistory = append([]StatusEvent(nil), c.StatusHistory...)
	return &out
}

func (r *claimRepoMem) Create(_ context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	if c.Number == "" {
		c.Number = ClaimNumber()
	}
	stored := cloneClaim(c)
	r.records = append(r.records, stored)
	r.byNumber[stored.Number] = stored
	return nil
}

func (r *claimRepoMem) GetByNumber(_ context.Context, number string) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClaimNotFound, number)
	}
	return cloneClaim(c), nil
}

func (r *claimRepoMem) Update(_ context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byNumber[c.Number]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClaimNotFound, c.Number)
	}
	*existing = *cloneClaim(c)
	return nil
}

func (r *claimRepoMem) List(_ context.Context, limit, offset int) ([]*Claim, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pageClaims(r.records, limit, offset)
}

func (r *claimRepoMem) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Claim, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*Claim
	for _, c := range r.records {
		if c.Patient.PatientID == patientID {
			matched = append(matched, c)
		}
	}
	return pageClaims(matched, limit, offset)
}

func pageClaims(all []*Claim, limit, offset int) ([]*Claim, int, error) {
	total := len(all)
	start, end := pagination.Bounds(total, limit, offset)
	out := make([]*Claim, 0, end-start)
	for _, c := range all[start:end] {
		out = append(out, cloneClaim(c))
	}
	return out, total, nil
}

type reimbursementRepoMem struct {
	mu      sync.RWMutex
	records []*Reimbursement
}

// NewReimbursementRepoMem returns an empty in-memory reimbursement ledger.
func NewReimbursementRepoMem() ReimbursementRepository {
	return &reimbursementRepoMem{}
}

func cloneReimbursement(rb *Reimbursement) *Reimbursement {
	out := *rb
	return &out
}

func (r *reimbursementRepoMem) Create(_ context.Context, rb *Reimbursement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rb.ID = uuid.New()
	if rb.Number == "" {
		rb.Number = ReimbursementNumber()
	}
	r.records = append(r.records, cloneReimbursement(rb))
	return nil
}

func (r *reimbursementRepoMem) List(_ context.Context, limit, offset int) ([]*Reimbursement, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.records)
	start, end := pagination.Bounds(total, limit, offset)
	out := make([]*Reimbursement, 0, end-start)
	for _, rb := range r.records[start:end] {
		out = append(out, cloneReimbursement(rb))
	}
	return out, total, nil
}

func (r *reimbursementRepoMem) ListByClaim(_ context.Context, claimNumber string) ([]*Reimbursement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*Reimbursement
	for _, rb := range r.records {
		if rb.ClaimNumber == claimNumber {
			matched = append(matched, cloneReimbursement(rb))
		}
	}
	return matched, nil
}
