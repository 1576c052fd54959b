package insurance

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	providers      ProviderRepository
	claims         ClaimRepository
	reimbursements ReimbursementRepository
	now            func() time.Time
}

func NewService(providers ProviderRepository, claims ClaimRepository, reimbursements ReimbursementRepository) *Service {
	return &Service{
		providers:      providers,
		claims:         claims,
		reimbursements: reimbursements,
		now:            time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) ListProviders(ctx context.Context) ([]*Provider, error) {
	return s.providers.List(ctx)
}

func (s *Service) GetProvider(ctx context.Context, code string) (*Provider, error) {
	return s.providers.Get(ctx, code)
}

// VerifyCoverage looks up the coverage fraction for a service under the
// given payer. Patient responsibility is the uncovered remainder.
func (s *Service) VerifyCoverage(ctx context.Context, insuranceID, providerCode, cptCode string) (*CoverageResult, error) {
	p, err := s.providers.Get(ctx, providerCode)
	if err != nil {
		return nil, err
	}
	pct, ok := p.Coverage[cptCode]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotCovered, cptCode)
	}
	return &CoverageResult{
		InsuranceID:              insuranceID,
		Provider:                 p.Name,
		CPTCode:                  cptCode,
		CoveragePercentage:       pct,
		RequiresPreauthorization: p.NeedsPreauth(cptCode),
		PatientResponsibility:    1.0 - pct,
	}, nil
}

// SubmitClaim verifies coverage and records a new claim in submitted
// status. The estimated reimbursement is the service cost scaled by the
// coverage fraction.
func (s *Service) SubmitClaim(ctx context.Context, patient PatientInfo, provider ProviderInfo, service ServiceInfo, ins InsuranceInfo) (*Claim, error) {
	if patient.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	coverage, err := s.VerifyCoverage(ctx, ins.InsuranceID, ins.ProviderCode, service.CPTCode)
	if err != nil {
		return nil, err
	}

	submitted := s.now()
	c := &Claim{
		Patient:        patient,
		Provider:       provider,
		Service:        service,
		Insurance:      ins,
		Coverage:       coverage,
		SubmissionDate: submitted,
		Status:         StatusSubmitted,
		StatusHistory: []StatusEvent{
			{Status: StatusSubmitted, Timestamp: submitted, Notes: "Initial claim submission"},
		},
		EstimatedReimbursement: service.TotalCost * coverage.CoveragePercentage,
	}
	if err := s.claims.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetClaim(ctx context.Context, number string) (*Claim, error) {
	return s.claims.GetByNumber(ctx, number)
}

func (s *Service) ListClaims(ctx context.Context, limit, offset int) ([]*Claim, int, error) {
	return s.claims.List(ctx, limit, offset)
}

func (s *Service) PatientClaims(ctx context.Context, patientID string, limit, offset int) ([]*Claim, int, error) {
	if patientID == "" {
		return nil, 0, fmt.Errorf("patient_id is required")
	}
	return s.claims.ListByPatient(ctx, patientID, limit, offset)
}

// UpdateClaimStatus moves a claim to a new status and appends the change
// to its status history.
func (s *Service) UpdateClaimStatus(ctx context.Context, number, status, notes string) (*Claim, error) {
	if !validClaimStatuses[status] {
		return nil, fmt.Errorf("invalid claim status: %s", status)
	}
	c, err := s.claims.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	c.Status = status
	c.StatusHistory = append(c.StatusHistory, StatusEvent{
		Status:    status,
		Timestamp: s.now(),
		Notes:     notes,
	})
	if err := s.claims.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ProcessReimbursement pays out against an approved or partially approved
// claim and moves the claim to reimbursed.
func (s *Service) ProcessReimbursement(ctx context.Context, claimNumber string, amount float64) (*Reimbursement, error) {
	if amount < 0 {
		return nil, fmt.Errorf("amount must not be negative, got %.2f", amount)
	}
	c, err := s.claims.GetByNumber(ctx, claimNumber)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusApproved && c.Status != StatusPartiallyApproved {
		return nil, fmt.Errorf("%w: %s", ErrClaimNotApproved, c.Status)
	}

	rb := &Reimbursement{
		ClaimNumber: claimNumber,
		Amount:      amount,
		PaymentDate: s.now(),
	}
	if err := s.reimbursements.Create(ctx, rb); err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("Reimbursement processed: $%.2f", amount)
	if _, err := s.UpdateClaimStatus(ctx, claimNumber, StatusReimbursed, notes); err != nil {
		return nil, err
	}
	return rb, nil
}

func (s *Service) ListReimbursements(ctx context.Context, limit, offset int) ([]*Reimbursement, int, error) {
	return s.reimbursements.List(ctx, limit, offset)
}

func (s *Service) ClaimReimbursements(ctx context.Context, claimNumber string) ([]*Reimbursement, error) {
	return s.reimbursements.ListByClaim(ctx, claimNumber)
}
