package insurance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownProvider   = errors.New("unknown insurance provider")
	ErrServiceNotCovered = errors.New("service not covered")
	ErrClaimNotFound     = errors.New("claim not found")
	ErrClaimNotApproved  = errors.New("claim not in approved status")
)

// Provider is a payer with per-CPT coverage fractions.
type Provider struct {
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Contact         string             `json:"contact"`
	Website         string             `json:"website"`
	Coverage        map[string]float64 `json:"coverage"`
	RequiresPreauth []string           `json:"requires_preauth"`
}

// NeedsPreauth reports whether the CPT code requires preauthorization
// with this provider.
func (p *Provider) NeedsPreauth(cptCode string) bool {
	for _, c := range p.RequiresPreauth {
		if c == cptCode {
			return true
		}
	}
	return false
}

// DefaultProviders returns the seed payer registry.
func DefaultProviders() []*Provider {
	return []*Provider{
		{
			Code:    "blue_cross",
			Name:    "Blue Cross Blue Shield",
			Contact: "1-800-123-4567",
			Website: "https://www.bluecross.com",
			Coverage: map[string]float64{
				"90791": 0.80,
				"90832": 0.70,
				"90834": 0.70,
				"90837": 0.70,
				"90853": 0.80,
				"96127": 0.90,
			},
			RequiresPreauth: []string{"90791"},
		},
		{
			Code:    "aetna",
			Name:    "Aetna",
			Contact: "1-800-987-6543",
			Website: "https://www.aetna.com",
			Coverage: map[string]float64{
				"90791": 0.75,
				"90832": 0.75,
				"90834": 0.75,
				"90837": 0.75,
				"90853": 0.85,
				"96127": 0.85,
			},
			RequiresPreauth: []string{"90791", "90837"},
		},
		{
			Code:    "united",
			Name:    "UnitedHealthcare",
			Contact: "1-800-456-7890",
			Website: "https://www.unitedhealthcare.com",
			Coverage: map[string]float64{
				"90791": 0.70,
				"90832": 0.70,
				"90834": 0.70,
				"90837": 0.70,
				"90853": 0.80,
				"96127": 0.80,
			},
			RequiresPreauth: []string{},
		},
	}
}

// CoverageResult answers a coverage verification request.
type CoverageResult struct {
	InsuranceID              string  `json:"insurance_id"`
	Provider                 string  `json:"provider"`
	CPTCode                  string  `json:"cpt_code"`
	CoveragePercentage       float64 `json:"coverage_percentage"`
	RequiresPreauthorization bool    `json:"requires_preauthorization"`
	PatientResponsibility    float64 `json:"estimated_patient_responsibility"`
}

// PatientInfo identifies the claim subject.
type PatientInfo struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	DOB       string `json:"dob"`
}

// ProviderInfo identifies the rendering clinician.
type ProviderInfo struct {
	ProviderID string `json:"provider_id"`
	Name       string `json:"name"`
	NPI        string `json:"npi"`
}

// ServiceInfo describes the billed service.
type ServiceInfo struct {
	CPTCode       string  `json:"cpt_code"`
	ServiceDate   string  `json:"service_date"`
	DiagnosisCode string  `json:"diagnosis_code"`
	TotalCost     float64 `json:"total_cost"`
}

// InsuranceInfo carries the patient's plan details.
type InsuranceInfo struct {
	InsuranceID  string `json:"insurance_id"`
	ProviderCode string `json:"provider_code"`
	GroupNumber  string `json:"group_number"`
}

// Claim statuses. Reimbursement requires approved or partially_approved.
const (
	StatusSubmitted         = "submitted"
	StatusInReview          = "in_review"
	StatusApproved          = "approved"
	StatusPartiallyApproved = "partially_approved"
	StatusDenied            = "denied"
	StatusReimbursed        = "reimbursed"
)

var validClaimStatuses = map[string]bool{
	StatusSubmitted:         true,
	StatusInReview:          true,
	StatusApproved:          true,
	StatusPartiallyApproved: true,
	StatusDenied:            true,
	StatusReimbursed:        true,
}

// StatusEvent is one entry in a claim's status history.
type StatusEvent struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// Claim is a submitted insurance claim and its processing trail.
type Claim struct {
	ID                     uuid.UUID       `json:"id"`
	Number                 string          `json:"number"`
	Patient                PatientInfo     `json:"patient_info"`
	Provider               ProviderInfo    `json:"provider_info"`
	Service                ServiceInfo     `json:"service_info"`
	Insurance              InsuranceInfo   `json:"insurance_info"`
	Coverage               *CoverageResult `json:"coverage_details,omitempty"`
	SubmissionDate         time.Time       `json:"submission_date"`
	Status                 string          `json:"status"`
	StatusHistory          []StatusEvent   `json:"status_history"`
	EstimatedReimbursement float64         `json:"estimated_reimbursement"`
}

// Reimbursement is a payout against an approved claim.
type Reimbursement struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	ClaimNumber string    `json:"claim_number"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}

// ClaimNumber formats a claim identifier, e.g. CLM-1a2b3c4d.
func ClaimNumber() string {
	return fmt.Sprintf("CLM-%s", shortID())
}

// ReimbursementNumber formats a reimbursement identifier, e.g. REIMB-5e6f7a8b.
func ReimbursementNumber() string {
	return fmt.Sprintf("REIMB-%s", shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
