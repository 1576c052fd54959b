package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownCPTCode       = errors.New("unknown CPT code")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNotFound             = errors.New("not found")
)

// CPTCode describes a billable mental health service.
type CPTCode struct {
	Code            string  `json:"code"`
	Description     string  `json:"description"`
	Rate            float64 `json:"rate"`
	DurationMinutes int     `json:"duration_minutes"`
}

// DefaultCPTCodes returns the seed registry of mental health service codes.
func DefaultCPTCodes() []*CPTCode {
	return []*CPTCode{
		{Code: "90791", Description: "Psychiatric diagnostic evaluation", Rate: 150.00, DurationMinutes: 50},
		{Code: "90832", Description: "Psychotherapy, 30 minutes", Rate: 65.00, DurationMinutes: 30},
		{Code: "90834", Description: "Psychotherapy, 45 minutes", Rate: 85.00, DurationMinutes: 45},
		{Code: "90837", Description: "Psychotherapy, 60 minutes", Rate: 130.00, DurationMinutes: 60},
		{Code: "90853", Description: "Group psychotherapy", Rate: 50.00, DurationMinutes: 90},
		{Code: "96127", Description: "Brief emotional/behavioral assessment", Rate: 25.00, DurationMinutes: 15},
	}
}

// Service cost modifiers. Modifier 22 marks an increased procedural service,
// modifier 52 a reduced service.
const (
	ModifierIncreased = "22"
	ModifierReduced   = "52"
)

// ServiceCost is a computed quote for a service.
type ServiceCost struct {
	CPTCode         string   `json:"cpt_code"`
	Service         string   `json:"service"`
	BaseRate        float64  `json:"base_rate"`
	Units           int      `json:"units"`
	Modifiers       []string `json:"modifiers"`
	TotalCost       float64  `json:"total_cost"`
	DurationMinutes int      `json:"duration_minutes"`
}

// Payment methods accepted by ProcessPayment.
var validPaymentMethods = map[string]bool{
	"credit_card": true, "debit_card": true, "insurance": true, "bank_transfer": true,
}

// Transaction statuses.
const (
	TransactionCompleted = "completed"
)

// Transaction is an append-only payment record.
type Transaction struct {
	ID        uuid.UUID    `json:"id"`
	Number    string       `json:"number"`
	PatientID string       `json:"patient_id"`
	Amount    float64      `json:"amount"`
	Method    string       `json:"method"`
	Service   *ServiceCost `json:"service,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Status    string       `json:"status"`
}

// Invoice statuses.
var validInvoiceStatuses = map[string]bool{
	"unpaid": true, "paid": true, "cancelled": true,
}

// Invoice bills a patient for a set of services.
type Invoice struct {
	ID          uuid.UUID     `json:"id"`
	Number      string        `json:"number"`
	PatientID   string        `json:"patient_id"`
	Services    []ServiceCost `json:"services"`
	TotalAmount float64       `json:"total_amount"`
	IssueDate   time.Time     `json:"issue_date"`
	DueDate     time.Time     `json:"due_date"`
	Status      string        `json:"status"`
}

// History summarises a patient's billing activity. OutstandingBalance counts
// unpaid invoices only.
type History struct {
	PatientID          string         `json:"patient_id"`
	Transactions       []*Transaction `json:"transactions"`
	Invoices           []*Invoice     `json:"invoices"`
	TotalPaid          float64        `json:"total_paid"`
	OutstandingBalance float64        `json:"outstanding_balance"`
}

// TransactionNumber formats a human-readable transaction identifier,
// e.g. TXN-3-20230915142500.
func TransactionNumber(seq int, t time.Time) string {
	return fmt.Sprintf("TXN-%d-%s", seq, t.Format("20060102150405"))
}

// InvoiceNumber formats a human-readable invoice identifier,
// e.g. INV-2-20230915.
func InvoiceNumber(seq int, t time.Time) string {
	return fmt.Sprintf("INV-%d-%s", seq, t.Format("20060102"))
}
