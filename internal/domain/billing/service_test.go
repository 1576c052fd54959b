package billing

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func newTestService() *Service {
	svc := NewService(NewCPTCodeRepoMem(), NewTransactionRepoMem(), NewInvoiceRepoMem(), 30)
	svc.SetClock(func() time.Time {
		return time.Date(2023, 9, 15, 14, 25, 0, 0, time.UTC)
	})
	return svc
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVerifyCPTCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	code, err := svc.VerifyCPTCode(ctx, "90834")
	if err != nil {
		t.Fatalf("VerifyCPTCode: %v", err)
	}
	if code.Rate != 85.00 || code.DurationMinutes != 45 {
		t.Errorf("unexpected code data: %+v", code)
	}

	if _, err := svc.VerifyCPTCode(ctx, "99999"); !errors.Is(err, ErrUnknownCPTCode) {
		t.Errorf("expected ErrUnknownCPTCode, got %v", err)
	}
}

func TestListCPTCodes(t *testing.T) {
	svc := newTestService()
	codes, err := svc.ListCPTCodes(context.Background())
	if err != nil {
		t.Fatalf("ListCPTCodes: %v", err)
	}
	if len(codes) != 6 {
		t.Errorf("expected 6 seeded codes, got %d", len(codes))
	}
}

func TestCalculateServiceCost(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		code      string
		units     int
		modifiers []string
		wantTotal float64
		wantMins  int
	}{
		{"base rate", "90834", 1, nil, 85.00, 45},
		{"multiple units", "90832", 2, nil, 130.00, 60},
		{"increased service", "90837", 1, []string{"22"}, 195.00, 60},
		{"reduced service", "90837", 1, []string{"52"}, 65.00, 60},
		{"both modifiers", "90791", 1, []string{"22", "52"}, 112.50, 50},
		{"unknown modifier ignored", "96127", 1, []string{"59"}, 25.00, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := svc.CalculateServiceCost(ctx, tt.code, tt.units, tt.modifiers)
			if err != nil {
				t.Fatalf("CalculateServiceCost: %v", err)
			}
			if !almostEqual(cost.TotalCost, tt.wantTotal) {
				t.Errorf("total = %.2f, want %.2f", cost.TotalCost, tt.wantTotal)
			}
			if cost.DurationMinutes != tt.wantMins {
				t.Errorf("duration = %d, want %d", cost.DurationMinutes, tt.wantMins)
			}
		})
	}

	if _, err := svc.CalculateServiceCost(ctx, "90834", 0, nil); err == nil {
		t.Error("expected error for zero units")
	}
	if _, err := svc.CalculateServiceCost(ctx, "00000", 1, nil); !errors.Is(err, ErrUnknownCPTCode) {
		t.Errorf("expected ErrUnknownCPTCode, got %v", err)
	}
}

func TestProcessPayment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tr, err := svc.ProcessPayment(ctx, "PT12345", 85.00, "credit_card", nil)
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if tr.Status != TransactionCompleted {
		t.Errorf("status = %q, want %q", tr.Status, TransactionCompleted)
	}
	if tr.Number != "TXN-1-20230915142500" {
		t.Errorf("number = %q", tr.Number)
	}

	got, err := svc.GetTransaction(ctx, tr.Number)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount != 85.00 {
		t.Errorf("amount = %.2f, want 85.00", got.Amount)
	}

	if _, err := svc.ProcessPayment(ctx, "", 10, "credit_card", nil); err == nil {
		t.Error("expected error for empty patient id")
	}
	if _, err := svc.ProcessPayment(ctx, "PT12345", -1, "credit_card", nil); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestProcessPaymentRejectsBadMethod(t *testing.T) {
	svc := newTestService()
	_, err := svc.ProcessPayment(context.Background(), "PT12345", 10, "cash", nil)
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestGenerateInvoice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	services := []ServiceCost{
		{CPTCode: "90834", TotalCost: 85.00},
		{CPTCode: "96127", TotalCost: 25.00},
	}
	inv, err := svc.GenerateInvoice(ctx, "PT12345", services, "")
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}
	if inv.Status != "unpaid" {
		t.Errorf("status = %q, want unpaid", inv.Status)
	}
	if !almostEqual(inv.TotalAmount, 110.00) {
		t.Errorf("total = %.2f, want 110.00", inv.TotalAmount)
	}
	if inv.Number != "INV-1-20230915" {
		t.Errorf("number = %q", inv.Number)
	}
	wantDue := inv.IssueDate.AddDate(0, 0, 30)
	if !inv.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", inv.DueDate, wantDue)
	}

	empty, err := svc.GenerateInvoice(ctx, "PT12345", nil, "")
	if err != nil {
		t.Fatalf("GenerateInvoice empty: %v", err)
	}
	if empty.TotalAmount != 0 {
		t.Errorf("empty invoice total = %.2f, want 0", empty.TotalAmount)
	}

	if _, err := svc.GenerateInvoice(ctx, "PT12345", nil, "overdue"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inv, err := svc.GenerateInvoice(ctx, "PT12345", nil, "")
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	updated, err := svc.UpdateInvoiceStatus(ctx, inv.Number, "paid")
	if err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	if updated.Status != "paid" {
		t.Errorf("status = %q, want paid", updated.Status)
	}

	if _, err := svc.UpdateInvoiceStatus(ctx, inv.Number, "shredded"); err == nil {
		t.Error("expected error for invalid status")
	}
	if _, err := svc.UpdateInvoiceStatus(ctx, "INV-99-20230915", "paid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetInvoiceReturnsIsolatedCopy(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inv, err := svc.GenerateInvoice(ctx, "PT12345", []ServiceCost{{CPTCode: "90834", TotalCost: 85.00}}, "")
	if err != nil {
		t.Fatalf("GenerateInvoice: %v", err)
	}

	got, err := svc.GetInvoice(ctx, inv.Number)
	if err != nil {
		t.Fatal(err)
	}
	got.Status = "cancelled"
	got.Services[0].TotalCost = 0

	again, err := svc.GetInvoice(ctx, inv.Number)
	if err != nil {
		t.Fatal(err)
	}
	if again.Status != "unpaid" {
		t.Errorf("stored status changed to %q", again.Status)
	}
	if !almostEqual(again.Services[0].TotalCost, 85.00) {
		t.Errorf("stored service cost changed to %.2f", again.Services[0].TotalCost)
	}
}

func TestPatientHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.ProcessPayment(ctx, "PT12345", 85.00, "credit_card", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProcessPayment(ctx, "PT12345", 25.00, "insurance", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ProcessPayment(ctx, "PT99999", 50.00, "debit_card", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GenerateInvoice(ctx, "PT12345", []ServiceCost{{TotalCost: 130.00}}, ""); err != nil {
		t.Fatal(err)
	}
	paid, err := svc.GenerateInvoice(ctx, "PT12345", []ServiceCost{{TotalCost: 65.00}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateInvoiceStatus(ctx, paid.Number, "paid"); err != nil {
		t.Fatal(err)
	}

	h, err := svc.PatientHistory(ctx, "PT12345")
	if err != nil {
		t.Fatalf("PatientHistory: %v", err)
	}
	if len(h.Transactions) != 2 {
		t.Errorf("transactions = %d, want 2", len(h.Transactions))
	}
	if len(h.Invoices) != 2 {
		t.Errorf("invoices = %d, want 2", len(h.Invoices))
	}
	if !almostEqual(h.TotalPaid, 110.00) {
		t.Errorf("total paid = %.2f, want 110.00", h.TotalPaid)
	}
	if !almostEqual(h.OutstandingBalance, 130.00) {
		t.Errorf("outstanding = %.2f, want 130.00", h.OutstandingBalance)
	}

	empty, err := svc.PatientHistory(ctx, "PT00000")
	if err != nil {
		t.Fatalf("PatientHistory unknown patient: %v", err)
	}
	if len(empty.Transactions) != 0 || len(empty.Invoices) != 0 {
		t.Errorf("expected empty history, got %+v", empty)
	}
}

func TestListTransactionsPagination(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.ProcessPayment(ctx, "PT12345", float64(i+1), "credit_card", nil); err != nil {
			t.Fatal(err)
		}
	}

	items, total, err := svc.ListTransactions(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(items) != 2 {
		t.Fatalf("page size = %d, want 2", len(items))
	}
	if items[0].Amount != 3 {
		t.Errorf("page starts at amount %.0f, want 3", items[0].Amount)
	}
}
