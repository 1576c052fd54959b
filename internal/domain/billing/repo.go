package billing

import (
	"context"
)

type CPTCodeRepository interface {
	Get(ctx context.Context, code string) (*CPTCode, error)
	Put(ctx context.Context, c *CPTCode) error
	List(ctx context.Context) ([]*CPTCode, error)
}

type TransactionRepository interface {
	// Create assigns the transaction ID and, when empty, its sequential
	// number before appending.
	Create(ctx context.Context, t *Transaction) error
	GetByNumber(ctx context.Context, number string) (*Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*Transaction, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Transaction, int, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Invoice, int, error)
}
