package insurance

import (
	"context"
)

type ProviderRepository interface {
	Get(ctx context.Context, code string) (*Provider, error)
	Put(ctx context.Context, p *Provider) error
	List(ctx context.Context) ([]*Provider, error)
}

type ClaimRepository interface {
	// Create assigns the claim ID and, when empty, its number before
	// appending.
	Create(ctx context.Context, c *Claim) error
	GetByNumber(ctx context.Context, number string) (*Claim, error)
	Update(ctx context.Context, c *Claim) error
	List(ctx context.Context, limit, offset int) ([]*Claim, int, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Claim, int, error)
}

type ReimbursementRepository interface {
	Create(ctx context.Context, r *Reimbursement) error
	List(ctx context.Context, limit, offset int) ([]*Reimbursement, int, error)
	ListByClaim(ctx context.Context, claimNumber string) ([]*Reimbursement, error)
}
