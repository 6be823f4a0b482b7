package repository

import "context"

// SequenceRepository stores the last document number issued per kind.
// Writes are last-write-wins; uniqueness of the numbers themselves is
// enforced by the tables that use them.
type SequenceRepository interface {
	// GetLast returns "" when nothing has been issued for kind.
	GetLast(ctx context.Context, kind string) (string, error)
	SetLast(ctx context.Context, kind, number string) error
}
