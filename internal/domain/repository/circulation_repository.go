package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
)

// CirculationRepository defines the interface for issue and return records.
type CirculationRepository interface {
	// CreateIssue inserts the issue and hands each entry's copy to the
	// member. It fails with ErrCopyStateChanged if a copy is not Available.
	CreateIssue(ctx context.Context, circulation *entity.Circulation) error
	// CreateReturn inserts the return and shelves each entry's copy. It
	// fails with ErrCopyStateChanged if a copy is not Issued to the member.
	CreateReturn(ctx context.Context, circulation *entity.Circulation) error
	// Delete removes a circulation and reverses its copy moves where the
	// copies are still in the state it left them.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Circulation, error)
	GetByDocumentNo(ctx context.Context, circulationType enum.CirculationType, documentNo string) (*entity.Circulation, error)
	LastDocumentNo(ctx context.Context, circulationType enum.CirculationType) (string, error)
	// ListEntryRows returns one flat row per entry, newest circulation first.
	ListEntryRows(ctx context.Context, params *CirculationFilterParams) ([]CirculationEntryRow, error)
}

// CirculationFilterParams contains filtering parameters for circulation queries
type CirculationFilterParams struct {
	Type      *enum.CirculationType
	MemberID  *uuid.UUID
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// CirculationEntryRow is a denormalized entry line used for grouped listings.
type CirculationEntryRow struct {
	CirculationID  uuid.UUID            `json:"circulation_id"`
	Type           enum.CirculationType `json:"type"`
	DocumentNo     string               `json:"document_no"`
	Date           time.Time            `json:"date"`
	MemberUsername string               `json:"member_username"`
	MemberName     string               `json:"member_name"`
	BookID         uuid.UUID            `json:"book_id"`
	BookName       string               `json:"book_name"`
	AccessionNo    string               `json:"accession_no"`
}
