package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/library-api/internal/domain/entity"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a PostgreSQL-backed sequence store
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) GetLast(ctx context.Context, kind string) (string, error) {
	var seq entity.DocumentSequence
	err := r.db.WithContext(ctx).First(&seq, "kind = ?", kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return seq.LastNumber, err
}

func (r *sequenceRepository) SetLast(ctx context.Context, kind, number string) error {
	seq := entity.DocumentSequence{Kind: kind, LastNumber: number, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_number", "updated_at"}),
	}).Create(&seq).Error
}
