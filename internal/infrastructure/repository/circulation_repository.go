package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type circulationRepository struct {
	db *gorm.DB
}

// NewCirculationRepository creates a new circulation repository
func NewCirculationRepository(db *gorm.DB) domainRepo.CirculationRepository {
	return &circulationRepository{db: db}
}

func entryCopyIDs(entries []entity.CirculationEntry) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BookCopyID)
	}
	return ids
}

func insertCirculation(tx *gorm.DB, c *entity.Circulation) error {
	if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
		return err
	}
	if len(c.Entries) == 0 {
		return nil
	}
	for i := range c.Entries {
		c.Entries[i].CirculationID = c.ID
	}
	return tx.Omit(clause.Associations).Create(&c.Entries).Error
}

func (r *circulationRepository) CreateIssue(ctx context.Context, c *entity.Circulation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertCirculation(tx, c); err != nil {
			return err
		}
		return moveCopies(tx, entryCopyIDs(c.Entries),
			"status = ?", []interface{}{enum.CopyStatusAvailable},
			map[string]interface{}{"status": enum.CopyStatusIssued, "issued_to_id": c.MemberID})
	})
}

func (r *circulationRepository) CreateReturn(ctx context.Context, c *entity.Circulation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertCirculation(tx, c); err != nil {
			return err
		}
		return moveCopies(tx, entryCopyIDs(c.Entries),
			"status = ? AND issued_to_id = ?", []interface{}{enum.CopyStatusIssued, c.MemberID},
			map[string]interface{}{"status": enum.CopyStatusAvailable, "issued_to_id": nil})
	})
}

func (r *circulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c entity.Circulation
		if err := tx.Preload("Entries").First(&c, "id = ?", id).Error; err != nil {
			return err
		}

		ids := entryCopyIDs(c.Entries)
		if len(ids) > 0 {
			query := tx.Model(&entity.BookCopy{}).Where("id IN ?", ids)
			var err error
			switch c.Type {
			case enum.CirculationTypeIssue:
				err = query.Where("status = ? AND issued_to_id = ?", enum.CopyStatusIssued, c.MemberID).
					Updates(map[string]interface{}{"status": enum.CopyStatusAvailable, "issued_to_id": nil}).Error
			case enum.CirculationTypeReturn:
				err = query.Where("status = ?", enum.CopyStatusAvailable).
					Updates(map[string]interface{}{"status": enum.CopyStatusIssued, "issued_to_id": c.MemberID}).Error
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Where("circulation_id = ?", id).Delete(&entity.CirculationEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Circulation{}, "id = ?", id).Error
	})
}

func (r *circulationRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Member").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Entries.Book").
		Preload("Entries.BookCopy", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}

func (r *circulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Circulation, error) {
	var c entity.Circulation
	err := r.preload(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *circulationRepository) GetByDocumentNo(ctx context.Context, circulationType enum.CirculationType, documentNo string) (*entity.Circulation, error) {
	var c entity.Circulation
	err := r.preload(r.db.WithContext(ctx)).
		First(&c, "type = ? AND document_no = ?", circulationType, documentNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *circulationRepository) LastDocumentNo(ctx context.Context, circulationType enum.CirculationType) (string, error) {
	var c entity.Circulation
	err := r.db.WithContext(ctx).Unscoped().
		Where("type = ?", circulationType).
		Order("created_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return c.DocumentNo, err
}

func (r *circulationRepository) ListEntryRows(ctx context.Context, params *domainRepo.CirculationFilterParams) ([]domainRepo.CirculationEntryRow, error) {
	var rows []domainRepo.CirculationEntryRow

	query := r.db.WithContext(ctx).Table("circulation_entries ce").
		Select(`c.id AS circulation_id, c.type, c.document_no, c.date,
			m.username AS member_username, m.name AS member_name,
			ce.book_id, b.name AS book_name, bc.accession_no`).
		Joins("JOIN circulations c ON c.id = ce.circulation_id AND c.deleted_at IS NULL").
		Joins("JOIN members m ON m.id = c.member_id").
		Joins("JOIN books b ON b.id = ce.book_id").
		Joins("JOIN book_copies bc ON bc.id = ce.book_copy_id").
		Where("ce.deleted_at IS NULL")

	if params.Type != nil {
		query = query.Where("c.type = ?", *params.Type)
	}
	if params.MemberID != nil {
		query = query.Where("c.member_id = ?", *params.MemberID)
	}
	if params.Search != "" {
		query = query.Where("c.document_no ILIKE ? OR m.username ILIKE ? OR bc.accession_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.StartDate != nil {
		query = query.Where("c.date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("c.date <= ?", *params.EndDate)
	}

	err := query.Order("c.date DESC, c.created_at DESC, ce.created_at ASC").Scan(&rows).Error
	return rows, err
}
