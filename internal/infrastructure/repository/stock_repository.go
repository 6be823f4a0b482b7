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

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

// insertStock writes the header and its details without touching
// any preloaded relation.
func insertStock(tx *gorm.DB, stock *entity.Stock) error {
	if err := tx.Omit(clause.Associations).Create(stock).Error; err != nil {
		return err
	}
	if len(stock.Details) == 0 {
		return nil
	}
	for i := range stock.Details {
		stock.Details[i].StockID = stock.ID
	}
	return tx.Omit(clause.Associations).Create(&stock.Details).Error
}

// moveCopies updates every copy in ids that still matches where. If any
// copy no longer matches, the caller's transaction is rolled back.
func moveCopies(tx *gorm.DB, ids []uuid.UUID, where string, args []interface{}, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	result := tx.Model(&entity.BookCopy{}).
		Where("id IN ?", ids).
		Where(where, args...).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return domainRepo.ErrCopyStateChanged
	}
	return nil
}

func (r *stockRepository) CreatePurchase(ctx context.Context, stock *entity.Stock, copies []entity.BookCopy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertStock(tx, stock); err != nil {
			return err
		}
		return insertCopies(tx, stock.ID, copies)
	})
}

func insertCopies(tx *gorm.DB, purchaseID uuid.UUID, copies []entity.BookCopy) error {
	if len(copies) == 0 {
		return nil
	}
	for i := range copies {
		copies[i].PurchaseID = &purchaseID
	}
	return tx.Omit(clause.Associations).CreateInBatches(copies, 200).Error
}

// checkPurchaseShelved fails unless every copy of the purchase is Available.
func checkPurchaseShelved(tx *gorm.DB, purchaseID uuid.UUID) error {
	var moved int64
	err := tx.Model(&entity.BookCopy{}).
		Where("purchase_id = ? AND status <> ?", purchaseID, enum.CopyStatusAvailable).
		Count(&moved).Error
	if err != nil {
		return err
	}
	if moved > 0 {
		return domainRepo.ErrCopyStateChanged
	}
	return nil
}

// ReplacePurchase retires the old copies. Their accession numbers stay
// reserved by the soft-deleted rows, so the replacements need fresh ones.
func (r *stockRepository) ReplacePurchase(ctx context.Context, stock *entity.Stock, copies []entity.BookCopy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPurchaseShelved(tx, stock.ID); err != nil {
			return err
		}
		if err := tx.Where("purchase_id = ?", stock.ID).Delete(&entity.BookCopy{}).Error; err != nil {
			return err
		}
		if err := tx.Where("stock_id = ?", stock.ID).Delete(&entity.StockDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(stock).Error; err != nil {
			return err
		}
		for i := range stock.Details {
			stock.Details[i].ID = uuid.Nil
			stock.Details[i].StockID = stock.ID
		}
		if len(stock.Details) > 0 {
			if err := tx.Omit(clause.Associations).Create(&stock.Details).Error; err != nil {
				return err
			}
		}
		return insertCopies(tx, stock.ID, copies)
	})
}

func (r *stockRepository) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPurchaseShelved(tx, id); err != nil {
			return err
		}
		if err := tx.Where("purchase_id = ?", id).Delete(&entity.BookCopy{}).Error; err != nil {
			return err
		}
		return deleteStock(tx, id)
	})
}

func deleteStock(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("stock_id = ?", id).Delete(&entity.StockDetail{}).Error; err != nil {
		return err
	}
	return tx.Delete(&entity.Stock{}, "id = ?", id).Error
}

func scrapCopyIDs(details []entity.StockDetail) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(details))
	for _, d := range details {
		if d.BookCopyID != nil {
			ids = append(ids, *d.BookCopyID)
		}
	}
	return ids
}

func (r *stockRepository) CreateScrap(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertStock(tx, stock); err != nil {
			return err
		}
		return moveCopies(tx, scrapCopyIDs(stock.Details),
			"status = ?", []interface{}{enum.CopyStatusAvailable},
			map[string]interface{}{"status": enum.CopyStatusScrapped})
	})
}

// DeleteScrap puts back only the copies that are still Scrapped.
func (r *stockRepository) DeleteScrap(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var details []entity.StockDetail
		if err := tx.Where("stock_id = ?", id).Find(&details).Error; err != nil {
			return err
		}
		if ids := scrapCopyIDs(details); len(ids) > 0 {
			err := tx.Model(&entity.BookCopy{}).
				Where("id IN ? AND status = ?", ids, enum.CopyStatusScrapped).
				Update("status", enum.CopyStatusAvailable).Error
			if err != nil {
				return err
			}
		}
		return deleteStock(tx, id)
	})
}

func (r *stockRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Ledger").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Details.Book").
		Preload("Details.BookCopy", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}

func (r *stockRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.preload(r.db.WithContext(ctx)).First(&stock, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stock, err
}

func (r *stockRepository) GetByInvoiceNo(ctx context.Context, stockType enum.StockType, invoiceNo string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.preload(r.db.WithContext(ctx)).
		First(&stock, "type = ? AND invoice_no = ?", stockType, invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stock, err
}

func (r *stockRepository) LastInvoiceNo(ctx context.Context, stockType enum.StockType) (string, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).Unscoped().
		Where("type = ?", stockType).
		Order("created_at DESC").
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return stock.InvoiceNo, err
}

// filterStocks applies the shared filters against the stocks table alias.
func filterStocks(query *gorm.DB, params *domainRepo.StockFilterParams, alias string) *gorm.DB {
	query = query.Where(alias+".type = ?", params.Type)

	if params.Search != "" {
		query = query.Where(alias+".invoice_no ILIKE ? OR "+alias+".ledger_id IN (SELECT id FROM ledgers WHERE name ILIKE ?)",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.LedgerID != nil {
		query = query.Where(alias+".ledger_id = ?", *params.LedgerID)
	}
	if params.StartDate != nil {
		query = query.Where(alias+".invoice_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where(alias+".invoice_date <= ?", *params.EndDate)
	}
	return query
}

func (r *stockRepository) List(ctx context.Context, params *domainRepo.StockFilterParams) ([]entity.Stock, int64, error) {
	var stocks []entity.Stock
	var total int64

	query := filterStocks(r.db.WithContext(ctx).Model(&entity.Stock{}), params, "stocks")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Ledger").
		Order("invoice_date DESC, created_at DESC").
		Find(&stocks).Error

	return stocks, total, err
}

func (r *stockRepository) ListDetailRows(ctx context.Context, params *domainRepo.StockFilterParams) ([]domainRepo.StockDetailRow, error) {
	var rows []domainRepo.StockDetailRow

	query := r.db.WithContext(ctx).Table("stock_details sd").
		Select(`s.id AS stock_id, s.invoice_no, s.invoice_date, l.name AS ledger_name,
			s.grand_total, sd.id AS detail_id, sd.book_id, b.name AS book_name,
			bc.accession_no, sd.quantity, sd.rate, sd.amount`).
		Joins("JOIN stocks s ON s.id = sd.stock_id AND s.deleted_at IS NULL").
		Joins("JOIN books b ON b.id = sd.book_id").
		Joins("LEFT JOIN ledgers l ON l.id = s.ledger_id").
		Joins("LEFT JOIN book_copies bc ON bc.id = sd.book_copy_id").
		Where("sd.deleted_at IS NULL")

	err := filterStocks(query, params, "s").
		Order("s.invoice_date DESC, s.created_at DESC, sd.created_at ASC").
		Scan(&rows).Error

	return rows, err
}
