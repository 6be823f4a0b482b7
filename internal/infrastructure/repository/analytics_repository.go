package repository

import (
	"context"
	"time"

	"github.com/sangkips/library-api/internal/domain/enum"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetEntityCounts(ctx context.Context) (*domainRepo.EntityCounts, error) {
	var counts domainRepo.EntityCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM books WHERE deleted_at IS NULL) as books,
			(SELECT COUNT(*) FROM members WHERE deleted_at IS NULL) as members,
			(SELECT COUNT(*) FROM ledgers WHERE deleted_at IS NULL) as ledgers
	`).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *analyticsRepository) GetCopyStatusCounts(ctx context.Context) ([]domainRepo.CopyStatusCount, error) {
	var results []domainRepo.CopyStatusCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) as count
		FROM book_copies
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY status
	`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepository) GetStockTotals(ctx context.Context, stockType enum.StockType) (*domainRepo.StockTotals, error) {
	var totals domainRepo.StockTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) as count, COALESCE(SUM(grand_total), 0) as grand_total
		FROM stocks
		WHERE type = ? AND deleted_at IS NULL
	`, stockType).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *analyticsRepository) GetDailyStock(ctx context.Context, stockType enum.StockType, days int) ([]domainRepo.DailyStockResult, error) {
	results := make([]domainRepo.DailyStockResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and total each one
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		var row struct {
			GrandTotal decimal.Decimal
			Count      int64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(grand_total), 0) as grand_total, COUNT(*) as count
			FROM stocks
			WHERE type = ? AND deleted_at IS NULL AND invoice_date = ?
		`, stockType, day.Format("2006-01-02")).Scan(&row).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailyStockResult{
			Date:       day,
			GrandTotal: row.GrandTotal,
			Count:      row.Count,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTopIssuedBooks(ctx context.Context, limit int) ([]domainRepo.TopBookResult, error) {
	var results []domainRepo.TopBookResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			b.id as book_id,
			b.name as book_name,
			COUNT(ce.id) as issue_count
		FROM circulation_entries ce
		JOIN circulations c ON c.id = ce.circulation_id
		JOIN books b ON b.id = ce.book_id
		WHERE c.type = ? AND c.deleted_at IS NULL AND ce.deleted_at IS NULL
		GROUP BY b.id, b.name
		ORDER BY issue_count DESC, b.name ASC
		LIMIT ?
	`, enum.CirculationTypeIssue, limit).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
