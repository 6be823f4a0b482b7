package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// EntityCounts holds the headline catalogue counts.
type EntityCounts struct {
	Books   int64
	Members int64
	Ledgers int64
}

// CopyStatusCount is the number of copies in one status.
type CopyStatusCount struct {
	Status enum.CopyStatus
	Count  int64
}

// StockTotals aggregates invoices of one stock type.
type StockTotals struct {
	Count      int64
	GrandTotal decimal.Decimal
}

// DailyStockResult is the grand-total sum of one day's invoices.
type DailyStockResult struct {
	Date       time.Time
	GrandTotal decimal.Decimal
	Count      int64
}

// TopBookResult is a book ranked by how often it was issued.
type TopBookResult struct {
	BookID     uuid.UUID
	BookName   string
	IssueCount int64
}

// AnalyticsRepository defines interface for dashboard aggregation queries
type AnalyticsRepository interface {
	GetEntityCounts(ctx context.Context) (*EntityCounts, error)
	GetCopyStatusCounts(ctx context.Context) ([]CopyStatusCount, error)
	GetStockTotals(ctx context.Context, stockType enum.StockType) (*StockTotals, error)
	// GetDailyStock returns per-day totals for the last N days, oldest first.
	GetDailyStock(ctx context.Context, stockType enum.StockType, days int) ([]DailyStockResult, error)
	// GetTopIssuedBooks returns the most issued books
	GetTopIssuedBooks(ctx context.Context, limit int) ([]TopBookResult, error)
}
