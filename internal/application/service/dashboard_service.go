package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	dashboardDays     = 7
	dashboardTopBooks = 5
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalBooks        int64             `json:"total_books"`
	TotalCopies       int64             `json:"total_copies"`
	CopiesByStatus    map[string]int64  `json:"copies_by_status"`
	TotalMembers      int64             `json:"total_members"`
	TotalLedgers      int64             `json:"total_ledgers"`
	TotalPurchases    int64             `json:"total_purchases"`
	PurchaseTotal     decimal.Decimal   `json:"purchase_total"`
	TotalScraps       int64             `json:"total_scraps"`
	ScrapTotal        decimal.Decimal   `json:"scrap_total"`
	DailyPurchaseData []DailyStockPoint `json:"daily_purchase_data"`
	TopIssuedBooks    []TopBookPoint    `json:"top_issued_books"`
}

// DailyStockPoint represents one day of purchase totals
type DailyStockPoint struct {
	Date       string          `json:"date"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Count      int64           `json:"count"`
}

// TopBookPoint represents a frequently issued book
type TopBookPoint struct {
	BookID     uuid.UUID `json:"book_id"`
	BookName   string    `json:"book_name"`
	IssueCount int64     `json:"issue_count"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.analyticsRepo.GetEntityCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	stats := &DashboardStats{
		TotalBooks:     counts.Books,
		TotalMembers:   counts.Members,
		TotalLedgers:   counts.Ledgers,
		CopiesByStatus: make(map[string]int64),
	}
	for _, status := range enum.CopyStatuses() {
		stats.CopiesByStatus[status.String()] = 0
	}

	statusCounts, err := s.analyticsRepo.GetCopyStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count copies: %w", err)
	}
	for _, sc := range statusCounts {
		stats.CopiesByStatus[sc.Status.String()] = sc.Count
		stats.TotalCopies += sc.Count
	}

	purchases, err := s.analyticsRepo.GetStockTotals(ctx, enum.StockTypePurchase)
	if err != nil {
		return nil, fmt.Errorf("failed to total purchases: %w", err)
	}
	stats.TotalPurchases = purchases.Count
	stats.PurchaseTotal = purchases.GrandTotal

	scraps, err := s.analyticsRepo.GetStockTotals(ctx, enum.StockTypeScrap)
	if err != nil {
		return nil, fmt.Errorf("failed to total scraps: %w", err)
	}
	stats.TotalScraps = scraps.Count
	stats.ScrapTotal = scraps.GrandTotal

	daily, err := s.analyticsRepo.GetDailyStock(ctx, enum.StockTypePurchase, dashboardDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily purchases: %w", err)
	}
	stats.DailyPurchaseData = make([]DailyStockPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailyPurchaseData = append(stats.DailyPurchaseData, DailyStockPoint{
			Date:       d.Date.Format("Jan 02"),
			GrandTotal: d.GrandTotal,
			Count:      d.Count,
		})
	}

	top, err := s.analyticsRepo.GetTopIssuedBooks(ctx, dashboardTopBooks)
	if err != nil {
		return nil, fmt.Errorf("failed to rank books: %w", err)
	}
	stats.TopIssuedBooks = make([]TopBookPoint, 0, len(top))
	for _, b := range top {
		stats.TopIssuedBooks = append(stats.TopIssuedBooks, TopBookPoint(b))
	}

	return stats, nil
}
