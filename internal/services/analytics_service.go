// internal/services/analytics_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/models"
)

type AnalyticsService struct {
	db *gorm.DB
}

type SellerDashboardStats struct {
	TotalProducts     int64   `json:"total_products"`
	PublishedProducts int64   `json:"published_products"`
	TotalSales        int64   `json:"total_sales"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	MonthlyRevenue    int64   `json:"monthly_revenue_cents"`
	RevenueGrowth     float64 `json:"revenue_growth"`
	TotalViews        int64   `json:"total_views"`
	AverageRating     float64 `json:"average_rating"`
	PendingQuotes     int64   `json:"pending_quotes"`
	AcceptedQuotes    int64   `json:"accepted_quotes"`
	ActiveBundles     int64   `json:"active_bundles"`
}

type PlatformStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalProducts     int64   `json:"total_products"`
	TotalOrders       int64   `json:"total_orders"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	MonthlyRevenue    int64   `json:"monthly_revenue_cents"`
	UserGrowth        float64 `json:"user_growth"`
	RevenueGrowth     float64 `json:"revenue_growth"`
}

type ProductPerformance struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Views        int64     `json:"views"`
	Sales        int64     `json:"sales"`
	RevenueCents int64     `json:"revenue_cents"`
	Rating       float64   `json:"rating"`
	ReviewCount  int64     `json:"review_count"`
	OverallScore *int      `json:"overall_score,omitempty"`
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// GetSellerDashboard aggregates the seller's catalog, revenue, and quote
// pipeline into one stats payload.
func (s *AnalyticsService) GetSellerDashboard(sellerID uuid.UUID) (*SellerDashboardStats, error) {
	stats := &SellerDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// Catalog statistics
	s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&stats.TotalProducts)
	s.db.Model(&models.Product{}).
		Where("seller_id = ? AND status = ?", sellerID, models.ProductStatusPublished).
		Count(&stats.PublishedProducts)

	s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID).
		Select("COALESCE(SUM(view_count), 0)").Scan(&stats.TotalViews)
	s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID).
		Select("COALESCE(SUM(sales_count), 0)").Scan(&stats.TotalSales)
	s.db.Model(&models.Product{}).
		Where("seller_id = ? AND review_count > 0", sellerID).
		Select("COALESCE(AVG(rating), 0)").Scan(&stats.AverageRating)

	// Revenue from paid order lines
	stats.TotalRevenueCents = s.sellerRevenueBetween(sellerID, time.Time{}, now)
	stats.MonthlyRevenue = s.sellerRevenueBetween(sellerID, monthStart, now)
	lastMonthRevenue := s.sellerRevenueBetween(sellerID, lastMonthStart, monthStart)

	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = float64(stats.MonthlyRevenue-lastMonthRevenue) / float64(lastMonthRevenue) * 100
	}

	// Quote pipeline
	s.db.Model(&models.Quote{}).
		Joins("JOIN products ON products.id = quotes.product_id").
		Where("products.seller_id = ? AND quotes.status IN ?", sellerID,
			[]models.QuoteStatus{models.QuoteStatusPending, models.QuoteStatusSent}).
		Count(&stats.PendingQuotes)
	s.db.Model(&models.Quote{}).
		Joins("JOIN products ON products.id = quotes.product_id").
		Where("products.seller_id = ? AND quotes.status = ?", sellerID, models.QuoteStatusAccepted).
		Count(&stats.AcceptedQuotes)

	s.db.Model(&models.Bundle{}).
		Where("seller_id = ? AND status = ?", sellerID, models.BundleStatusActive).
		Count(&stats.ActiveBundles)

	return stats, nil
}

// GetProductPerformance lists per-product view, sales, and score figures for
// the seller's catalog.
func (s *AnalyticsService) GetProductPerformance(sellerID uuid.UUID) ([]ProductPerformance, error) {
	var products []models.Product
	if err := s.db.Where("seller_id = ?", sellerID).
		Preload("Score").
		Order("sales_count DESC, view_count DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := make([]ProductPerformance, len(products))
	for i, p := range products {
		perf := ProductPerformance{
			ProductID:   p.ID,
			Name:        p.Name,
			Views:       p.ViewCount,
			Sales:       p.SalesCount,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
		}
		s.db.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.product_id = ? AND orders.status = ?", p.ID, models.OrderStatusPaid).
			Select("COALESCE(SUM(order_items.unit_price_cents * order_items.quantity), 0)").
			Scan(&perf.RevenueCents)
		if p.Score != nil {
			overall := p.Score.OverallScore
			perf.OverallScore = &overall
		}
		result[i] = perf
	}

	return result, nil
}

// GetPlatformStats aggregates marketplace-wide figures for the admin
// dashboard.
func (s *AnalyticsService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Product{}).
		Where("status = ?", models.ProductStatusPublished).
		Count(&stats.TotalProducts)
	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)

	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPaid).
		Select("COALESCE(SUM(total_cents), 0)").Scan(&stats.TotalRevenueCents)
	s.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ?", models.OrderStatusPaid, monthStart).
		Select("COALESCE(SUM(total_cents), 0)").Scan(&stats.MonthlyRevenue)

	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	var lastMonthRevenue int64
	s.db.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?",
			models.OrderStatusPaid, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total_cents), 0)").Scan(&lastMonthRevenue)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = float64(stats.MonthlyRevenue-lastMonthRevenue) / float64(lastMonthRevenue) * 100
	}

	return stats, nil
}

// Helper methods

func (s *AnalyticsService) sellerRevenueBetween(sellerID uuid.UUID, from, to time.Time) int64 {
	query := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, models.OrderStatusPaid)
	if !from.IsZero() {
		query = query.Where("orders.paid_at >= ?", from)
	}
	query = query.Where("orders.paid_at < ?", to)

	var revenue int64
	query.Select("COALESCE(SUM(order_items.unit_price_cents * order_items.quantity), 0)").Scan(&revenue)
	return revenue
}
