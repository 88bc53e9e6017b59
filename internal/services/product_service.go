// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackmarket/sm-backend/internal/cache"
	"github.com/stackmarket/sm-backend/internal/models"
	"github.com/stackmarket/sm-backend/internal/utils"
)

type ProductService struct {
	db    *gorm.DB
	cache *cache.Cache
}

type CreateProductRequest struct {
	Name               string                 `json:"name" validate:"required,min=3,max=255"`
	ShortDescription   string                 `json:"short_description" validate:"required,max=500"`
	LongDescription    string                 `json:"long_description,omitempty"`
	CategoryID         uuid.UUID              `json:"category_id" validate:"required"`
	PriceCents         int64                  `json:"price_cents" validate:"required,min=1"`
	DeploymentType     models.DeploymentType  `json:"deployment_type,omitempty"`
	ImplementationDays *int                   `json:"implementation_days,omitempty"`
	AccessDepth        string                 `json:"access_depth,omitempty"`
	ROIPercent         *float64               `json:"roi_percent,omitempty"`
	RetentionRate      *float64               `json:"retention_rate,omitempty"`
	QoQGrowth          *float64               `json:"qoq_growth,omitempty"`
	DemoURL            string                 `json:"demo_url,omitempty"`
}

type UpdateProductRequest struct {
	Name               string                `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	ShortDescription   string                `json:"short_description,omitempty" validate:"omitempty,max=500"`
	LongDescription    *string               `json:"long_description,omitempty"`
	PriceCents         int64                 `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	DeploymentType     models.DeploymentType `json:"deployment_type,omitempty"`
	ImplementationDays *int                  `json:"implementation_days,omitempty"`
	AccessDepth        *string               `json:"access_depth,omitempty"`
	ROIPercent         *float64              `json:"roi_percent,omitempty"`
	RetentionRate      *float64              `json:"retention_rate,omitempty"`
	QoQGrowth          *float64              `json:"qoq_growth,omitempty"`
	DemoURL            *string               `json:"demo_url,omitempty"`
	Status             models.ProductStatus  `json:"status,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID       *uuid.UUID             `json:"seller_id,omitempty"`
	CategoryID     *uuid.UUID             `json:"category_id,omitempty"`
	Status         *models.ProductStatus  `json:"status,omitempty"`
	DeploymentType *models.DeploymentType `json:"deployment_type,omitempty"`
	PriceMinCents  *int64                 `json:"price_min_cents,omitempty"`
	PriceMaxCents  *int64                 `json:"price_max_cents,omitempty"`
}

func NewProductService(db *gorm.DB, c *cache.Cache) *ProductService {
	return &ProductService{
		db:    db,
		cache: c,
	}
}

func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var seller models.User
	if err := s.db.First(&seller, sellerID).Error; err != nil {
		return nil, fmt.Errorf("seller not found: %w", err)
	}
	if seller.Status != models.UserStatusActive {
		return nil, errors.New("seller account is not active")
	}
	if seller.UserType != models.UserTypeSeller {
		return nil, errors.New("only sellers can create products")
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &models.Product{
		SellerID:           sellerID,
		CategoryID:         req.CategoryID,
		Name:               req.Name,
		ShortDescription:   req.ShortDescription,
		LongDescription:    req.LongDescription,
		PriceCents:         req.PriceCents,
		DeploymentType:     req.DeploymentType,
		ImplementationDays: req.ImplementationDays,
		AccessDepth:        req.AccessDepth,
		ROIPercent:         req.ROIPercent,
		RetentionRate:      req.RetentionRate,
		QoQGrowth:          req.QoQGrowth,
		DemoURL:            req.DemoURL,
		Status:             models.ProductStatusDraft,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Seller").Preload("Category").First(product, product.ID)
	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID, userID *uuid.UUID) (*models.Product, error) {
	var product models.Product
	query := s.db.Preload("Seller").Preload("Category").Preload("Features").Preload("Score")

	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Non-published products are only visible to their seller and admins.
	if product.Status != models.ProductStatusPublished {
		if userID == nil {
			return nil, errors.New("product not found")
		}
		if *userID != product.SellerID {
			var user models.User
			if err := s.db.First(&user, *userID).Error; err != nil || user.UserType != models.UserTypeAdmin {
				return nil, errors.New("product not found")
			}
		}
	}

	if userID == nil || *userID != product.SellerID {
		go s.incrementViewCount(id)
	}

	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, sellerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, errors.New("unauthorized to update this product")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ShortDescription != "" {
		updates["short_description"] = req.ShortDescription
	}
	if req.LongDescription != nil {
		updates["long_description"] = *req.LongDescription
	}
	if req.PriceCents > 0 {
		updates["price_cents"] = req.PriceCents
	}
	if req.DeploymentType != "" {
		updates["deployment_type"] = req.DeploymentType
	}
	if req.ImplementationDays != nil {
		updates["implementation_days"] = *req.ImplementationDays
	}
	if req.AccessDepth != nil {
		updates["access_depth"] = *req.AccessDepth
	}
	if req.ROIPercent != nil {
		updates["roi_percent"] = *req.ROIPercent
	}
	if req.RetentionRate != nil {
		updates["retention_rate"] = *req.RetentionRate
	}
	if req.QoQGrowth != nil {
		updates["qoq_growth"] = *req.QoQGrowth
	}
	if req.DemoURL != nil {
		updates["demo_url"] = *req.DemoURL
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateHotLists()
	s.db.Preload("Seller").Preload("Category").Preload("Features").First(&product, id)
	return &product, nil
}

// ArchiveProduct soft-deletes via status so order history keeps a valid
// product reference. Rows are never hard-deleted.
func (s *ProductService) ArchiveProduct(id uuid.UUID, sellerID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return errors.New("unauthorized to archive this product")
	}

	if err := s.db.Model(&product).Update("status", models.ProductStatusArchived).Error; err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}

	s.invalidateHotLists()
	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Seller").Preload("Category").Preload("Score")

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		query = query.Where("status = ?", models.ProductStatusPublished)
	}
	if params.DeploymentType != nil {
		query = query.Where("deployment_type = ?", *params.DeploymentType)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(short_description) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceMinCents != nil {
		query = query.Where("price_cents >= ?", *params.PriceMinCents)
	}
	if params.PriceMaxCents != nil {
		query = query.Where("price_cents <= ?", *params.PriceMaxCents)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price_cents", "sales_count", "rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GetFeaturedProducts serves the best-rated published products through the
// hot-list cache.
func (s *ProductService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	key := fmt.Sprintf("products:featured:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Product), nil
	}

	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusPublished).
		Order("rating DESC, sales_count DESC, view_count DESC").
		Limit(limit).
		Preload("Seller").Preload("Category").Preload("Score").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	s.cache.Set(key, products)
	return products, nil
}

// GetNewProducts serves the latest published products through the hot-list
// cache.
func (s *ProductService) GetNewProducts(limit int) ([]models.Product, error) {
	key := fmt.Sprintf("products:new:%d", limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Product), nil
	}

	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Preload("Seller").Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch new products: %w", err)
	}

	s.cache.Set(key, products)
	return products, nil
}

func (s *ProductService) GetSellerProducts(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID).
		Preload("Category").Preload("Score")

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(short_description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "status", "sales_count"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// HasPaidOrder reports whether the buyer has a paid order containing the
// product. Download access is gated on this.
func (s *ProductService) HasPaidOrder(productID, buyerID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.buyer_id = ? AND orders.status = ?",
			productID, buyerID, models.OrderStatusPaid).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return count > 0, nil
}

// Helper methods

func (s *ProductService) incrementViewCount(productID uuid.UUID) {
	s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}

func (s *ProductService) invalidateHotLists() {
	s.cache.Flush()
}
