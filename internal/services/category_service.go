package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/Wahiduz89/spendsmart/internal/errors"
	"github.com/Wahiduz89/spendsmart/internal/models"
	"github.com/Wahiduz89/spendsmart/internal/pagination"
)

// defaultCategories is the static seed set provisioned for every new user.
var defaultCategories = []models.Category{
	{Name: "Groceries", Icon: "shopping-cart", Color: "#22c55e", IsDefault: true},
	{Name: "Food & Dining", Icon: "utensils", Color: "#f97316", IsDefault: true},
	{Name: "Transport", Icon: "car", Color: "#3b82f6", IsDefault: true},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#a855f7", IsDefault: true},
	{Name: "Entertainment", Icon: "film", Color: "#ec4899", IsDefault: true},
	{Name: "Bills & Utilities", Icon: "receipt", Color: "#eab308", IsDefault: true},
	{Name: "Healthcare", Icon: "heart-pulse", Color: "#ef4444", IsDefault: true},
	{Name: "Education", Icon: "graduation-cap", Color: "#14b8a6", IsDefault: true},
	{Name: "Travel", Icon: "plane", Color: "#06b6d4", IsDefault: true},
	{Name: "Other", Icon: "ellipsis", Color: "#6b7280", IsDefault: true},
}

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a custom category for the user.
func (s *categoryService) CreateCategory(userID uint, name, description, icon, color string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Description: description,
		Icon:        icon,
		Color:       color,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// SeedDefaultCategories provisions the default category set for a new user.
// Seeding is idempotent: users who already have default categories are left
// untouched.
func (s *categoryService) SeedDefaultCategories(userID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	categories := make([]models.Category, len(defaultCategories))
	copy(categories, defaultCategories)
	for i := range categories {
		categories[i].UserID = userID
	}

	if err := s.db.Create(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserCategories returns a paginated list of the user's categories.
func (s *categoryService) GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID returns a category by ID if it belongs to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates a category's fields.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, description, icon, color string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a category. Default categories and categories
// referenced by existing expenses cannot be deleted.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	if category.IsDefault {
		return apperrors.ErrDefaultCategory
	}

	var expenseCount int64
	if err := s.db.Model(&models.Expense{}).
		Where("category_id = ?", categoryID).
		Count(&expenseCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if expenseCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
