package repository

import (
	"context"
	"errors"
	"fmt"

	"typoteka/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines interface for category operations
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*models.Category, error)
	FindAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
	FindOne(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uint, name string) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
	ArticleCount(ctx context.Context, id uint) (int64, error)
	ArticleIDs(ctx context.Context, id uint) ([]uint, error)
	CountExisting(ctx context.Context, ids []uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*models.Category, error) {
	categories := []*models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return categories, nil
}

// FindAllWithCounts includes categories with no articles, counted as zero.
func (r *categoryRepository) FindAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	counts := []models.CategoryWithCount{}
	err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, COUNT(DISTINCT article_categories.article_id) AS count").
		Joins("LEFT JOIN article_categories ON article_categories.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count category articles: %w", err)
	}
	return counts, nil
}

func (r *categoryRepository) FindOne(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id uint, name string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return false, fmt.Errorf("update category %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryRepository) ArticleCount(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("article_categories").
		Where("category_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count articles of category %d: %w", id, err)
	}
	return count, nil
}

func (r *categoryRepository) ArticleIDs(ctx context.Context, id uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Table("article_categories").
		Where("category_id = ?", id).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list articles of category %d: %w", id, err)
	}
	return ids, nil
}

// CountExisting reports how many of the distinct ids name a stored category.
func (r *categoryRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
