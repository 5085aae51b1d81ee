package service

import (
	"context"

	"typoteka/internal/cache"
	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"
)

// MsgCategoryInUse is the FORBIDDEN message of a guarded category delete.
const MsgCategoryInUse = "Category has related articles and cannot be removed"

type CategoryService struct {
	categories repository.CategoryRepository
	articles   repository.ArticleRepository
	cache      *cache.Cache
}

func NewCategoryService(
	categories repository.CategoryRepository,
	articles repository.ArticleRepository,
	c *cache.Cache,
) *CategoryService {
	return &CategoryService{categories: categories, articles: articles, cache: c}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categories.FindAll(ctx)
}

// ListWithCounts includes categories without articles.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	return cache.Aside(ctx, s.cache, cache.CategoryCountsKey, cache.CategoryCountsTTL, s.categories.FindAllWithCounts)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.NewNotFoundError("Category", id)
	}
	return category, nil
}

// Page lists one page of the category's articles, newest first.
func (s *CategoryService) Page(ctx context.Context, id uint, limit, offset int) (*models.CategoryArticles, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids, err := s.categories.ArticleIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = ArticlesPerPage
	}
	if offset < 0 {
		offset = 0
	}
	page, err := s.articles.FindPage(ctx, repository.PageQuery{
		Limit:      limit,
		Offset:     offset,
		ArticleIDs: ids,
	})
	if err != nil {
		return nil, err
	}
	return &models.CategoryArticles{
		Category:           category,
		Count:              page.Count,
		ArticlesByCategory: page.Articles,
	}, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	if err := validation.ValidateCategory(name); err != nil {
		return nil, err
	}
	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CategoryWriteKeys()...)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name string) (*models.Category, error) {
	if err := validation.ValidateCategory(name); err != nil {
		return nil, err
	}
	found, err := s.categories.Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewNotFoundError("Category", id)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete refuses to remove a category that still has articles. The count and
// the delete are separate statements, so a concurrent article create can slip
// between them.
func (s *CategoryService) Delete(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.categories.ArticleCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewForbiddenError(MsgCategoryInUse)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, models.NewNotFoundError("Category", id)
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.CategoryWriteKeys()...)
	s.cache.InvalidatePrefix(ctx, cache.ArticleKeyPrefix)
}
