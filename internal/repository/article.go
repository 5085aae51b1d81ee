// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"typoteka/internal/models"

	"gorm.io/gorm"
)

// ErrCommentsPartiallyDeleted means an article's comments could not all be
// removed, so the article delete was rolled back.
var ErrCommentsPartiallyDeleted = errors.New("some comments not found")

// PageQuery selects one page of articles.
type PageQuery struct {
	Limit           int
	Offset          int
	IncludeComments bool
	// ArticleIDs restricts the page to these articles when non-nil.
	ArticleIDs []uint
}

// ArticleRepository defines interface for article operations
type ArticleRepository interface {
	FindAll(ctx context.Context, includeComments bool) ([]*models.Article, error)
	FindPage(ctx context.Context, q PageQuery) (*models.ArticlePage, error)
	FindOne(ctx context.Context, id uint, includeComments bool) (*models.Article, error)
	Create(ctx context.Context, article *models.Article, categoryIDs []uint) error
	Update(ctx context.Context, article *models.Article, categoryIDs []uint) (bool, error)
	Delete(ctx context.Context, id uint) (*models.Article, error)
	Search(ctx context.Context, query string) ([]*models.Article, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func orderCategories(db *gorm.DB) *gorm.DB {
	return db.Order("categories.id")
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at DESC").Order("comments.id DESC")
}

// withRelations preloads categories and author, and comments when asked.
// Preloads run as batched IN queries so comments never multiply article rows.
func withRelations(db *gorm.DB, includeComments bool) *gorm.DB {
	db = db.Preload("Categories", orderCategories).Preload("User")
	if includeComments {
		db = db.Preload("Comments", orderComments).Preload("Comments.User")
	}
	return db
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("articles.create_date DESC").Order("articles.id DESC")
}

func (r *articleRepository) FindAll(ctx context.Context, includeComments bool) ([]*models.Article, error) {
	articles := []*models.Article{}
	err := withRelations(r.db.WithContext(ctx), includeComments).
		Scopes(newestFirst).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	return articles, nil
}

func (r *articleRepository) FindPage(ctx context.Context, q PageQuery) (*models.ArticlePage, error) {
	page := &models.ArticlePage{Articles: []*models.Article{}}
	if q.ArticleIDs != nil && len(q.ArticleIDs) == 0 {
		return page, nil
	}

	filter := func(db *gorm.DB) *gorm.DB {
		if q.ArticleIDs != nil {
			return db.Where("articles.id IN ?", q.ArticleIDs)
		}
		return db
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Article{}).Scopes(filter).Count(&page.Count).Error; err != nil {
			return err
		}
		return withRelations(tx, q.IncludeComments).
			Scopes(filter, newestFirst).
			Limit(q.Limit).
			Offset(q.Offset).
			Find(&page.Articles).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find article page: %w", err)
	}
	return page, nil
}

func (r *articleRepository) FindOne(ctx context.Context, id uint, includeComments bool) (*models.Article, error) {
	var article models.Article
	err := withRelations(r.db.WithContext(ctx), includeComments).First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article %d: %w", id, err)
	}
	return &article, nil
}

func linkCategories(tx *gorm.DB, articleID uint, categoryIDs []uint) error {
	for _, categoryID := range categoryIDs {
		if err := tx.Exec(
			"INSERT INTO article_categories (article_id, category_id) VALUES (?, ?)",
			articleID, categoryID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article, categoryIDs []uint) error {
	if article.CreateDate.IsZero() {
		article.CreateDate = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Comments", "User").Create(article).Error; err != nil {
			return err
		}
		return linkCategories(tx, article.ID, uniqueIDs(categoryIDs))
	})
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// Update writes the editable columns of article and, when categoryIDs is
// non-nil, replaces its category links. It reports whether the row existed.
func (r *articleRepository) Update(ctx context.Context, article *models.Article, categoryIDs []uint) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Article{}).Where("id = ?", article.ID).Updates(map[string]interface{}{
			"title":        article.Title,
			"title_search": models.SearchKey(article.Title),
			"announce":     article.Announce,
			"full_text":    article.FullText,
			"photo":        article.Photo,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true

		if categoryIDs == nil {
			return nil
		}
		if err := tx.Exec("DELETE FROM article_categories WHERE article_id = ?", article.ID).Error; err != nil {
			return err
		}
		return linkCategories(tx, article.ID, uniqueIDs(categoryIDs))
	})
	if err != nil {
		return false, fmt.Errorf("update article %d: %w", article.ID, err)
	}
	return found, nil
}

// Delete removes the article with its comments and category links in one
// transaction. It returns nil, nil when the article does not exist.
func (r *articleRepository) Delete(ctx context.Context, id uint) (*models.Article, error) {
	var deleted *models.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := withRelations(tx, false).First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var expected int64
		if err := tx.Model(&models.Comment{}).Where("article_id = ?", id).Count(&expected).Error; err != nil {
			return err
		}
		res := tx.Where("article_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != expected {
			return ErrCommentsPartiallyDeleted
		}

		if err := tx.Exec("DELETE FROM article_categories WHERE article_id = ?", id).Error; err != nil {
			return err
		}
		res = tx.Delete(&models.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			deleted = &article
		}
		return nil
	})
	if errors.Is(err, ErrCommentsPartiallyDeleted) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("delete article %d: %w", id, err)
	}
	return deleted, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *articleRepository) Search(ctx context.Context, query string) ([]*models.Article, error) {
	pattern := "%" + likeEscaper.Replace(models.SearchKey(query)) + "%"
	articles := []*models.Article{}
	err := withRelations(r.db.WithContext(ctx), false).
		Where(`articles.title_search LIKE ? ESCAPE '\'`, pattern).
		Scopes(newestFirst).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return articles, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
