package repository

import (
	"context"
	"errors"
	"fmt"

	"typoteka/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindOne(ctx context.Context, id uint) (*models.Comment, error)
	FindAll(ctx context.Context, articleID uint) ([]*models.Comment, error)
	FindAllComments(ctx context.Context) ([]*models.Comment, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User", "Article").Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	if comment.UserID != nil {
		var author models.User
		if err := r.db.WithContext(ctx).First(&author, *comment.UserID).Error; err == nil {
			comment.User = &author
		}
	}
	return nil
}

func (r *commentRepository) FindOne(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment %d: %w", id, err)
	}
	return &comment, nil
}

func (r *commentRepository) FindAll(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("article_id = ?", articleID).
		Scopes(orderComments).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("find comments of article %d: %w", articleID, err)
	}
	return comments, nil
}

// FindAllComments lists every comment newest first, each joined with its
// author and a trimmed projection of its article.
func (r *commentRepository) FindAllComments(ctx context.Context) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Article", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "create_date")
		}).
		Scopes(orderComments).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("find all comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete comment %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
