package service

import (
	"context"

	"typoteka/internal/cache"
	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"
)

type CommentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	cache    *cache.Cache
}

type CreateCommentInput struct {
	ArticleID uint
	UserID    *uint
	Text      string
}

func NewCommentService(
	comments repository.CommentRepository,
	articles repository.ArticleRepository,
	c *cache.Cache,
) *CommentService {
	return &CommentService{comments: comments, articles: articles, cache: c}
}

func (s *CommentService) requireArticle(ctx context.Context, articleID uint) error {
	article, err := s.articles.FindOne(ctx, articleID, false)
	if err != nil {
		return err
	}
	if article == nil {
		return models.NewNotFoundError("Article", articleID)
	}
	return nil
}

// ListByArticle returns the comments of one article, newest first.
func (s *CommentService) ListByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.FindAll(ctx, articleID)
}

// ListAll returns every comment with a trimmed view of its article.
func (s *CommentService) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return s.comments.FindAllComments(ctx)
}

func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := s.requireArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	if err := validation.ValidateComment(in.Text); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:      in.Text,
		UserID:    in.UserID,
		ArticleID: in.ArticleID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.CommentWriteKeys(in.ArticleID)...)
	return comment, nil
}

// Delete removes a comment that belongs to the given article.
func (s *CommentService) Delete(ctx context.Context, articleID, commentID uint) (*models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comment, err := s.comments.FindOne(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.ArticleID != articleID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}

	deleted, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	s.cache.Invalidate(ctx, cache.CommentWriteKeys(articleID)...)
	return comment, nil
}
