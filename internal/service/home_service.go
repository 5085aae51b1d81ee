package service

import (
	"context"

	"typoteka/internal/cache"
	"typoteka/internal/models"
	"typoteka/internal/observability"
	"typoteka/internal/ranking"
	"typoteka/internal/repository"
)

// HomeService builds the home page blocks.
type HomeService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	cache    *cache.Cache
}

func NewHomeService(
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	c *cache.Cache,
) *HomeService {
	return &HomeService{articles: articles, comments: comments, cache: c}
}

// BestCommented ranks every article by comment count, bypassing the cache.
func (s *HomeService) BestCommented(ctx context.Context) (articles []*models.Article, err error) {
	ctx, span := observability.StartSpan(ctx, "ranking.best_commented")
	defer func() { observability.EndSpan(span, err) }()

	all, err := s.articles.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	return ranking.BestCommented(all, ranking.MaxElementsPerBlock), nil
}

func (s *HomeService) Feed(ctx context.Context) (*models.HomeFeed, error) {
	return cache.Aside(ctx, s.cache, cache.HomeFeedKey, cache.HomeFeedTTL, func(ctx context.Context) (*models.HomeFeed, error) {
		best, err := s.BestCommented(ctx)
		if err != nil {
			return nil, err
		}
		comments, err := s.comments.FindAllComments(ctx)
		if err != nil {
			return nil, err
		}
		return &models.HomeFeed{
			BestCommentedArticles: best,
			LastComments:          ranking.LastComments(comments, ranking.MaxElementsPerBlock),
		}, nil
	})
}
