// Package service holds business rules on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"typoteka/internal/cache"
	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"
)

// ArticlesPerPage is the page size used when a listing gives no limit.
const ArticlesPerPage = 8

type ArticleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	cache      *cache.Cache
}

// ArticleInput is a full article payload for create.
type ArticleInput struct {
	Title      string
	Announce   string
	FullText   string
	Photo      *string
	Categories []int
	UserID     *uint
}

// ArticleUpdate carries the fields to change; nil means keep the stored value.
type ArticleUpdate struct {
	Title      *string
	Announce   *string
	FullText   *string
	Photo      *string
	Categories []int
}

func NewArticleService(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	c *cache.Cache,
) *ArticleService {
	return &ArticleService{articles: articles, categories: categories, cache: c}
}

func (s *ArticleService) List(ctx context.Context, includeComments bool) ([]*models.Article, error) {
	return s.articles.FindAll(ctx, includeComments)
}

func (s *ArticleService) Page(ctx context.Context, q repository.PageQuery) (*models.ArticlePage, error) {
	if q.Limit <= 0 {
		q.Limit = ArticlesPerPage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.articles.FindPage(ctx, q)
}

// Get returns the article or a NOT_FOUND AppError. The variant with comments
// is served through the cache.
func (s *ArticleService) Get(ctx context.Context, id uint, includeComments bool) (*models.Article, error) {
	load := func(ctx context.Context) (*models.Article, error) {
		article, err := s.articles.FindOne(ctx, id, includeComments)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, models.NewNotFoundError("Article", id)
		}
		return article, nil
	}
	if !includeComments {
		return load(ctx)
	}
	return cache.Aside(ctx, s.cache, cache.ArticleKey(id), cache.ArticleTTL, load)
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	if err := s.validate(ctx, validation.Article{
		Title:      in.Title,
		Announce:   in.Announce,
		FullText:   in.FullText,
		Photo:      in.Photo,
		Categories: in.Categories,
	}); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    in.Title,
		Announce: in.Announce,
		FullText: in.FullText,
		Photo:    in.Photo,
		UserID:   in.UserID,
	}
	if err := s.articles.Create(ctx, article, toIDs(in.Categories)); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ArticleWriteKeys(article.ID)...)

	return s.Get(ctx, article.ID, false)
}

// Update merges upd over the stored article and validates the result as a whole.
func (s *ArticleService) Update(ctx context.Context, id uint, upd ArticleUpdate) (*models.Article, error) {
	current, err := s.articles.FindOne(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, models.NewNotFoundError("Article", id)
	}

	merged := validation.Article{
		Title:      pick(upd.Title, current.Title),
		Announce:   pick(upd.Announce, current.Announce),
		FullText:   pick(upd.FullText, current.FullText),
		Photo:      current.Photo,
		Categories: upd.Categories,
	}
	if upd.Photo != nil {
		merged.Photo = upd.Photo
	}
	if upd.Categories == nil {
		for _, c := range current.Categories {
			merged.Categories = append(merged.Categories, int(c.ID))
		}
	}
	if err := s.validate(ctx, merged); err != nil {
		return nil, err
	}

	current.Title = merged.Title
	current.Announce = merged.Announce
	current.FullText = merged.FullText
	current.Photo = merged.Photo

	var categoryIDs []uint
	if upd.Categories != nil {
		categoryIDs = toIDs(upd.Categories)
	}
	found, err := s.articles.Update(ctx, current, categoryIDs)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewNotFoundError("Article", id)
	}
	s.cache.Invalidate(ctx, cache.ArticleWriteKeys(id)...)

	return s.Get(ctx, id, false)
}

// Delete removes the article with its comments and returns what was removed.
func (s *ArticleService) Delete(ctx context.Context, id uint) (*models.Article, error) {
	deleted, err := s.articles.Delete(ctx, id)
	if errors.Is(err, repository.ErrCommentsPartiallyDeleted) {
		return nil, models.NewNotFoundMessage("Some comments not found")
	}
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, models.NewNotFoundError("Article", id)
	}
	s.cache.Invalidate(ctx, cache.ArticleWriteKeys(id)...)
	return deleted, nil
}

func (s *ArticleService) Search(ctx context.Context, query string) ([]*models.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError(validation.MsgQueryRequired)
	}
	return s.articles.Search(ctx, strings.TrimSpace(query))
}

// validate runs the payload rules, then checks that every category exists.
func (s *ArticleService) validate(ctx context.Context, a validation.Article) error {
	if err := validation.ValidateArticle(a); err != nil {
		return err
	}
	ids := toIDs(a.Categories)
	existing, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if existing != int64(len(distinct(ids))) {
		return models.NewValidationError(validation.MsgCategoryUnknown)
	}
	return nil
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func toIDs(in []int) []uint {
	out := make([]uint, 0, len(in))
	for _, id := range in {
		if id > 0 {
			out = append(out, uint(id))
		}
	}
	return out
}

func distinct(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
