package service

import (
	"context"
	"errors"
	"testing"

	"typoteka/internal/models"
	"typoteka/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	findAllFn  func(context.Context, bool) ([]*models.Article, error)
	findPageFn func(context.Context, repository.PageQuery) (*models.ArticlePage, error)
	findOneFn  func(context.Context, uint, bool) (*models.Article, error)
	createFn   func(context.Context, *models.Article, []uint) error
	updateFn   func(context.Context, *models.Article, []uint) (bool, error)
	deleteFn   func(context.Context, uint) (*models.Article, error)
	searchFn   func(context.Context, string) ([]*models.Article, error)
}

func (s *articleRepoStub) FindAll(ctx context.Context, includeComments bool) ([]*models.Article, error) {
	return s.findAllFn(ctx, includeComments)
}
func (s *articleRepoStub) FindPage(ctx context.Context, q repository.PageQuery) (*models.ArticlePage, error) {
	return s.findPageFn(ctx, q)
}
func (s *articleRepoStub) FindOne(ctx context.Context, id uint, includeComments bool) (*models.Article, error) {
	return s.findOneFn(ctx, id, includeComments)
}
func (s *articleRepoStub) Create(ctx context.Context, a *models.Article, categoryIDs []uint) error {
	return s.createFn(ctx, a, categoryIDs)
}
func (s *articleRepoStub) Update(ctx context.Context, a *models.Article, categoryIDs []uint) (bool, error) {
	return s.updateFn(ctx, a, categoryIDs)
}
func (s *articleRepoStub) Delete(ctx context.Context, id uint) (*models.Article, error) {
	return s.deleteFn(ctx, id)
}
func (s *articleRepoStub) Search(ctx context.Context, query string) ([]*models.Article, error) {
	return s.searchFn(ctx, query)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		findAllFn: func(_ context.Context, _ bool) ([]*models.Article, error) { return []*models.Article{}, nil },
		findPageFn: func(_ context.Context, _ repository.PageQuery) (*models.ArticlePage, error) {
			return &models.ArticlePage{Articles: []*models.Article{}}, nil
		},
		findOneFn: func(_ context.Context, id uint, _ bool) (*models.Article, error) { return &models.Article{ID: id}, nil },
		createFn:  func(_ context.Context, _ *models.Article, _ []uint) error { return nil },
		updateFn:  func(_ context.Context, _ *models.Article, _ []uint) (bool, error) { return true, nil },
		deleteFn:  func(_ context.Context, id uint) (*models.Article, error) { return &models.Article{ID: id}, nil },
		searchFn:  func(_ context.Context, _ string) ([]*models.Article, error) { return []*models.Article{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn          func(context.Context, *models.Comment) error
	findOneFn         func(context.Context, uint) (*models.Comment, error)
	findAllFn         func(context.Context, uint) ([]*models.Comment, error)
	findAllCommentsFn func(context.Context) ([]*models.Comment, error)
	deleteFn          func(context.Context, uint) (bool, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) FindOne(ctx context.Context, id uint) (*models.Comment, error) {
	return s.findOneFn(ctx, id)
}
func (s *commentRepoStub) FindAll(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	return s.findAllFn(ctx, articleID)
}
func (s *commentRepoStub) FindAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.findAllCommentsFn(ctx)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) (bool, error) {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:          func(_ context.Context, _ *models.Comment) error { return nil },
		findOneFn:         func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		findAllFn:         func(_ context.Context, _ uint) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		findAllCommentsFn: func(_ context.Context) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		deleteFn:          func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	findAllFn           func(context.Context) ([]*models.Category, error)
	findAllWithCountsFn func(context.Context) ([]models.CategoryWithCount, error)
	findOneFn           func(context.Context, uint) (*models.Category, error)
	createFn            func(context.Context, *models.Category) error
	updateFn            func(context.Context, uint, string) (bool, error)
	deleteFn            func(context.Context, uint) (bool, error)
	articleCountFn      func(context.Context, uint) (int64, error)
	articleIDsFn        func(context.Context, uint) ([]uint, error)
	countExistingFn     func(context.Context, []uint) (int64, error)
}

func (s *categoryRepoStub) FindAll(ctx context.Context) ([]*models.Category, error) {
	return s.findAllFn(ctx)
}
func (s *categoryRepoStub) FindAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	return s.findAllWithCountsFn(ctx)
}
func (s *categoryRepoStub) FindOne(ctx context.Context, id uint) (*models.Category, error) {
	return s.findOneFn(ctx, id)
}
func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) Update(ctx context.Context, id uint, name string) (bool, error) {
	return s.updateFn(ctx, id, name)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) (bool, error) {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) ArticleCount(ctx context.Context, id uint) (int64, error) {
	return s.articleCountFn(ctx, id)
}
func (s *categoryRepoStub) ArticleIDs(ctx context.Context, id uint) ([]uint, error) {
	return s.articleIDsFn(ctx, id)
}
func (s *categoryRepoStub) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	return s.countExistingFn(ctx, ids)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		findAllFn:           func(_ context.Context) ([]*models.Category, error) { return []*models.Category{}, nil },
		findAllWithCountsFn: func(_ context.Context) ([]models.CategoryWithCount, error) { return nil, nil },
		findOneFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Category"}, nil
		},
		createFn:       func(_ context.Context, _ *models.Category) error { return nil },
		updateFn:       func(_ context.Context, _ uint, _ string) (bool, error) { return true, nil },
		deleteFn:       func(_ context.Context, _ uint) (bool, error) { return true, nil },
		articleCountFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		articleIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return []uint{}, nil },
		countExistingFn: func(_ context.Context, ids []uint) (int64, error) {
			return int64(len(distinct(ids))), nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn      func(context.Context, *models.User) error
	findByEmailFn func(context.Context, string) (*models.User, error)
	findByIDFn    func(context.Context, uint) (*models.User, error)
	countFn       func(context.Context) (int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findByEmailFn(ctx, email)
}
func (s *userRepoStub) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findByIDFn(ctx, id)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:      func(_ context.Context, _ *models.User) error { return nil },
		findByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		findByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
		countFn:       func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
