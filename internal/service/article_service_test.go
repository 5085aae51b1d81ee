package service

import (
	"context"
	"strings"
	"testing"

	"typoteka/internal/cache"
	"typoteka/internal/models"
	"typoteka/internal/repository"
	"typoteka/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArticleInput() ArticleInput {
	return ArticleInput{
		Title:      "A perfectly fine title",
		Announce:   strings.Repeat("a", 120),
		FullText:   strings.Repeat("f", 400),
		Categories: []int{1, 2},
	}
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, cache.New(rdb)
}

func TestArticleService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := NewArticleService(noopArticleRepo(), noopCategoryRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*ArticleInput)
		want   []string
	}{
		{"missing title", func(in *ArticleInput) { in.Title = "" }, []string{validation.MsgTitleRequired}},
		{"missing announce", func(in *ArticleInput) { in.Announce = "" }, []string{validation.MsgAnnounceRequired}},
		{"missing full text", func(in *ArticleInput) { in.FullText = "" }, []string{validation.MsgFullTextRequired}},
		{"missing categories", func(in *ArticleInput) { in.Categories = nil }, []string{validation.MsgCategoriesEmpty}},
		{
			name: "every violation reported",
			mutate: func(in *ArticleInput) {
				in.Title = "short"
				in.Categories = []int{-1}
			},
			want: []string{validation.MsgTitleMin, validation.MsgCategoryID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := validArticleInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			appErr := assertAppError(t, err, models.CodeValidation)
			assert.Equal(t, tt.want, appErr.Messages)
		})
	}
}

func TestArticleService_Create_UnknownCategory(t *testing.T) {
	t.Parallel()

	categories := noopCategoryRepo()
	categories.countExistingFn = func(_ context.Context, _ []uint) (int64, error) { return 1, nil }
	created := false
	articles := noopArticleRepo()
	articles.createFn = func(_ context.Context, _ *models.Article, _ []uint) error {
		created = true
		return nil
	}

	svc := NewArticleService(articles, categories, nil)
	_, err := svc.Create(context.Background(), validArticleInput())
	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, validation.MsgCategoryUnknown, appErr.Message)
	assert.False(t, created)
}

func TestArticleService_Create_InvalidatesCache(t *testing.T) {
	mr, c := newTestCache(t)
	require.NoError(t, mr.Set(cache.HomeFeedKey, "stale"))
	require.NoError(t, mr.Set(cache.CategoryCountsKey, "stale"))

	var gotCategories []uint
	articles := noopArticleRepo()
	articles.createFn = func(_ context.Context, a *models.Article, ids []uint) error {
		a.ID = 5
		gotCategories = ids
		return nil
	}
	articles.findOneFn = func(_ context.Context, id uint, _ bool) (*models.Article, error) {
		return &models.Article{ID: id, Title: "A perfectly fine title"}, nil
	}

	svc := NewArticleService(articles, noopCategoryRepo(), c)
	in := validArticleInput()
	userID := uint(3)
	in.UserID = &userID

	article, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint(5), article.ID)
	assert.Equal(t, []uint{1, 2}, gotCategories)
	assert.False(t, mr.Exists(cache.HomeFeedKey))
	assert.False(t, mr.Exists(cache.CategoryCountsKey))
}

func TestArticleService_Update(t *testing.T) {
	t.Parallel()

	stored := func() *models.Article {
		return &models.Article{
			ID:         9,
			Title:      "Stored article title",
			Announce:   strings.Repeat("a", 150),
			FullText:   strings.Repeat("f", 150),
			Categories: []models.Category{{ID: 4}},
		}
	}

	t.Run("partial update keeps stored fields and categories", func(t *testing.T) {
		t.Parallel()
		articles := noopArticleRepo()
		articles.findOneFn = func(_ context.Context, _ uint, _ bool) (*models.Article, error) { return stored(), nil }
		var saved *models.Article
		var savedCategories []uint
		articles.updateFn = func(_ context.Context, a *models.Article, ids []uint) (bool, error) {
			saved = a
			savedCategories = ids
			return true, nil
		}

		title := "A brand new title"
		svc := NewArticleService(articles, noopCategoryRepo(), nil)
		_, err := svc.Update(context.Background(), 9, ArticleUpdate{Title: &title})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, title, saved.Title)
		assert.Equal(t, strings.Repeat("a", 150), saved.Announce)
		assert.Nil(t, savedCategories)
	})

	t.Run("merged result is validated", func(t *testing.T) {
		t.Parallel()
		articles := noopArticleRepo()
		articles.findOneFn = func(_ context.Context, _ uint, _ bool) (*models.Article, error) { return stored(), nil }
		articles.updateFn = func(_ context.Context, _ *models.Article, _ []uint) (bool, error) {
			t.Fatal("update must not run")
			return false, nil
		}

		short := "tiny"
		svc := NewArticleService(articles, noopCategoryRepo(), nil)
		_, err := svc.Update(context.Background(), 9, ArticleUpdate{Title: &short, Categories: []int{}})
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Equal(t, []string{validation.MsgTitleMin, validation.MsgCategoriesEmpty}, appErr.Messages)
	})

	t.Run("missing article", func(t *testing.T) {
		t.Parallel()
		articles := noopArticleRepo()
		articles.findOneFn = func(_ context.Context, _ uint, _ bool) (*models.Article, error) { return nil, nil }
		svc := NewArticleService(articles, noopCategoryRepo(), nil)
		_, err := svc.Update(context.Background(), 9, ArticleUpdate{})
		appErr := assertAppError(t, err, models.CodeNotFound)
		assert.Equal(t, "Article with ID 9 not found", appErr.Message)
	})
}

func TestArticleService_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		deleted *models.Article
		err     error
		wantMsg string
	}{
		{name: "missing", wantMsg: "Article with ID 3 not found"},
		{name: "comments partially deleted", err: repository.ErrCommentsPartiallyDeleted, wantMsg: "Some comments not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			articles := noopArticleRepo()
			articles.deleteFn = func(_ context.Context, _ uint) (*models.Article, error) { return tt.deleted, tt.err }
			svc := NewArticleService(articles, noopCategoryRepo(), nil)
			_, err := svc.Delete(context.Background(), 3)
			appErr := assertAppError(t, err, models.CodeNotFound)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}

	t.Run("returns the removed article", func(t *testing.T) {
		t.Parallel()
		svc := NewArticleService(noopArticleRepo(), noopCategoryRepo(), nil)
		article, err := svc.Delete(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, uint(3), article.ID)
	})
}

func TestArticleService_Get_CachesWithComments(t *testing.T) {
	_, c := newTestCache(t)
	calls := 0
	articles := noopArticleRepo()
	articles.findOneFn = func(_ context.Context, id uint, _ bool) (*models.Article, error) {
		calls++
		return &models.Article{ID: id, Title: "Cached article"}, nil
	}
	svc := NewArticleService(articles, noopCategoryRepo(), c)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		article, err := svc.Get(ctx, 2, true)
		require.NoError(t, err)
		assert.Equal(t, "Cached article", article.Title)
	}
	assert.Equal(t, 1, calls)

	_, err := svc.Get(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestArticleService_Search(t *testing.T) {
	t.Parallel()

	var got string
	articles := noopArticleRepo()
	articles.searchFn = func(_ context.Context, q string) ([]*models.Article, error) {
		got = q
		return []*models.Article{}, nil
	}
	svc := NewArticleService(articles, noopCategoryRepo(), nil)

	_, err := svc.Search(context.Background(), "   ")
	appErr := assertAppError(t, err, models.CodeValidation)
	assert.Equal(t, validation.MsgQueryRequired, appErr.Message)

	found, err := svc.Search(context.Background(), "  go  ")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, "go", got)
}

func TestArticleService_PageDefaults(t *testing.T) {
	t.Parallel()

	var got repository.PageQuery
	articles := noopArticleRepo()
	articles.findPageFn = func(_ context.Context, q repository.PageQuery) (*models.ArticlePage, error) {
		got = q
		return &models.ArticlePage{}, nil
	}
	svc := NewArticleService(articles, noopCategoryRepo(), nil)
	_, err := svc.Page(context.Background(), repository.PageQuery{Offset: -4})
	require.NoError(t, err)
	assert.Equal(t, ArticlesPerPage, got.Limit)
	assert.Zero(t, got.Offset)
}
