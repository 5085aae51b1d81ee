package site

import (
	"strconv"
	"strings"

	"typoteka/internal/models"
	"typoteka/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// pageParam reads ?page=N (1-based) and returns the page with its offset.
func pageParam(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * articlesPerPage
}

func totalPages(count int64) int {
	return int((count + articlesPerPage - 1) / articlesPerPage)
}

func routeID(c *fiber.Ctx, param string) (uint, error) {
	id, err := validation.RouteID(c.Params(param))
	if err != nil {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}

// Home renders the article feed with the realtime widgets.
func (s *Site) Home(c *fiber.Ctx) error {
	page, offset := pageParam(c)

	var (
		articles   *models.ArticlePage
		categories []models.CategoryWithCount
		feed       *models.HomeFeed
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		articles, err = s.api.ArticlePage(ctx, articlesPerPage, offset, true)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.api.Categories(ctx)
		return err
	})
	g.Go(func() (err error) {
		feed, err = s.api.Home(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return s.render(c, "main", fiber.Map{
		"Articles":              articles.Articles,
		"CurrentPage":           page,
		"TotalPages":            totalPages(articles.Count),
		"Categories":            nonEmpty(categories),
		"BestCommentedArticles": head(feed.BestCommentedArticles),
		"LastComments":          head(feed.LastComments),
	})
}

func head[T any](items []T) []T {
	if len(items) > maxElementsPerBlock {
		return items[:maxElementsPerBlock]
	}
	return items
}

// nonEmpty keeps the categories that have at least one article.
func nonEmpty(categories []models.CategoryWithCount) []models.CategoryWithCount {
	out := make([]models.CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		if category.Count > 0 {
			out = append(out, category)
		}
	}
	return out
}

// Article renders one article with its comments.
func (s *Site) Article(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	article, err := s.api.Article(c.UserContext(), id, true)
	if err != nil {
		return err
	}
	return s.render(c, "post", fiber.Map{"Article": article, "Comment": ""})
}

// CreateComment posts a comment as the logged in reader.
func (s *Site) CreateComment(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	text := c.FormValue("comment")

	_, err = s.api.CreateComment(c.UserContext(), currentUser(c).Token, id, text)
	if err == nil {
		return c.Redirect("/articles/" + strconv.FormatUint(uint64(id), 10))
	}
	messages, ok := validationMessages(err)
	if !ok {
		return err
	}

	article, err := s.api.Article(c.UserContext(), id, true)
	if err != nil {
		return err
	}
	c.Status(fiber.StatusBadRequest)
	return s.render(c, "post", fiber.Map{
		"Article":            article,
		"Comment":            text,
		"ValidationMessages": messages,
	})
}

// ArticlesByCategory renders one page of a category.
func (s *Site) ArticlesByCategory(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	page, offset := pageParam(c)

	var (
		result     *models.CategoryArticles
		categories []models.CategoryWithCount
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		result, err = s.api.CategoryPage(ctx, id, articlesPerPage, offset)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.api.Categories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return s.render(c, "articles-by-category", fiber.Map{
		"Category":    result.Category,
		"Articles":    result.ArticlesByCategory,
		"CurrentPage": page,
		"TotalPages":  totalPages(result.Count),
		"Categories":  nonEmpty(categories),
	})
}

// Search renders title matches. An empty query shows the empty form.
func (s *Site) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	data := fiber.Map{"Query": query, "Searched": query != ""}
	if query == "" {
		return s.render(c, "search", data)
	}

	results, err := s.api.Search(c.UserContext(), query)
	if err != nil {
		return err
	}
	data["Results"] = results
	return s.render(c, "search", data)
}
