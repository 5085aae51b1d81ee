package server

import (
	"typoteka/internal/middleware"
	"typoteka/internal/repository"
	"typoteka/internal/service"

	"github.com/gofiber/fiber/v2"
)

type articleRequest struct {
	Title      *string `json:"title"`
	Announce   *string `json:"announce"`
	FullText   *string `json:"fullText"`
	Photo      *string `json:"photo"`
	Categories []int   `json:"categories"`
	UserID     *uint   `json:"userId"`
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// GetArticles handles GET /api/articles
// @Summary List articles
// @Description Newest first. With limit or offset the response is a page envelope.
// @Tags articles
// @Produce json
// @Param comments query bool false "Include comments"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Article
// @Router /articles [get]
func (s *Server) GetArticles(c *fiber.Ctx) error {
	ctx := c.UserContext()
	includeComments := c.QueryBool("comments", false)

	if !hasPagination(c) {
		articles, err := s.articleService.List(ctx, includeComments)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(articles)
	}

	page := parsePagination(c, service.ArticlesPerPage)
	result, err := s.articleService.Page(ctx, repository.PageQuery{
		Limit:           page.Limit,
		Offset:          page.Offset,
		IncludeComments: includeComments,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GetArticle handles GET /api/articles/:articleId
// @Summary Get article
// @Tags articles
// @Produce json
// @Param articleId path int true "Article ID"
// @Param comments query bool false "Include comments"
// @Success 200 {object} models.Article
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{articleId} [get]
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Get(c.UserContext(), id, c.QueryBool("comments", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

// CreateArticle handles POST /api/articles
// @Summary Create article
// @Description A valid bearer token makes its subject the author.
// @Tags articles
// @Accept json
// @Produce json
// @Param request body articleRequest true "Article"
// @Success 201 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles [post]
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	userID := req.UserID
	if id, ok := middleware.UserIDFromLocals(c); ok {
		userID = &id
	}

	article, err := s.articleService.Create(c.UserContext(), service.ArticleInput{
		Title:      deref(req.Title),
		Announce:   deref(req.Announce),
		FullText:   deref(req.FullText),
		Photo:      req.Photo,
		Categories: req.Categories,
		UserID:     userID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// UpdateArticle handles PUT /api/articles/:articleId
// @Summary Update article
// @Description Omitted fields keep their stored values; the merged article is validated.
// @Tags articles
// @Accept json
// @Produce json
// @Param articleId path int true "Article ID"
// @Param request body articleRequest true "Article fields"
// @Success 200 {object} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{articleId} [put]
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}

	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	article, err := s.articleService.Update(c.UserContext(), id, service.ArticleUpdate{
		Title:      req.Title,
		Announce:   req.Announce,
		FullText:   req.FullText,
		Photo:      req.Photo,
		Categories: req.Categories,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:articleId
// @Summary Delete article
// @Description Removes the article together with its comments.
// @Tags articles
// @Produce json
// @Param articleId path int true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{articleId} [delete]
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

// Search handles GET /api/search
// @Summary Search articles by title
// @Tags search
// @Produce json
// @Param query query string true "Title substring"
// @Success 200 {array} models.Article
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	articles, err := s.articleService.Search(c.UserContext(), c.Query("query"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(articles)
}
