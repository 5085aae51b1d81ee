package server

import (
	"typoteka/internal/service"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// GetCategories handles GET /api/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Param count query bool false "Include article counts"
// @Success 200 {array} models.CategoryWithCount
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if c.QueryBool("count", false) {
		counts, err := s.categoryService.ListWithCounts(ctx)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(counts)
	}

	categories, err := s.categoryService.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/categories/:categoryId
// @Summary One page of a category's articles
// @Tags categories
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.CategoryArticles
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{categoryId} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "categoryId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, service.ArticlesPerPage)
	result, err := s.categoryService.Page(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body categoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Router /categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	category, err := s.categoryService.Create(c.UserContext(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/categories/:categoryId
// @Summary Rename category
// @Tags categories
// @Accept json
// @Produce json
// @Param categoryId path int true "Category ID"
// @Param request body categoryRequest true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{categoryId} [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "categoryId")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	category, err := s.categoryService.Update(c.UserContext(), id, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:categoryId
// @Summary Delete category
// @Description Refused with 403 while any article references the category.
// @Tags categories
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{categoryId} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "categoryId")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.Delete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}
