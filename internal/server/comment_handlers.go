package server

import (
	"typoteka/internal/middleware"
	"typoteka/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllComments handles GET /api/articles/comments
// @Summary List every comment
// @Description Newest first, each with a trimmed view of its article.
// @Tags comments
// @Produce json
// @Success 200 {array} models.Comment
// @Router /articles/comments [get]
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comments)
}

// GetComments handles GET /api/articles/:articleId/comments
// @Summary List comments of an article
// @Tags comments
// @Produce json
// @Param articleId path int true "Article ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{articleId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByArticle(c.UserContext(), articleID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/articles/:articleId/comments
// @Summary Comment on an article
// @Description Connected websocket clients receive a comment:create event.
// @Tags comments
// @Accept json
// @Produce json
// @Param articleId path int true "Article ID"
// @Param request body object{text=string,userId=int} true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /articles/{articleId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}

	var req struct {
		Text   string `json:"text"`
		UserID *uint  `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	userID := req.UserID
	if id, ok := middleware.UserIDFromLocals(c); ok {
		userID = &id
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		ArticleID: articleID,
		UserID:    userID,
		Text:      req.Text,
	})
	if err != nil {
		return fail(c, err)
	}

	s.publishCommentCreated(comment)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/articles/:articleId/comments/:commentId
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Param articleId path int true "Article ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /articles/{articleId}/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "articleId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Delete(c.UserContext(), articleID, commentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comment)
}
