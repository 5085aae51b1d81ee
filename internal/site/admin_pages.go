package site

import (
	"errors"
	"strconv"

	"typoteka/internal/apiclient"
	"typoteka/internal/models"
	"typoteka/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// MyArticles lists every article for the owner.
func (s *Site) MyArticles(c *fiber.Ctx) error {
	articles, err := s.api.Articles(c.UserContext(), false)
	if err != nil {
		return err
	}
	return s.render(c, "my", fiber.Map{"Articles": articles})
}

// MyComments lists every comment with a link to its article.
func (s *Site) MyComments(c *fiber.Ctx) error {
	comments, err := s.api.Comments(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "comments", fiber.Map{"Comments": comments})
}

func (s *Site) DeleteComment(c *fiber.Ctx) error {
	articleID, err := routeID(c, "articleId")
	if err != nil {
		return err
	}
	commentID, err := routeID(c, "commentId")
	if err != nil {
		return err
	}
	if err := s.api.DeleteComment(c.UserContext(), articleID, commentID); err != nil {
		return err
	}
	return c.Redirect("/my/comments")
}

// articleForm reads the article editor fields. Categories arrive as
// repeated checkbox values.
func articleForm(c *fiber.Ctx) apiclient.ArticlePayload {
	payload := apiclient.ArticlePayload{
		Title:    c.FormValue("title"),
		Announce: c.FormValue("announcement"),
		FullText: c.FormValue("fullText"),
	}

	var raw []string
	if form, err := c.MultipartForm(); err == nil {
		raw = form.Value["categories"]
	} else {
		for _, v := range c.Request().PostArgs().PeekMulti("categories") {
			raw = append(raw, string(v))
		}
	}
	for _, v := range raw {
		if id, err := strconv.Atoi(v); err == nil {
			payload.Categories = append(payload.Categories, id)
		}
	}
	return payload
}

func selected(ids []int) map[uint]bool {
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id > 0 {
			out[uint(id)] = true
		}
	}
	return out
}

func (s *Site) NewArticleForm(c *fiber.Ctx) error {
	categories, err := s.api.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return s.render(c, "new-post", fiber.Map{
		"Categories": categories,
		"Selected":   map[uint]bool{},
		"Form":       apiclient.ArticlePayload{},
	})
}

// CreateArticle publishes the editor contents as the owner.
func (s *Site) CreateArticle(c *fiber.Ctx) error {
	payload := articleForm(c)

	photo, err := s.saveUpload(c, "upload")
	if errors.Is(err, errUnsupportedImage) {
		return s.rerenderEditor(c, "new-post", nil, payload, []string{validation.MsgPhoto})
	}
	if err != nil {
		return err
	}
	payload.Photo = photo

	if _, err := s.api.CreateArticle(c.UserContext(), currentUser(c).Token, payload); err != nil {
		messages, ok := validationMessages(err)
		if !ok {
			return err
		}
		return s.rerenderEditor(c, "new-post", nil, payload, messages)
	}
	return c.Redirect("/my")
}

func (s *Site) EditArticleForm(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}

	var (
		article    *models.Article
		categories []models.CategoryWithCount
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		article, err = s.api.Article(ctx, id, false)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.api.Categories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	ids := make([]int, 0, len(article.Categories))
	for _, category := range article.Categories {
		ids = append(ids, int(category.ID))
	}
	return s.render(c, "edit-post", fiber.Map{
		"Article":    article,
		"Categories": categories,
		"Selected":   selected(ids),
		"Form": apiclient.ArticlePayload{
			Title:    article.Title,
			Announce: article.Announce,
			FullText: article.FullText,
			Photo:    article.Photo,
		},
	})
}

// UpdateArticle saves the editor contents. Without a new upload the stored
// photo is kept.
func (s *Site) UpdateArticle(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	payload := articleForm(c)

	article := &models.Article{ID: id}
	photo, err := s.saveUpload(c, "upload")
	if errors.Is(err, errUnsupportedImage) {
		return s.rerenderEditor(c, "edit-post", article, payload, []string{validation.MsgPhoto})
	}
	if err != nil {
		return err
	}
	payload.Photo = photo

	if _, err := s.api.UpdateArticle(c.UserContext(), id, payload); err != nil {
		messages, ok := validationMessages(err)
		if !ok {
			return err
		}
		return s.rerenderEditor(c, "edit-post", article, payload, messages)
	}
	return c.Redirect("/my")
}

func (s *Site) DeleteArticle(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteArticle(c.UserContext(), id); err != nil {
		return err
	}
	return c.Redirect("/my")
}

func (s *Site) rerenderEditor(c *fiber.Ctx, page string, article *models.Article, payload apiclient.ArticlePayload, messages []string) error {
	categories, err := s.api.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return s.renderForm(c, page, fiber.Map{
		"Article":    article,
		"Categories": categories,
		"Selected":   selected(payload.Categories),
		"Form":       payload,
	}, messages)
}

// Categories renders the category manager.
func (s *Site) Categories(c *fiber.Ctx) error {
	return s.renderCategories(c, nil)
}

func (s *Site) renderCategories(c *fiber.Ctx, messages []string) error {
	categories, err := s.api.Categories(c.UserContext())
	if err != nil {
		return err
	}
	if len(messages) > 0 {
		c.Status(fiber.StatusBadRequest)
	}
	token, _ := c.Locals("csrf").(string)
	return s.render(c, "all-categories", fiber.Map{
		"Categories":         categories,
		"CSRFToken":          token,
		"ValidationMessages": messages,
	})
}

// categoryResult redirects back to the manager, or re-renders it with the
// reason a change was refused.
func (s *Site) categoryResult(c *fiber.Ctx, err error) error {
	if err == nil {
		return c.Redirect("/categories")
	}
	messages, ok := validationMessages(err)
	if !ok {
		return err
	}
	return s.renderCategories(c, messages)
}

func (s *Site) CreateCategory(c *fiber.Ctx) error {
	_, err := s.api.CreateCategory(c.UserContext(), c.FormValue("newCategory"))
	return s.categoryResult(c, err)
}

func (s *Site) UpdateCategory(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	_, err = s.api.UpdateCategory(c.UserContext(), id, c.FormValue("name"))
	return s.categoryResult(c, err)
}

// DeleteCategory shows the refusal when the category still has articles.
func (s *Site) DeleteCategory(c *fiber.Ctx) error {
	id, err := routeID(c, "id")
	if err != nil {
		return err
	}
	return s.categoryResult(c, s.api.DeleteCategory(c.UserContext(), id))
}
