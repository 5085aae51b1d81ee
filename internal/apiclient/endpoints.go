package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"typoteka/internal/models"
)

// ArticlePayload is the body of an article create or update.
type ArticlePayload struct {
	Title      string  `json:"title"`
	Announce   string  `json:"announce"`
	FullText   string  `json:"fullText"`
	Photo      *string `json:"photo,omitempty"`
	Categories []int   `json:"categories"`
}

// UserPayload is a registration form.
type UserPayload struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	PasswordRepeated string  `json:"passwordRepeated"`
	Avatar           *string `json:"avatar,omitempty"`
}

// AuthResult is a logged in user with the token to send on later calls.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func articlePath(id uint) string {
	return "/articles/" + strconv.FormatUint(uint64(id), 10)
}

func categoryPath(id uint) string {
	return "/categories/" + strconv.FormatUint(uint64(id), 10)
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

// Articles lists every article, newest first.
func (c *Client) Articles(ctx context.Context, withComments bool) ([]*models.Article, error) {
	var out []*models.Article
	q := url.Values{}
	if withComments {
		q.Set("comments", "true")
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/articles", query: q}, &out)
	return out, err
}

// ArticlePage fetches one page of articles with the total count.
func (c *Client) ArticlePage(ctx context.Context, limit, offset int, withComments bool) (*models.ArticlePage, error) {
	var out models.ArticlePage
	q := pageQuery(limit, offset)
	if withComments {
		q.Set("comments", "true")
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/articles", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Article(ctx context.Context, id uint, withComments bool) (*models.Article, error) {
	var out models.Article
	q := url.Values{}
	if withComments {
		q.Set("comments", "true")
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: articlePath(id), query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateArticle publishes an article as the owner of token.
func (c *Client) CreateArticle(ctx context.Context, token string, p ArticlePayload) (*models.Article, error) {
	var out models.Article
	err := c.do(ctx, request{method: http.MethodPost, path: "/articles", body: p, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id uint, p ArticlePayload) (*models.Article, error) {
	var out models.Article
	if err := c.do(ctx, request{method: http.MethodPut, path: articlePath(id), body: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: articlePath(id)}, nil)
}

func (c *Client) Search(ctx context.Context, query string) ([]*models.Article, error) {
	var out []*models.Article
	err := c.do(ctx, request{method: http.MethodGet, path: "/search", query: url.Values{"query": {query}}}, &out)
	return out, err
}

// Comments lists every comment with its article, newest first.
func (c *Client) Comments(ctx context.Context) ([]*models.Comment, error) {
	var out []*models.Comment
	err := c.do(ctx, request{method: http.MethodGet, path: "/articles/comments"}, &out)
	return out, err
}

// CreateComment posts text on an article as the owner of token.
func (c *Client) CreateComment(ctx context.Context, token string, articleID uint, text string) (*models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   articlePath(articleID) + "/comments",
		body:   map[string]string{"text": text},
		token:  token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, articleID, commentID uint) error {
	path := fmt.Sprintf("%s/comments/%d", articlePath(articleID), commentID)
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

// Categories lists categories with their article counts.
func (c *Client) Categories(ctx context.Context) ([]models.CategoryWithCount, error) {
	var out []models.CategoryWithCount
	err := c.do(ctx, request{method: http.MethodGet, path: "/categories", query: url.Values{"count": {"true"}}}, &out)
	return out, err
}

func (c *Client) CategoryPage(ctx context.Context, id uint, limit, offset int) (*models.CategoryArticles, error) {
	var out models.CategoryArticles
	if err := c.do(ctx, request{method: http.MethodGet, path: categoryPath(id), query: pageQuery(limit, offset)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var out models.Category
	err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: map[string]string{"name": name}}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var out models.Category
	err := c.do(ctx, request{method: http.MethodPut, path: categoryPath(id), body: map[string]string{"name": name}}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: categoryPath(id)}, nil)
}

// Home fetches the best commented articles and the latest comments.
func (c *Client) Home(ctx context.Context) (*models.HomeFeed, error) {
	var out models.HomeFeed
	if err := c.do(ctx, request{method: http.MethodGet, path: "/home"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, p UserPayload) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/user", body: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Auth exchanges credentials for the user and a bearer token.
func (c *Client) Auth(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/user/auth",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
