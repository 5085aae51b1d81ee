package server

import (
	"errors"
	"strings"
	"unicode"

	"typoteka/internal/models"
	"typoteka/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten marks a response a helper has already sent. Handlers
// return nil when they see it so the ErrorHandler leaves the body alone.
var errResponseWritten = errors.New("response already written")

// Pagination is a sanitized limit/offset pair.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination reads ?limit and ?offset, clamping bad values to defaults.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// hasPagination reports whether the request asked for a page explicitly.
func hasPagination(c *fiber.Ctx) bool {
	return c.Query("limit") != "" || c.Query("offset") != ""
}

// parseID reads a positive integer route parameter. A bad value gets a 400
// named after the parameter ("articleId" -> "Invalid article ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := validation.RouteID(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return id, nil
}

// humanizeParam turns a route parameter name into the label used in messages.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel breaks camelCase at each upper-case letter.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// fail writes client errors directly and hands everything else to the
// ErrorHandler, which logs it and hides the cause.
func fail(c *fiber.Ctx, err error) error {
	if status := models.StatusFor(err); status < fiber.StatusInternalServerError {
		return models.RespondWithError(c, status, err)
	}
	return err
}

func badBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
