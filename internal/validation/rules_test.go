package validation

import (
	"errors"
	"strings"
	"testing"

	"typoteka/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appErr(t *testing.T, err error) *models.AppError {
	t.Helper()
	var ae *models.AppError
	require.True(t, errors.As(err, &ae), "expected *models.AppError, got %T", err)
	assert.Equal(t, models.CodeValidation, ae.Code)
	return ae
}

func validArticle() Article {
	return Article{
		Title:      "A reasonable title",
		Announce:   strings.Repeat("a", 120),
		FullText:   strings.Repeat("f", 400),
		Categories: []int{1, 2},
	}
}

func TestValidateComment_Bounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		text    string
		wantMsg string
	}{
		{"exactly 20", strings.Repeat("x", 20), ""},
		{"exactly 500", strings.Repeat("x", 500), ""},
		{"19 is too short", strings.Repeat("x", 19), MsgCommentMin},
		{"501 is too long", strings.Repeat("x", 501), MsgCommentMax},
		{"empty", "", MsgCommentRequired},
		{"whitespace only", strings.Repeat(" ", 25), MsgCommentRequired},
		{"multibyte counted as runes", strings.Repeat("ж", 20), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComment(tt.text)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.wantMsg}, appErr(t, err).Messages)
		})
	}
}

func TestValidateArticle_Valid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateArticle(validArticle()))

	photo := "picture.jpg"
	a := validArticle()
	a.Photo = &photo
	assert.NoError(t, ValidateArticle(a))
}

func TestValidateArticle_MissingRequiredFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Article)
		wantMsg string
	}{
		{"title", func(a *Article) { a.Title = "" }, MsgTitleRequired},
		{"announce", func(a *Article) { a.Announce = "" }, MsgAnnounceRequired},
		{"full text", func(a *Article) { a.FullText = "" }, MsgFullTextRequired},
		{"categories", func(a *Article) { a.Categories = nil }, MsgCategoriesEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArticle()
			tt.mutate(&a)
			assert.Contains(t, appErr(t, ValidateArticle(a)).Messages, tt.wantMsg)
		})
	}
}

func TestValidateArticle_CollectsAllViolations(t *testing.T) {
	t.Parallel()
	empty := " "
	err := ValidateArticle(Article{
		Title:      "short",
		Announce:   strings.Repeat("a", 301),
		FullText:   strings.Repeat("f", 1001),
		Photo:      &empty,
		Categories: []int{3, 0},
	})

	ae := appErr(t, err)
	assert.Equal(t, []string{MsgTitleMin, MsgAnnounceMax, MsgFullTextMax, MsgCategoryID, MsgPhoto}, ae.Messages)
	assert.Equal(t, strings.Join(ae.Messages, "\n"), ae.Message)
}

func TestValidateCategory(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCategory("Music"))
	assert.NoError(t, ValidateCategory(strings.Repeat("c", 30)))
	assert.Equal(t, []string{MsgCategoryMin}, appErr(t, ValidateCategory("Art")).Messages)
	assert.Equal(t, []string{MsgCategoryMax}, appErr(t, ValidateCategory(strings.Repeat("c", 31))).Messages)
	assert.Equal(t, []string{MsgCategoryRequired}, appErr(t, ValidateCategory("")).Messages)
}

func TestValidateUser(t *testing.T) {
	t.Parallel()
	valid := User{Name: "Anna Smith", Email: "anna@example.com", Password: "secret1", PasswordRepeated: "secret1"}
	assert.NoError(t, ValidateUser(valid))

	tests := []struct {
		name    string
		mutate  func(*User)
		wantMsg string
	}{
		{"name with digits", func(u *User) { u.Name = "Anna 2" }, MsgNameChars},
		{"name with symbols", func(u *User) { u.Name = "Anna<script>" }, MsgNameChars},
		{"missing name", func(u *User) { u.Name = "" }, MsgNameRequired},
		{"bad email", func(u *User) { u.Email = "anna.example.com" }, MsgEmailInvalid},
		{"missing email", func(u *User) { u.Email = "" }, MsgEmailRequired},
		{"short password", func(u *User) { u.Password, u.PasswordRepeated = "abc", "abc" }, MsgPasswordMin},
		{"mismatch", func(u *User) { u.PasswordRepeated = "secret2" }, MsgPasswordsMismatch},
		{"long password", func(u *User) { u.Password = strings.Repeat("p", 73); u.PasswordRepeated = u.Password }, MsgPasswordMax},
		{"long cyrillic password", func(u *User) { u.Password = strings.Repeat("я", 37); u.PasswordRepeated = u.Password }, MsgPasswordMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			assert.Contains(t, appErr(t, ValidateUser(u)).Messages, tt.wantMsg)
		})
	}

	edge := valid
	edge.Password = strings.Repeat("p", MaxPasswordBytes)
	edge.PasswordRepeated = edge.Password
	assert.NoError(t, ValidateUser(edge))
}

func TestRouteID(t *testing.T) {
	t.Parallel()
	id, err := RouteID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"0", "-1", "abc", "", "1.5"} {
		_, err := RouteID(raw)
		assert.Error(t, err, raw)
	}
}
