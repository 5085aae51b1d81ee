package validation

import (
	"regexp"
	"strings"
)

// Messages returned by the rules below.
const (
	MsgCommentRequired = "Comment text is required"
	MsgCommentMin      = "Comment must contain at least 20 characters"
	MsgCommentMax      = "Comment must not exceed 500 characters"

	MsgTitleRequired    = "Title is required"
	MsgTitleMin         = "Title must contain at least 10 characters"
	MsgTitleMax         = "Title must not exceed 70 characters"
	MsgAnnounceRequired = "Announce is required"
	MsgAnnounceMin      = "Announce must contain at least 100 characters"
	MsgAnnounceMax      = "Announce must not exceed 300 characters"
	MsgFullTextRequired = "Full text is required"
	MsgFullTextMin      = "Full text must contain at least 100 characters"
	MsgFullTextMax      = "Full text must not exceed 1000 characters"
	MsgCategoriesEmpty  = "At least one category must be selected"
	MsgCategoryID       = "Category id must be a positive integer"
	MsgPhoto            = "Photo is not selected or its type is not supported"
	MsgCategoryUnknown  = "Selected category does not exist"

	MsgCategoryRequired = "Category name is required"
	MsgCategoryMin      = "Category name must contain at least 5 characters"
	MsgCategoryMax      = "Category name must not exceed 30 characters"

	MsgNameRequired      = "Name is required"
	MsgNameChars         = "Name must not contain digits or special characters"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email is not valid"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordMin       = "Password must contain at least 6 characters"
	MsgPasswordMax       = "Password must not exceed 72 bytes"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgEmailTaken        = "Email is already in use"
	MsgAvatar            = "Avatar type is not supported"

	MsgQueryRequired = "Search query is required"
)

var (
	commentRule  = lengthRule{min: 20, max: 500, required: MsgCommentRequired, tooShort: MsgCommentMin, tooLong: MsgCommentMax}
	titleRule    = lengthRule{min: 10, max: 70, required: MsgTitleRequired, tooShort: MsgTitleMin, tooLong: MsgTitleMax}
	announceRule = lengthRule{min: 100, max: 300, required: MsgAnnounceRequired, tooShort: MsgAnnounceMin, tooLong: MsgAnnounceMax}
	fullTextRule = lengthRule{min: 100, max: 1000, required: MsgFullTextRequired, tooShort: MsgFullTextMin, tooLong: MsgFullTextMax}
	categoryRule = lengthRule{min: 5, max: 30, required: MsgCategoryRequired, tooShort: MsgCategoryMin, tooLong: MsgCategoryMax}
	passwordRule = lengthRule{min: 6, required: MsgPasswordRequired, tooShort: MsgPasswordMin}

	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	forbiddenNameChars = regexp.MustCompile(`[0-9$&+,:;=?@#|'<>.^*()%!]`)
)

// MaxPasswordBytes is the longest password bcrypt accepts. It is counted in
// bytes, so a Cyrillic password hits it at 36 characters.
const MaxPasswordBytes = 72

// Article is the shape an article must have after a create or a merged update.
type Article struct {
	Title      string
	Announce   string
	FullText   string
	Photo      *string
	Categories []int
}

// User is a registration payload.
type User struct {
	Name             string
	Email            string
	Password         string
	PasswordRepeated string
	Avatar           *string
}

// ValidateComment checks comment text length.
func ValidateComment(text string) error {
	var errs Errors
	commentRule.check(&errs, text)
	return errs.Err()
}

// ValidateArticle checks every article rule and reports all violations.
func ValidateArticle(a Article) error {
	var errs Errors
	titleRule.check(&errs, a.Title)
	announceRule.check(&errs, a.Announce)
	fullTextRule.check(&errs, a.FullText)

	if len(a.Categories) == 0 {
		errs.Add(MsgCategoriesEmpty)
	} else {
		for _, id := range a.Categories {
			if id <= 0 {
				errs.Add(MsgCategoryID)
				break
			}
		}
	}

	if a.Photo != nil && strings.TrimSpace(*a.Photo) == "" {
		errs.Add(MsgPhoto)
	}
	return errs.Err()
}

// ValidateCategory checks the category name length.
func ValidateCategory(name string) error {
	var errs Errors
	categoryRule.check(&errs, name)
	return errs.Err()
}

// UserErrors collects registration violations except email uniqueness, which
// needs storage and is appended by the caller.
func UserErrors(u User) Errors {
	var errs Errors

	switch {
	case strings.TrimSpace(u.Name) == "":
		errs.Add(MsgNameRequired)
	case forbiddenNameChars.MatchString(u.Name):
		errs.Add(MsgNameChars)
	}

	switch {
	case strings.TrimSpace(u.Email) == "":
		errs.Add(MsgEmailRequired)
	case !emailRegex.MatchString(u.Email):
		errs.Add(MsgEmailInvalid)
	}

	passwordRule.check(&errs, u.Password)
	if len(u.Password) > MaxPasswordBytes {
		errs.Add(MsgPasswordMax)
	}
	if u.Password != u.PasswordRepeated {
		errs.Add(MsgPasswordsMismatch)
	}

	if u.Avatar != nil && strings.TrimSpace(*u.Avatar) == "" {
		errs.Add(MsgAvatar)
	}
	return errs
}

// ValidateUser checks a registration payload without the uniqueness lookup.
func ValidateUser(u User) error {
	return UserErrors(u).Err()
}
