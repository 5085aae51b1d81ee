// Package validation checks request payloads before they reach storage.
// Every rule is evaluated; violations are collected and reported together.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"typoteka/internal/models"
)

// Errors accumulates rule violations in the order they were found.
type Errors []string

// Add records a violation.
func (e *Errors) Add(msg string) {
	*e = append(*e, msg)
}

// Err returns nil when nothing was recorded, otherwise a single validation AppError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return models.NewValidationErrors(e)
}

type lengthRule struct {
	min, max int
	required string
	tooShort string
	tooLong  string
}

func (r lengthRule) check(errs *Errors, value string) {
	n := utf8.RuneCountInString(value)
	switch {
	case strings.TrimSpace(value) == "":
		errs.Add(r.required)
	case n < r.min:
		errs.Add(r.tooShort)
	case r.max > 0 && n > r.max:
		errs.Add(r.tooLong)
	}
}

// RouteID parses a route parameter that must be a positive integer.
func RouteID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%q is not a positive integer", raw)
	}
	return uint(id), nil
}
