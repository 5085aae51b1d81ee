package site

import (
	"errors"
	"net/http"

	"typoteka/internal/apiclient"
)

// validationMessages extracts the rule violations of a rejected form. It
// reports false for errors that are not the reader's fault.
func validationMessages(err error) ([]string, bool) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return nil, false
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return apiErr.Messages, true
	}
	return nil, false
}
