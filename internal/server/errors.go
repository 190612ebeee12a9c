package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/jdapi"
	"github.com/jonathan/jd-admin/internal/types"
	"github.com/jonathan/jd-admin/internal/views"
)

// ErrValidation indicates a malformed form submission.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		apiErr   *jdapi.APIError
		reqErr   *jdapi.RequestError
		stageErr *views.StageError
		modeErr  *views.ModeError
	)

	switch {
	case errors.As(err, new(*ErrValidation)),
		errors.As(err, new(*form.UnknownFieldError)),
		errors.As(err, new(*types.ValidationError)):
		return http.StatusBadRequest
	case errors.As(err, new(*views.UploadError)):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &stageErr), errors.As(err, &modeErr),
		errors.Is(err, views.ErrNoRecord):
		return http.StatusConflict
	case errors.Is(err, views.ErrBusy):
		return http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case errors.As(err, &reqErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isStateError reports whether err has already been recorded in view state
// for the user to see, so the page should simply be shown again.
func isStateError(err error) bool {
	var (
		apiErr *jdapi.APIError
		reqErr *jdapi.RequestError
		vErr   *types.ValidationError
	)
	return errors.As(err, &apiErr) ||
		errors.As(err, &reqErr) ||
		errors.As(err, &vErr) ||
		errors.Is(err, views.ErrBusy) ||
		errors.Is(err, views.ErrMissingFolder) ||
		errors.Is(err, views.ErrMissingSelection) ||
		errors.Is(err, views.ErrNothingToExtract)
}
