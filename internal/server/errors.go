package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/europass-builder/internal/europass"
	"github.com/jonathan/europass-builder/internal/render"
	"github.com/jonathan/europass-builder/internal/schemas"
	"github.com/jonathan/europass-builder/internal/store"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		notFound      *store.NotFoundError
		validationErr *schemas.ValidationError
		importErr     *europass.ImportError
		templateErr   *render.UnknownTemplateError
		renderErr     *render.RenderError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &importErr), errors.As(err, &templateErr):
		return http.StatusBadRequest
	case errors.As(err, &renderErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
