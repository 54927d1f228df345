package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vitrinedecor/catalogo/internal/catalog"
	"github.com/vitrinedecor/catalogo/internal/store"
)

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, errorBody{Code: code, Message: message, Detail: detail})
}

// failErr maps service errors onto the API taxonomy: validation failures are
// the caller's fault, missing records are 404, anything touching storage is a
// transient 500 the UI shows and does not retry.
func failErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, store.ErrIO):
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Storage operation failed", err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected failure", err.Error())
	}
}
