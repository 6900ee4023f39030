package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/config"
	documentService "vsdc.GO/service/document"
)

func init() {
	api.RegisterRoute(RegisterDocumentRoutes)
}

// RegisterDocumentRoutes wires one POST route per entry of the configured
// route table, each feeding the submission pipeline for its document kind.
func RegisterDocumentRoutes(e *echo.Echo, _ *gorm.DB) {
	for route, kind := range config.GetApp().Routes {
		e.POST("/"+route, submitHandler(kind))
	}
}

func submitHandler(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
		}
		contentType := c.Request().Header.Get(echo.HeaderContentType)

		res, err := api.Services().Documents.Submit(c.Request().Context(), kind, body, contentType)
		if err != nil {
			return WriteError(c, err)
		}
		// The authority's envelope goes back to the caller verbatim.
		return c.JSONBlob(http.StatusOK, res.Raw)
	}
}

// WriteError maps pipeline errors onto HTTP responses.
func WriteError(c echo.Context, err error) error {
	var ve *documentService.ValidationError
	switch {
	case errors.Is(err, documentService.ErrAuthentication):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid security key"})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, documentService.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
