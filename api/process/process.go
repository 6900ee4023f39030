package process

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/api/documents"
	"vsdc.GO/config"
	"vsdc.GO/core/relay"
	documentService "vsdc.GO/service/document"
)

func init() {
	api.RegisterRoute(RegisterProcessRoutes)
}

// RegisterProcessRoutes wires the decision and sync-trigger endpoints.
func RegisterProcessRoutes(e *echo.Echo, _ *gorm.DB) {
	e.POST("/process-imports", processImports)
	e.POST("/process-purchases", processPurchases)
	e.POST("/trigger-comprehensive-sync", triggerComprehensiveSync)
	e.POST("/fetch-imports", fetchImports)
	e.POST("/fetch-purchases", fetchPurchases)
}

func readBody(c echo.Context) ([]byte, string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, "", err
	}
	return body, c.Request().Header.Get(echo.HeaderContentType), nil
}

// verify parses the body and checks the security key, for endpoints that
// take a bare trigger payload.
func verify(c echo.Context) error {
	body, contentType, err := readBody(c)
	if err != nil {
		return err
	}
	payload, err := documentService.ParseBody(body, contentType)
	if err != nil {
		return &documentService.ValidationError{Problems: []string{err.Error()}}
	}
	return documentService.VerifyKey(payload, config.GetApp())
}

func processImports(c echo.Context) error {
	body, contentType, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	outcomes, err := api.Services().Documents.ProcessImports(c.Request().Context(), body, contentType)
	if err != nil {
		return documents.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "results": outcomes})
}

func processPurchases(c echo.Context) error {
	body, contentType, err := readBody(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}
	msg, res, err := api.Services().Documents.ProcessPurchases(c.Request().Context(), body, contentType)
	if err != nil {
		return documents.WriteError(c, err)
	}
	if msg != "" {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
	}
	return c.JSONBlob(http.StatusOK, res.Raw)
}

func triggerComprehensiveSync(c echo.Context) error {
	if err := verify(c); err != nil {
		return documents.WriteError(c, err)
	}
	relay.Publish(relay.KindSyncTrigger, "comprehensive sync triggered via API")

	// Runs in the background; progress goes to the activity log and relay.
	engine := api.Services().Engine
	go func() {
		if err := engine.ComprehensiveSync(context.Background()); err != nil {
			relay.Publish(relay.KindSyncError, err.Error())
		}
	}()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Comprehensive sync started"})
}

func fetchImports(c echo.Context) error {
	if err := verify(c); err != nil {
		return documents.WriteError(c, err)
	}
	count, err := api.Services().Engine.PullImports(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}

func fetchPurchases(c echo.Context) error {
	if err := verify(c); err != nil {
		return documents.WriteError(c, err)
	}
	count, err := api.Services().Engine.PullPurchases(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "count": count})
}
