package status

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/config"
)

func init() {
	api.RegisterGET("/health", health)
	api.RegisterModule(RegisterStatusRoutes)
}

var startedAt = time.Now()

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"uptime": time.Since(startedAt).String(),
	})
}

// RegisterStatusRoutes exposes the operational snapshot: row counts, sync
// state and whether the authority answers its liveness probe.
func RegisterStatusRoutes(apiGroup *echo.Group, _ *gorm.DB) {
	apiGroup.GET("/status", func(c echo.Context) error {
		svc := api.Services()

		sales, _ := svc.Docs.CountSales()
		purchases, _ := svc.Docs.CountPurchases()
		unconfirmed, _ := svc.Docs.CountUnconfirmed()
		items, _ := svc.Items.Count()
		codes, classes, notices, _ := svc.References.Counts()
		imports, purchaseRecords, _ := svc.Feeds.Counts()
		checkpoints, _ := svc.Checkpoints.All()

		return c.JSON(http.StatusOK, echo.Map{
			"app":       config.GetApp().AppName,
			"uptime":    time.Since(startedAt).String(),
			"vsdcAlive": svc.Client.CheckAvailability(c.Request().Context()),
			"sync": echo.Map{
				"running":     svc.Engine.Syncing(),
				"pending":     svc.Engine.Pending(),
				"checkpoints": checkpoints,
			},
			"documents": echo.Map{
				"sales":       sales,
				"purchases":   purchases,
				"unconfirmed": unconfirmed,
			},
			"reference": echo.Map{
				"codes":       codes,
				"itemClasses": classes,
				"notices":     notices,
			},
			"feeds": echo.Map{
				"importItems":     imports,
				"purchaseRecords": purchaseRecords,
			},
			"items": items,
		})
	})
}
