package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/core/relay"
)

func init() {
	api.RegisterModule(RegisterRealtimeRoutes)
}

// subscriberBuffer absorbs bursts while a client drains slowly; events past
// the buffer are dropped rather than blocking the pipeline.
const subscriberBuffer = 64

// RegisterRealtimeRoutes streams pipeline and sync notices to dashboards.
func RegisterRealtimeRoutes(apiGroup *echo.Group, _ *gorm.DB) {
	g := apiGroup.Group("/realtime")

	// GET /api/realtime/events — server-sent events until the client leaves.
	g.GET("/events", func(c echo.Context) error {
		res := c.Response()
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("Connection", "keep-alive")
		res.WriteHeader(http.StatusOK)
		res.Flush()

		id, events := relay.Default.Subscribe(subscriberBuffer)
		defer relay.Default.Unsubscribe(id)

		ctx := c.Request().Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
					return nil
				}
				res.Flush()
			}
		}
	})

	// GET /api/realtime/activity?limit=N — recent audit trail rows.
	g.GET("/activity", func(c echo.Context) error {
		limit := 50
		if q := c.QueryParam("limit"); q != "" {
			fmt.Sscanf(q, "%d", &limit)
		}
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		rows, err := api.Services().Activity.Recent(limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"count": len(rows), "events": rows})
	})
}
