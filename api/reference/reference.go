package reference

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/config"
	"vsdc.GO/core/cache"
	"vsdc.GO/core/relay"
)

func init() {
	api.RegisterModule(RegisterReferenceRoutes)
	go watchSyncEvents(relay.Default)
}

// watchSyncEvents drops the cached payloads whenever a sync cycle finishes,
// so reads never serve the previous cycle's tables for the rest of the TTL.
func watchSyncEvents(r *relay.Relay) {
	_, events := r.Subscribe(16)
	for ev := range events {
		switch ev.EventKind {
		case relay.KindSyncUpdate, relay.KindSyncComplete:
			InvalidateCache()
		}
	}
}

// cacheTTL bounds staleness of the read API between sync cycles.
const cacheTTL = 5 * time.Minute

const cacheTag = "reference"

// cachedJSON serves a JSON payload through Redis when configured, falling
// back to the in-process cache. The loader runs on a miss.
func cachedJSON(c echo.Context, key string, load func() (interface{}, error)) error {
	if config.RedisClient != nil {
		if raw, err := config.RedisClient.Get(config.RedisCtx(), key).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, raw)
		}
	} else if v, ok := cache.GetInstance().Get(key); ok {
		if raw, ok := v.([]byte); ok {
			return c.JSONBlob(http.StatusOK, raw)
		}
	}

	payload, err := load()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	if config.RedisClient != nil {
		config.RedisClient.Set(config.RedisCtx(), key, raw, cacheTTL)
	} else {
		cache.GetInstance().Set(key, raw, int64(cacheTTL.Seconds()), []string{cacheTag})
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// InvalidateCache drops every cached reference payload. Runs after sync
// cycles rewrite the tables.
func InvalidateCache() {
	if config.RedisClient != nil {
		ctx := config.RedisCtx()
		if keys, err := config.RedisClient.Keys(ctx, "reference:*").Result(); err == nil && len(keys) > 0 {
			config.RedisClient.Del(ctx, keys...)
		}
		return
	}
	cache.GetInstance().DeleteByTag(cacheTag)
}

// RegisterReferenceRoutes exposes the synced reference tables for POS
// integrations that need code lists without talking to the authority.
func RegisterReferenceRoutes(apiGroup *echo.Group, _ *gorm.DB) {
	g := apiGroup.Group("/reference")

	g.GET("/codes", func(c echo.Context) error {
		class := c.QueryParam("class")
		return cachedJSON(c, "reference:codes:"+class, func() (interface{}, error) {
			rows, err := api.Services().References.ListStandardCodes(class)
			if err != nil {
				return nil, err
			}
			return echo.Map{"count": len(rows), "codes": rows}, nil
		})
	})

	g.GET("/item-classes", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		if limit <= 0 || limit > 1000 {
			limit = 1000
		}
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		key := "reference:item-classes:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
		return cachedJSON(c, key, func() (interface{}, error) {
			rows, err := api.Services().References.ListItemClassCodes(limit, offset)
			if err != nil {
				return nil, err
			}
			return echo.Map{"count": len(rows), "itemClasses": rows}, nil
		})
	})

	g.GET("/notices", func(c echo.Context) error {
		return cachedJSON(c, "reference:notices", func() (interface{}, error) {
			rows, err := api.Services().References.ListNotices()
			if err != nil {
				return nil, err
			}
			return echo.Map{"count": len(rows), "notices": rows}, nil
		})
	})

	g.GET("/checkpoints", func(c echo.Context) error {
		rows, err := api.Services().Checkpoints.All()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"checkpoints": rows})
	})
}
