package main

import (
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vsdc.GO/api"
	_ "vsdc.GO/api/documents"
	_ "vsdc.GO/api/process"
	_ "vsdc.GO/api/realtime"
	_ "vsdc.GO/api/reference"
	_ "vsdc.GO/api/status"
	"vsdc.GO/config"
	"vsdc.GO/core/auth"
	"vsdc.GO/core/vsdc"
	"vsdc.GO/cron"
	"vsdc.GO/cron/jobs"
	_ "vsdc.GO/custom"
	"vsdc.GO/model/entity"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	// Initialize Redis
	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, caching disabled."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, caching disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	if err := db.AutoMigrate(entity.AllEntities()...); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	app := config.GetApp()
	client := vsdc.NewClient(app.BaseURL)
	container := api.NewContainer(db, client)
	api.SetServices(container)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())

	api.ApplyRoutes(e, db)
	api.ApplyModules(apiGroup, db)

	jobs.Register(container.Engine)
	sched := cron.StartCron()
	defer sched.Stop()
	jobs.StartInitialCheck(container.Engine)

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
	fig := figure.NewFigure(app.AppName, fonts[rand.Intn(len(fonts))], true)
	fig.Print()

	log.Printf("Server running on :%s (VSDC at %s)", app.Port, app.BaseURL)
	e.Logger.Fatal(e.Start(":" + app.Port))
}
