package api

import (
	"gorm.io/gorm"

	"vsdc.GO/core/vsdc"
	activityRepo "vsdc.GO/model/repository/activity"
	checkpointRepo "vsdc.GO/model/repository/checkpoint"
	documentRepo "vsdc.GO/model/repository/document"
	feedsRepo "vsdc.GO/model/repository/feeds"
	itemRepo "vsdc.GO/model/repository/item"
	referenceRepo "vsdc.GO/model/repository/reference"
	documentService "vsdc.GO/service/document"
	stockService "vsdc.GO/service/stock"
	syncService "vsdc.GO/service/sync"
)

// Container bundles the shared services and repositories the route modules
// use. Built once in main and installed before ApplyRoutes/ApplyModules.
type Container struct {
	DB          *gorm.DB
	Client      *vsdc.Client
	Documents   *documentService.Service
	Engine      *syncService.Engine
	Items       *itemRepo.ItemRepository
	Docs        *documentRepo.DocumentRepository
	References  *referenceRepo.ReferenceRepository
	Checkpoints *checkpointRepo.CheckpointRepository
	Feeds       *feedsRepo.FeedsRepository
	Activity    *activityRepo.ActivityRepository
}

// NewContainer wires the full service graph for a database handle.
func NewContainer(db *gorm.DB, client *vsdc.Client) *Container {
	items := itemRepo.NewItemRepository(db)
	docs := documentRepo.NewDocumentRepository(db)
	refs := referenceRepo.NewReferenceRepository(db)
	checkpoints := checkpointRepo.NewCheckpointRepository(db)
	feeds := feedsRepo.NewFeedsRepository(db)
	activity := activityRepo.NewActivityRepository(db)

	stocks := stockService.NewService(items, client)
	documents := documentService.NewService(docs, items, stocks, activity, client)
	engine := syncService.NewEngine(client, checkpoints, refs, feeds, activity)

	return &Container{
		DB:          db,
		Client:      client,
		Documents:   documents,
		Engine:      engine,
		Items:       items,
		Docs:        docs,
		References:  refs,
		Checkpoints: checkpoints,
		Feeds:       feeds,
		Activity:    activity,
	}
}

var container *Container

// SetServices installs the container. Call once from main before applying
// route modules.
func SetServices(c *Container) {
	mu.Lock()
	container = c
	mu.Unlock()
}

// Services returns the installed container.
func Services() *Container {
	mu.Lock()
	defer mu.Unlock()
	if container == nil {
		panic("api/services: container not installed")
	}
	return container
}
