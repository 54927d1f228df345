package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"

	"github.com/vitrinedecor/catalogo/config"
	"github.com/vitrinedecor/catalogo/internal/cart"
	"github.com/vitrinedecor/catalogo/internal/catalog"
	"github.com/vitrinedecor/catalogo/internal/store"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// RecordsProvider provides the record store holding products and categories
type RecordsProvider interface {
	Records() *store.Store
}

// CartsProvider provides the cart database
type CartsProvider interface {
	Carts() *cart.DB
}

// CatalogProvider provides the catalog mutation service
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// BusProvider provides the mutation event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	RecordsProvider
	CartsProvider
	CatalogProvider
	BusProvider
	SchedulerProvider

	// IDs returns the snowflake node used for opaque record ids
	IDs() *snowflake.Node
}
