package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vitrinedecor/catalogo/config"
	"github.com/vitrinedecor/catalogo/internal/cart"
	"github.com/vitrinedecor/catalogo/internal/catalog"
	"github.com/vitrinedecor/catalogo/internal/store"
)

type Application struct {
	appConfig *config.AppConfig
	records   *store.Store
	carts     *cart.DB
	ids       *snowflake.Node
	bus       EventBus.Bus
	sched     *cron.Cron
	catalog   *catalog.Service
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ RecordsProvider   = (*Application)(nil)
	_ CartsProvider     = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }
func (a *Application) Records() *store.Store     { return a.records }
func (a *Application) Carts() *cart.DB           { return a.carts }
func (a *Application) Catalog() *catalog.Service { return a.catalog }
func (a *Application) Bus() EventBus.Bus         { return a.bus }
func (a *Application) Scheduler() *cron.Cron     { return a.sched }
func (a *Application) IDs() *snowflake.Node      { return a.ids }

// Init wires the full application: logger, stores, catalog service and jobs.
func (a *Application) Init() {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	if err := a.InitStores(); err != nil {
		zap.S().Fatalf("storage init failed: %v", err)
	}
	zap.S().Infof("record store ready in %s", cfg.System.Workdir)

	if cfg.Catalog.SeedOnEmpty {
		if n, err := a.catalog.SeedIfEmpty(a.listUploadImages()); err != nil {
			zap.S().Errorf("seed failed: %v", err)
		} else if n > 0 {
			zap.S().Infof("seeded %d sample products", n)
		}
	}

	if n, err := a.catalog.RenameCameraRollProducts(); err != nil {
		zap.S().Errorf("product name repair failed: %v", err)
	} else if n > 0 {
		zap.S().Infof("renamed %d products to label-based names", n)
	}

	a.initJob()
}

func (a *Application) initLogger() {
	cfg := a.appConfig
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// InitStores opens both bbolt files and builds the catalog service. Split out
// of Init so tests can bring up storage without logging or jobs.
func (a *Application) InitStores() error {
	cfg := a.appConfig
	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	records, err := store.Open(filepath.Join(cfg.System.Workdir, "catalogo.db"))
	if err != nil {
		return err
	}
	a.records = records

	// carts live in their own file: independent resource, no shared lock
	carts, err := cart.Open(filepath.Join(cfg.System.Workdir, "carts.db"))
	if err != nil {
		return err
	}
	a.carts = carts

	a.ids, err = snowflake.NewNode(1)
	if err != nil {
		return err
	}
	a.bus = EventBus.New()
	a.catalog = catalog.NewService(a.records, a.ids, a.bus, cfg.Catalog.MessageTemplate)
	return nil
}

// listUploadImages collects image files already present in the upload dir, so
// seeding can attach a sample product to each of them.
func (a *Application) listUploadImages() []string {
	entries, err := os.ReadDir(a.appConfig.UploadDir())
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp", ".gif":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.records != nil {
		_ = a.records.Close()
	}
	if a.carts != nil {
		_ = a.carts.Close()
	}
	_ = zap.L().Sync()
}
