package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vitrinedecor/catalogo/internal/catalog"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	// nightly catalog snapshot, same payload as a manual export
	if _, err := a.sched.AddFunc("@daily", a.backupCatalog); err != nil {
		zap.S().Errorf("failed to schedule catalog backup: %v", err)
	}

	// mutation log: the server-side analog of the storefront toasts
	_ = a.bus.Subscribe(catalog.EventProductSaved, func(id string) {
		zap.S().Infof("product saved id=%s", id)
	})
	_ = a.bus.Subscribe(catalog.EventProductDeleted, func(id string) {
		zap.S().Infof("product deleted id=%s", id)
	})
	_ = a.bus.Subscribe(catalog.EventCategoryDeleted, func(name string, cleared int) {
		zap.S().Infof("category %q deleted, class cleared on %d products", name, cleared)
	})
	_ = a.bus.Subscribe(catalog.EventImported, func(count int) {
		zap.S().Infof("catalog import replaced collection with %d products", count)
	})

	a.sched.Start()
}

// backupCatalog writes the export payload to workdir/backup, one file per day.
func (a *Application) backupCatalog() {
	data, err := a.catalog.Export()
	if err != nil {
		zap.S().Errorf("catalog backup export failed: %v", err)
		return
	}
	dir := a.appConfig.BackupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.S().Errorf("catalog backup mkdir failed: %v", err)
		return
	}
	name := fmt.Sprintf("produtos-%s.json", time.Now().Format("2006-01-02"))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		zap.S().Errorf("catalog backup write failed: %v", err)
		return
	}
	zap.S().Infof("catalog backup written: %s", name)
}
