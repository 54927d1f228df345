package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vitrinedecor/catalogo/config"
	"github.com/vitrinedecor/catalogo/internal/adminapi"
	"github.com/vitrinedecor/catalogo/internal/app"
	"github.com/vitrinedecor/catalogo/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "catalogo.yml", "config file")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init()
	defer application.Release()

	webserver.Init(application)
	adminapi.RegisterRoutes()

	go func() {
		if err := webserver.Listen(); err != nil {
			zap.S().Errorf("web server stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.S().Info("shutting down")
	webserver.Shutdown()
}
