package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"RefDesk/internal/adapter"
	_ "RefDesk/internal/adapter/csvsource"
	_ "RefDesk/internal/adapter/static"
	_ "RefDesk/internal/adapter/xlsxsource"
	"RefDesk/internal/api"
	"RefDesk/internal/config"
	"RefDesk/internal/repository"
	"RefDesk/internal/service"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. config
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. logging
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	if cfg.Server.Mode == gin.DebugMode {
		logrusLogger.SetLevel(logrus.DebugLevel)
	}
	logrusLogger.Info("config loaded")

	// 3. ledger backend
	ctx := context.Background()
	store, err := repository.OpenLedger(ctx, cfg, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("open ledger: %v", err)
	}
	logrusLogger.WithField("backend", store.Name()).Info("ledger ready")

	// 4. reference data; a failed source only leaves its table empty
	sources := adapter.NewSourceRegistry(cfg, logrusLogger)
	snapshots := service.NewSnapshotService(sources, service.NewLoader(cfg, logrusLogger), logrusLogger)
	refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := snapshots.Refresh(refreshCtx); err != nil {
		logrusLogger.WithError(err).Warn("initial refresh aborted, serving empty data")
	}
	cancel()

	ledger := service.NewLedgerService(store, snapshots,
		service.NewRemovalTracker(cfg.Designation.RemovalConfirmTimeout), logrusLogger)

	// 5. http
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	pprof.Register(r)
	logrusLogger.Infof("gin mode: %s", cfg.Server.Mode)

	api.RegisterRoutes(r,
		api.NewReferenceHandler(snapshots, logrusLogger),
		api.NewDesignationHandler(snapshots, ledger, cfg.Session, logrusLogger))

	port := cfg.Server.Port
	logrusLogger.Infof("listening on :%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Fatalf("server stopped: %v", err)
	}
}
