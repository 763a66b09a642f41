package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rakelog/internal/auth"
	"github.com/mamadbah2/rakelog/internal/config"
	"github.com/mamadbah2/rakelog/internal/observability/metrics"
	"github.com/mamadbah2/rakelog/internal/repository/mongodb"
	"github.com/mamadbah2/rakelog/internal/repository/sheets"
	"github.com/mamadbah2/rakelog/internal/scheduler"
	"github.com/mamadbah2/rakelog/internal/server/handlers"
	"github.com/mamadbah2/rakelog/internal/server/router"
	entrysvc "github.com/mamadbah2/rakelog/internal/service/entry"
	reportingsvc "github.com/mamadbah2/rakelog/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/rakelog/internal/service/whatsapp"
	"github.com/mamadbah2/rakelog/pkg/clients/appscript"
	"github.com/mamadbah2/rakelog/pkg/clients/export"
	whatsappclient "github.com/mamadbah2/rakelog/pkg/clients/whatsapp"
	"github.com/mamadbah2/rakelog/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	metrics.Init()

	source, err := newTableSource(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init spreadsheet source", zap.Error(err))
	}

	audit, summaries, closeStore := newStores(cfg, baseLogger)
	defer closeStore()

	reportingSvc := reportingsvc.NewService(source, cfg.Export.CacheTTL, logger.Named(baseLogger, "svc.reporting"))
	entrySvc := entrysvc.NewService(
		appscript.NewClient(cfg.Submission),
		audit,
		reportingSvc,
		cfg.Validation.FreshnessWindow,
		logger.Named(baseLogger, "svc.entry"),
	)

	var whatsClient whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, daily summaries are stored but not sent")
	}
	messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))

	var notifier whatsappsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = messagingSvc
	}
	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, summaries, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	authMW := auth.NewMiddleware(auth.NewJWTAuthenticator([]byte(cfg.Auth.JWTSecret)), logger.Named(baseLogger, "auth"))
	rakeHandler := handlers.NewRakeHandler(entrySvc, reportingSvc, cfg.Export.RecentLimit, logger.Named(baseLogger, "handlers.rake"))
	notificationHandler := handlers.NewNotificationHandler(messagingSvc, logger.Named(baseLogger, "handlers.notification"))
	engine := router.New(rakeHandler, notificationHandler, authMW, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Submission.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newTableSource prefers the Sheets API when a spreadsheet id is configured
// and falls back to the published XLSX export.
func newTableSource(cfg *config.Config, base *zap.Logger) (reportingsvc.TableSource, error) {
	if cfg.Sheets.SpreadsheetID != "" {
		base.Info("reading spreadsheet through the sheets api")
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(base, "repo.sheets"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	base.Info("reading spreadsheet from the published export")
	return export.NewClient(cfg.Export), nil
}

// newStores connects the audit log and summary store. Without a MongoDB URI, or
// when the connection fails, rake entry keeps working without persistence.
func newStores(cfg *config.Config, base *zap.Logger) (entrysvc.AuditStore, scheduler.SummaryStore, func()) {
	if !cfg.MongoDB.Enabled() {
		base.Warn("MONGODB_URI not set, submission audit and summary persistence disabled")
		return nil, nil, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		base.Error("failed to init mongodb repository, continuing without persistence", zap.Error(err))
		return nil, nil, func() {}
	}

	closeFn := func() {
		if err := repo.Close(context.Background()); err != nil {
			base.Error("failed to close mongodb connection", zap.Error(err))
		}
	}
	return repo, repo, closeFn
}
