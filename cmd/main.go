package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/MaurerErik/power-data-downloader/cmd/controllers"
	"github.com/MaurerErik/power-data-downloader/internal/config"
	"github.com/MaurerErik/power-data-downloader/internal/repo"
	"github.com/MaurerErik/power-data-downloader/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

const defaultConfigPath = "config.json"

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := repo.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	logService, err := services.NewLogService(db)
	if err != nil {
		log.Fatalf("create log service: %v", err)
	}

	pageService, err := services.NewPageService(nil, time.Duration(cfg.FetchTimeout)*time.Second)
	if err != nil {
		log.Fatalf("create page service: %v", err)
	}

	archiveService, err := services.NewArchiveService(cfg.ArchiveRoot)
	if err != nil {
		log.Fatalf("create archive service: %v", err)
	}

	ledgerService, err := services.NewLedgerService(cfg.LedgerRoot)
	if err != nil {
		log.Fatalf("create ledger service: %v", err)
	}

	harvestService, err := services.NewHarvestService(
		pageService,
		archiveService,
		ledgerService,
		logService,
		cfg.BaseURL,
		time.Duration(cfg.PaceMs)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("create harvest service: %v", err)
	}

	runService, err := services.NewRunService(db)
	if err != nil {
		log.Fatalf("create run service: %v", err)
	}

	pipelineService, err := services.NewPipelineService(harvestService, runService, logService, config.Jobs)
	if err != nil {
		log.Fatalf("create pipeline service: %v", err)
	}

	logsController, err := controllers.NewLogsController(logService)
	if err != nil {
		log.Fatalf("create logs controller: %v", err)
	}

	harvestController, err := controllers.NewHarvestController(pipelineService)
	if err != nil {
		log.Fatalf("create harvest controller: %v", err)
	}

	runsController, err := controllers.NewRunsController(runService)
	if err != nil {
		log.Fatalf("create runs controller: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if err := controllers.RegisterHealthRoutes(router); err != nil {
		log.Fatalf("register health routes: %v", err)
	}
	if err := logsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register logs routes: %v", err)
	}
	if err := harvestController.RegisterRoutes(router); err != nil {
		log.Fatalf("register harvest routes: %v", err)
	}
	if err := runsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register runs routes: %v", err)
	}

	if err := startCron(pipelineService); err != nil {
		log.Fatalf("start cron: %v", err)
	}

	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

type pipelineRefresher interface {
	Refresh(ctx context.Context) error
}

func startCron(service pipelineRefresher) error {
	if service == nil {
		return errors.New("pipeline service is nil")
	}

	scheduler := cron.New()

	if _, err := scheduler.AddFunc("@every 6h", func() {
		if err := service.Refresh(context.Background()); err != nil {
			log.Printf("harvest refresh: %v", err)
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	return nil
}
