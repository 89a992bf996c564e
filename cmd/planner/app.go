package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-planner/internal/calendar"
	"task-planner/internal/config"
	"task-planner/internal/logger"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	db    *gorm.DB
	clock *calendar.Clock

	users    *repository.UserRepository
	planner  *service.PlannerService
	tasks    *service.TaskService
	lists    *service.ListService
	reminder *service.ReminderService
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("db: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	plannedRepo := repository.NewPlannedTaskRepository(db)
	listRepo := repository.NewListRepository(db)

	planner := service.NewPlannerService(taskRepo, plannedRepo, log)
	lists := service.NewListService(listRepo)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		clock:    calendar.NewClock(cfg.Location()),
		users:    repository.NewUserRepository(db),
		planner:  planner,
		tasks:    service.NewTaskService(taskRepo, plannedRepo, listRepo),
		lists:    lists,
		reminder: service.NewReminderService(planner, lists),
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Warn("close db", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

