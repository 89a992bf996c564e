package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-planner/internal/bot"
	"task-planner/internal/httpapi"
	"task-planner/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and scheduled jobs",
		Long: `Run the planner.

The HTTP API always starts. The Telegram bot and the daily report start
when TELEGRAM_TOKEN is set.

Examples:
  planner serve
  planner serve --config planner.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	scheduler := service.NewSchedulerService(a.clock.Location(), a.log.Named("cron"))

	botErr := make(chan error, 1)
	if a.cfg.BotEnabled() {
		telegramBot, err := bot.New(a.cfg.TelegramToken, a.users, a.planner, a.tasks, a.lists, a.reminder, a.clock, a.log.Named("bot"))
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleDaily("daily-report", a.cfg.ReportTime, telegramBot.SendDailyReports); err != nil {
			return fmt.Errorf("schedule reports: %w", err)
		}
		if interval := a.cfg.ReportInterval(); interval > 0 {
			if _, err := scheduler.ScheduleInterval("interval-report", interval, telegramBot.SendDailyReports); err != nil {
				return fmt.Errorf("schedule interval reports: %w", err)
			}
		}
		go func() {
			botErr <- telegramBot.Start(ctx)
		}()
	} else {
		a.log.Warn("TELEGRAM_TOKEN is empty, bot disabled")
		close(botErr)
	}

	scheduler.Start()
	defer scheduler.Stop()

	a.log.Info("planner started",
		zap.String("http", a.cfg.HTTP.Address),
		zap.String("timezone", a.clock.Location().String()),
		zap.Bool("bot", a.cfg.BotEnabled()),
	)

	server := httpapi.NewServer(a.planner, a.tasks, a.lists, a.clock, a.log.Named("http"))
	if err := server.Run(ctx, a.cfg.HTTP.Address, a.cfg.HTTP.Timeout); err != nil {
		return err
	}

	if err := <-botErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped with error: %w", err)
	}
	a.log.Info("shutdown complete")
	return nil
}
