package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
	"task-planner/internal/service"
)

func agendaCmd() *cobra.Command {
	var (
		userID  uint
		date    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print a user's agenda for a day",
		Long: `Print the tasks a user should see on a day.

Overdue recurring tasks are rolled forward first, exactly as the bot and the
HTTP API do before showing an agenda.

Examples:
  planner agenda --user 1
  planner agenda --user 1 --date 2025-11-30 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			today := a.clock.Today()
			day := today
			if date != "" {
				if day, err = calendar.Parse(date); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if _, err := a.planner.RollforwardOverdue(ctx, userID, today); err != nil {
				return err
			}
			views, err := a.planner.Agenda(ctx, userID, day, today)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			listNames, err := a.lists.Names(ctx, userID)
			if err != nil {
				return err
			}
			printAgenda(cmd.OutOrStdout(), views, listNames, day, today, a.clock.Location())
			return nil
		},
	}

	cmd.Flags().UintVarP(&userID, "user", "u", 0, "planner user id")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printAgenda(w io.Writer, views []model.TaskView, listNames map[uint]string, day, today calendar.Day, loc *time.Location) {
	fmt.Fprintf(w, "Agenda for %s\n", day)
	if len(views) == 0 {
		fmt.Fprintln(w, "  nothing planned")
		return
	}

	sections := service.SplitAgenda(views, day)
	section := func(title string, items []model.TaskView) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		for _, view := range items {
			fmt.Fprintf(w, "  %s\n", agendaLine(view, listNames, today, loc))
		}
	}
	section("Due", sections.Due)
	section("Planned", sections.Planned)
	section("Done", sections.Done)
}

func agendaLine(view model.TaskView, listNames map[uint]string, today calendar.Day, loc *time.Location) string {
	mark := "[ ]"
	if view.IsComplete {
		mark = "[x]"
	}
	parts := []string{fmt.Sprintf("%s #%d %s", mark, view.ID, view.Title)}
	if name, ok := listNames[view.ListID]; ok {
		parts = append(parts, name)
	}
	parts = append(parts, string(view.Recurring))
	if view.DueDate != nil {
		parts = append(parts, "due "+relativeDay(*view.DueDate, today, loc))
	}
	return strings.Join(parts, " · ")
}

func relativeDay(day, today calendar.Day, loc *time.Location) string {
	if day == today {
		return "today"
	}
	return fmt.Sprintf("%s (%s)", day, humanize.RelTime(day.Time(loc), today.Time(loc), "ago", "from now"))
}
