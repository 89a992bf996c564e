package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	planner *PlannerService
	lists   *ListService
}

func NewReminderService(planner *PlannerService, lists *ListService) *ReminderService {
	return &ReminderService{planner: planner, lists: lists}
}

// AgendaSections splits an agenda the way the day view shows it.
type AgendaSections struct {
	Due     []model.TaskView
	Planned []model.TaskView
	Done    []model.TaskView
}

// SplitAgenda separates unfinished tasks due on or before day from the other
// unfinished ones and from completed tasks. Input order is kept.
func SplitAgenda(views []model.TaskView, day calendar.Day) AgendaSections {
	var s AgendaSections
	for _, view := range views {
		switch {
		case view.IsComplete:
			s.Done = append(s.Done, view)
		case view.Overdue(day):
			s.Due = append(s.Due, view)
		default:
			s.Planned = append(s.Planned, view)
		}
	}
	return s
}

// DailySummary rolls stale recurring tasks forward and renders today's agenda.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, today calendar.Day) (string, error) {
	if _, err := s.planner.RollforwardOverdue(ctx, user.ID, today); err != nil {
		return "", err
	}
	views, err := s.planner.Agenda(ctx, user.ID, today, today)
	if err != nil {
		return "", err
	}
	listNames, err := s.lists.Names(ctx, user.ID)
	if err != nil {
		return "", err
	}

	sections := SplitAgenda(views, today)

	var builder strings.Builder
	builder.WriteString("📋 <b>План на день</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", today.Format("02.01.2006")))

	builder.WriteString("🔥 <b>Срок сегодня</b>\n")
	writeSection(&builder, sections.Due, listNames, today, "— ничего срочного\n")

	builder.WriteString("\n📌 <b>Запланировано</b>\n")
	writeSection(&builder, sections.Planned, listNames, today, "— нет запланированных задач\n")

	if len(sections.Done) > 0 {
		builder.WriteString(fmt.Sprintf("\n✅ <b>Выполнено</b>: %d\n", len(sections.Done)))
	}

	return strings.TrimSpace(builder.String()), nil
}

func writeSection(b *strings.Builder, views []model.TaskView, listNames map[uint]string, today calendar.Day, empty string) {
	if len(views) == 0 {
		b.WriteString(empty)
		return
	}
	for _, view := range views {
		b.WriteString(FormatTaskView(view, listNames, today))
	}
}

// FormatTaskView renders one task as Telegram HTML.
func FormatTaskView(view model.TaskView, listNames map[uint]string, today calendar.Day) string {
	var sb strings.Builder

	icon := "🟢"
	switch {
	case view.IsComplete:
		icon = "✅"
	case view.DueDate != nil && view.DueDate.Before(today):
		icon = "⚠️"
	case view.DueDate != nil && !view.DueDate.After(today.AddDays(1)):
		icon = "⏳"
	}

	title := html.EscapeString(strings.TrimSpace(view.Title))
	sb.WriteString(fmt.Sprintf("%s <b>#%d</b> %s", icon, view.ID, title))
	if view.Recurring.HasDueDate() || view.Recurring == model.RecurringPerpetual {
		sb.WriteString(" " + RecurringIcon(view.Recurring))
	}

	if name, ok := listNames[view.ListID]; ok {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(trimmed)))
		}
	}

	if view.DueDate != nil {
		due := *view.DueDate
		if due.Before(today) && !view.IsComplete {
			sb.WriteString(fmt.Sprintf("\n   ⏰ срок %s — <b>просрочено</b>", due))
		} else {
			sb.WriteString(fmt.Sprintf("\n   ⏰ срок %s", due))
		}
	}
	if view.IsComplete && view.CompletedUntil != nil && *view.CompletedUntil != calendar.Forever {
		sb.WriteString(fmt.Sprintf("\n   ✅ выполнено до %s", *view.CompletedUntil))
	}
	if view.ScheduledTomorrow && !view.ScheduledToday {
		sb.WriteString("\n   📆 запланировано на завтра")
	}
	if view.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(view.Notes))))
	}

	sb.WriteByte('\n')
	return sb.String()
}

// RecurringIcon returns a short marker for the recurrence kind.
func RecurringIcon(kind model.Recurring) string {
	switch kind {
	case model.RecurringPerpetual:
		return "♾"
	case model.RecurringDaily:
		return "🔁1д"
	case model.RecurringWeekly:
		return "🔁7д"
	case model.RecurringMonthly:
		return "🔁1м"
	case model.RecurringYearly:
		return "🔁1г"
	default:
		return ""
	}
}
