package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(data, prefix))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(value), nil
}

// parseTaskDayArgs reads "<id> [day]" command arguments. The day defaults
// to today.
func parseTaskDayArgs(args string, today calendar.Day) (uint, calendar.Day, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, "", fmt.Errorf("expected <id> [day], got %q", args)
	}
	taskID, err := parseTaskID(fields[0], "")
	if err != nil {
		return 0, "", err
	}
	day := today
	if len(fields) == 2 {
		if day, err = parseDayArg(fields[1], today); err != nil {
			return 0, "", err
		}
	}
	return taskID, day, nil
}

func parseRecurringInput(text string) (model.Recurring, bool) {
	value := strings.TrimSpace(strings.ToLower(text))
	for _, kind := range recurringOrder {
		if value == string(kind) || value == strings.ToLower(recurringLabel(kind)) {
			return kind, true
		}
	}
	return "", false
}

func recurringLabel(kind model.Recurring) string {
	switch kind {
	case model.RecurringOnce:
		return "Один раз"
	case model.RecurringPerpetual:
		return "Всегда ♾"
	case model.RecurringDaily:
		return "Каждый день"
	case model.RecurringWeekly:
		return "Каждую неделю"
	case model.RecurringMonthly:
		return "Каждый месяц"
	case model.RecurringYearly:
		return "Каждый год"
	default:
		return string(kind)
	}
}

func dayLabel(day, today calendar.Day) string {
	switch day {
	case today:
		return "сегодня"
	case today.AddDays(1):
		return "завтра"
	default:
		return day.String()
	}
}

func listLabel(name string) string {
	return fmt.Sprintf("📁 <b>%s</b>", escape(normalizeTitle(name)))
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "пропустить" || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "подтвердить" || value == "да"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "отмена" || value == "нет"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "отменить ввод"
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}
