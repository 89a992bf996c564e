package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
	"task-planner/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n<b>Я планировщик: помню, что и когда нужно сделать, и сам переношу повторяющиеся задачи.</b>\n\n"+
			"Начни с /newtask, а план на день смотри в /today.\nВсе команды: /help",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Подсказки</b>\n" +
		"• /today, /tomorrow — план на сегодня и на завтра\n" +
		"• /newtask — добавить задачу пошагово\n" +
		"• /complete &lt;id&gt; — отметить выполненной\n" +
		"• /uncomplete &lt;id&gt; — снять отметку\n" +
		"• /schedule &lt;id&gt; [сегодня|завтра|2025-11-30] — запланировать на день\n" +
		"• /unschedule &lt;id&gt; [день] — убрать из плана\n" +
		"• /rollforward &lt;id&gt; — перенести просроченную повторяющуюся задачу\n" +
		"• /archive, /unarchive &lt;id&gt; — убрать в архив и вернуть\n" +
		"• /archived — архив\n" +
		"• /delete &lt;id&gt; — удалить задачу полностью\n" +
		"• /lists — списки задач\n" +
		"• /report — отчёт за сегодня\n" +
		"• /cancel — отменить текущий ввод"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.reminder.DailySummary(ctx, *user, b.clock.Today())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleAgenda(ctx context.Context, msg *tgbotapi.Message, tomorrow bool) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	today := b.clock.Today()
	day := today
	if tomorrow {
		day = today.AddDays(1)
	}
	return b.sendAgenda(ctx, msg.Chat.ID, user, day)
}

// sendAgenda rolls stale recurring tasks forward and shows day's plan with
// complete buttons.
func (b *Bot) sendAgenda(ctx context.Context, chatID int64, user *model.User, day calendar.Day) error {
	today := b.clock.Today()
	if _, err := b.planner.RollforwardOverdue(ctx, user.ID, today); err != nil {
		return b.replyError(chatID, err)
	}
	views, err := b.planner.Agenda(ctx, user.ID, day, today)
	if err != nil {
		return b.replyError(chatID, err)
	}
	listNames, err := b.lists.Names(ctx, user.ID)
	if err != nil {
		return b.replyError(chatID, err)
	}

	if len(views) == 0 {
		return b.sendText(chatID, fmt.Sprintf("На %s задач нет. Добавь новую через /newtask.", dayLabel(day, today)))
	}

	text, buttons := renderAgenda(views, listNames, day, today)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	}
	_, err = b.api.Send(msg)
	return err
}

// renderAgenda builds the day view text and one button row per task.
func renderAgenda(views []model.TaskView, listNames map[uint]string, day, today calendar.Day) (string, [][]tgbotapi.InlineKeyboardButton) {
	sections := service.SplitAgenda(views, day)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>План на %s</b>\n\n", dayLabel(day, today)))

	var buttons [][]tgbotapi.InlineKeyboardButton
	write := func(title string, items []model.TaskView) {
		if len(items) == 0 {
			return
		}
		builder.WriteString(title + "\n")
		for _, view := range items {
			builder.WriteString(service.FormatTaskView(view, listNames, today))
			buttons = append(buttons, taskButtons(view))
		}
		builder.WriteByte('\n')
	}
	write("🔥 <b>Срок</b>", sections.Due)
	write("📌 <b>Запланировано</b>", sections.Planned)
	write("✅ <b>Выполнено</b>", sections.Done)

	return strings.TrimSpace(builder.String()), buttons
}

func taskButtons(view model.TaskView) []tgbotapi.InlineKeyboardButton {
	if view.IsComplete {
		return tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("↩️ #%d · %s", view.ID, shortTitle(view.Title, 20)), fmt.Sprintf("%s%d", cbUncompletePrefix, view.ID)),
		)
	}
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", view.ID, shortTitle(view.Title, 20)), fmt.Sprintf("%s%d", cbCompletePrefix, view.ID)),
		tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, view.ID)),
	)
}

// Transitions

type transition func(ctx context.Context, user *model.User, taskID uint) (string, error)

func (b *Bot) handleTransition(ctx context.Context, msg *tgbotapi.Message, usage string, fn transition) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Укажи ID задачи числом: "+usage)
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := fn(ctx, user, taskID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) complete(ctx context.Context, user *model.User, taskID uint) (string, error) {
	if _, err := b.planner.Complete(ctx, user.ID, taskID, b.clock.Today()); err != nil {
		return "", err
	}
	b.log.Info("task completed", zap.Uint("task_id", taskID), zap.Uint("user_id", user.ID))
	return fmt.Sprintf("✅ Задача #%d выполнена.", taskID), nil
}

func (b *Bot) uncomplete(ctx context.Context, user *model.User, taskID uint) (string, error) {
	if _, err := b.planner.Uncomplete(ctx, user.ID, taskID, b.clock.Today()); err != nil {
		return "", err
	}
	return fmt.Sprintf("↩️ Отметка с задачи #%d снята.", taskID), nil
}

func (b *Bot) rollforward(ctx context.Context, user *model.User, taskID uint) (string, error) {
	if _, err := b.planner.Rollforward(ctx, user.ID, taskID, b.clock.Today()); err != nil {
		return "", err
	}
	task, err := b.tasks.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⏭ Задача «%s» перенесена на %s.", escape(normalizeTitle(task.Title)), task.DueDate), nil
}

func (b *Bot) archive(ctx context.Context, user *model.User, taskID uint) (string, error) {
	if _, err := b.tasks.Archive(ctx, user.ID, taskID); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗄 Задача #%d в архиве.", taskID), nil
}

func (b *Bot) unarchive(ctx context.Context, user *model.User, taskID uint) (string, error) {
	if _, err := b.tasks.Unarchive(ctx, user.ID, taskID); err != nil {
		return "", err
	}
	return fmt.Sprintf("📤 Задача #%d возвращена из архива.", taskID), nil
}

func (b *Bot) handleSchedule(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, day, err := parseTaskDayArgs(msg.CommandArguments(), b.clock.Today())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Формат: /schedule 12 завтра или /schedule 12 2025-11-30")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if _, err := b.planner.Schedule(ctx, user.ID, taskID, day); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📌 Задача #%d запланирована на %s.", taskID, dayLabel(day, b.clock.Today())))
}

func (b *Bot) handleUnschedule(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, day, err := parseTaskDayArgs(msg.CommandArguments(), b.clock.Today())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Формат: /unschedule 12 завтра")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	if _, err := b.planner.Unschedule(ctx, user.ID, taskID, day); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Задача #%d убрана из плана на %s.", taskID, dayLabel(day, b.clock.Today())))
}

func (b *Bot) handleArchived(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	today := b.clock.Today()
	views, err := b.planner.Archived(ctx, user.ID, today)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(views) == 0 {
		return b.sendText(msg.Chat.ID, "Архив пуст.")
	}
	listNames, err := b.lists.Names(ctx, user.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	var builder strings.Builder
	builder.WriteString("🗄 <b>Архив</b>\n")
	for _, view := range views {
		builder.WriteString(service.FormatTaskView(view, listNames, today))
	}
	builder.WriteString("\nВернуть задачу: /unarchive &lt;id&gt;")
	return b.sendText(msg.Chat.ID, builder.String())
}

// handleDelete удаляет задачу полностью вместе с её планом.
func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseTaskID(msg.CommandArguments(), "")
	if err != nil {
		return b.sendText(msg.Chat.ID, "Укажи ID задачи: /delete 12")
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	task, err := b.tasks.DeleteTask(ctx, user.ID, taskID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	b.log.Info("task deleted", zap.Uint("task_id", task.ID), zap.Uint("user_id", user.ID))
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Задача \"%s\" удалена.", escape(normalizeTitle(task.Title))))
}

func (b *Bot) handleLists(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	lists, err := b.lists.List(ctx, user.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(lists) == 0 {
		return b.sendText(msg.Chat.ID, "Списков пока нет. Они появятся при создании задачи.")
	}

	var builder strings.Builder
	builder.WriteString("📂 <b>Списки</b>\n")
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, list := range lists {
		builder.WriteString(fmt.Sprintf("• %s · %s\n", listLabel(list.Name), recurringLabel(list.RecurringDefault)))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(shortTitle(list.Name, 24), fmt.Sprintf("%s%d", cbListPrefix, list.ID)),
		))
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) sendListTasks(ctx context.Context, chatID int64, user *model.User, listID uint) error {
	list, err := b.lists.Get(ctx, user.ID, listID)
	if err != nil {
		return b.replyError(chatID, err)
	}
	today := b.clock.Today()
	views, err := b.planner.ListTasks(ctx, user.ID, listID, today)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if len(views) == 0 {
		return b.sendText(chatID, fmt.Sprintf("В списке %s нет активных задач.", listLabel(list.Name)))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s\n", listLabel(list.Name)))
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, view := range views {
		builder.WriteString(service.FormatTaskView(view, nil, today))
		buttons = append(buttons, taskButtons(view))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(msg)
	return err
}
