package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Создаём новую задачу.\n<b>Шаг 1:</b> как её назвать?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Название не может быть пустым.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageNotes
		return b.sendWithReplyMarkup(msg.Chat.ID, "✏️ Добавь заметку (или нажми «Пропустить»).", skipKeyboard())
	case stageNotes:
		if !isSkipInput(text) {
			state.input.Notes = text
		}
		state.stage = stageList
		names, err := b.listNames(ctx, msg.From)
		if err != nil {
			return err
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, "📂 В какой список положить? Выбери или напиши новый.", listKeyboard(names))
	case stageList:
		state.input.ListName = defaultListName
		if !isSkipInput(text) {
			state.input.ListName = text
		}
		state.stage = stageRecurring
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔁 Как часто повторять? «Пропустить» — как принято в списке.", recurringKeyboard())
	case stageRecurring:
		if !isSkipInput(text) {
			kind, ok := parseRecurringInput(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Выбери вариант на клавиатуре.", recurringKeyboard())
			}
			state.input.Recurring = kind
		}
		state.stage = stageDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "📆 На какой день? Формат <code>2025-11-30</code>, «Сегодня» или «Завтра» (можно «Пропустить»).", dateKeyboard())
	case stageDate:
		input := state.input
		today := b.clock.Today()
		if isSkipInput(text) {
			if input.Recurring.Valid() && input.Recurring.HasDueDate() {
				input.DueDate = &today
			}
			err := b.finishTaskCreation(ctx, msg.From, msg.Chat.ID, func(user *model.User) (*model.Task, error) {
				return b.tasks.CreateTask(ctx, user.ID, input)
			})
			b.clearConversation(msg.From.ID)
			return err
		}
		day, err := parseDayArg(text, today)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Не могу распознать дату. Используй формат <code>2025-11-30</code> или «Пропустить».", dateKeyboard())
		}
		err = b.finishTaskCreation(ctx, msg.From, msg.Chat.ID, func(user *model.User) (*model.Task, error) {
			return b.tasks.CreateAndSchedule(ctx, user.ID, input, day)
		})
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Диалог сброшен. Попробуй ещё раз через /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, chatID int64, create func(user *model.User) (*model.Task, error)) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := create(user)
	if err != nil {
		return b.replyError(chatID, err)
	}

	b.log.Info("task created", zap.Uint("task_id", task.ID), zap.Uint("user_id", user.ID), zap.String("recurring", string(task.Recurring)))

	var summary strings.Builder
	summary.WriteString("✅ <b>Задача сохранена</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Название:</b> %s\n", escape(normalizeTitle(task.Title))))
	if task.Notes != "" {
		summary.WriteString(fmt.Sprintf("• <b>Заметка:</b> %s\n", escape(task.Notes)))
	}
	summary.WriteString(fmt.Sprintf("• <b>Повтор:</b> %s\n", recurringLabel(task.Recurring)))
	if task.DueDate != nil {
		summary.WriteString(fmt.Sprintf("• <b>Срок:</b> %s\n", *task.DueDate))
	}

	return b.sendTextWithRemove(chatID, strings.TrimSpace(summary.String()))
}

func (b *Bot) listNames(ctx context.Context, from *tgbotapi.User) ([]string, error) {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return nil, err
	}
	lists, err := b.lists.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(lists))
	for _, list := range lists {
		names = append(names, list.Name)
	}
	return names, nil
}

func parseDayArg(raw string, today calendar.Day) (calendar.Day, error) {
	value := strings.TrimSpace(strings.ToLower(raw))
	switch value {
	case "", "сегодня", "today", strings.ToLower(btnToday):
		return today, nil
	case "завтра", "tomorrow", strings.ToLower(btnTomorrow):
		return today.AddDays(1), nil
	}
	return calendar.Parse(value)
}
