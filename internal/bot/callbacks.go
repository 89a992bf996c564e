package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	cbCompletePrefix   = "complete:"
	cbUncompletePrefix = "uncomplete:"
	cbDeletePrefix     = "delete:"
	cbListPrefix       = "list:"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID
	b.log.Debug("callback", zap.Int64("from", cb.From.ID), zap.String("data", data))

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		taskID, err := parseTaskID(data, cbCompletePrefix)
		if err != nil {
			return nil
		}
		return b.transitionAndRefresh(ctx, chatID, cb.From, taskID, b.complete)
	case strings.HasPrefix(data, cbUncompletePrefix):
		taskID, err := parseTaskID(data, cbUncompletePrefix)
		if err != nil {
			return nil
		}
		return b.transitionAndRefresh(ctx, chatID, cb.From, taskID, b.uncomplete)
	case strings.HasPrefix(data, cbDeletePrefix):
		taskID, err := parseTaskID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(ctx, chatID, cb.From, taskID)
	case strings.HasPrefix(data, cbListPrefix):
		listID, err := parseTaskID(data, cbListPrefix)
		if err != nil {
			return nil
		}
		user, err := b.ensureUser(ctx, cb.From)
		if err != nil {
			return err
		}
		return b.sendListTasks(ctx, chatID, user, listID)
	default:
		return nil
	}
}

// transitionAndRefresh applies fn and resends today's agenda.
func (b *Bot) transitionAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint, fn transition) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	text, err := fn(ctx, user, taskID)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if err := b.sendText(chatID, text); err != nil {
		return err
	}
	return b.sendAgenda(ctx, chatID, user, b.clock.Today())
}

func (b *Bot) askDeleteConfirmation(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := b.tasks.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return b.replyError(chatID, err)
	}

	text := fmt.Sprintf("Удалить задачу \"%s\" (#%d)?", escape(normalizeTitle(task.Title)), task.ID)
	b.setConfirmation(from.ID, confirmationRequest{taskID: task.ID})
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.deleteTaskAndRefresh(ctx, msg.Chat.ID, msg.From, req.taskID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Подтверди или отмени удаление задачи.", confirmKeyboard())
	}
}

func (b *Bot) deleteTaskAndRefresh(ctx context.Context, chatID int64, from *tgbotapi.User, taskID uint) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}

	task, err := b.tasks.DeleteTask(ctx, user.ID, taskID)
	if err != nil {
		text, internal := userMessage(err)
		if internal {
			b.log.Error("delete task", zap.Uint("task_id", taskID), zap.Error(err))
		}
		return b.sendTextWithRemove(chatID, text)
	}

	b.log.Info("task deleted", zap.Uint("task_id", task.ID), zap.Uint("user_id", user.ID))
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 Задача \"%s\" удалена.", escape(normalizeTitle(task.Title)))); err != nil {
		return err
	}

	return b.sendAgenda(ctx, chatID, user, b.clock.Today())
}
