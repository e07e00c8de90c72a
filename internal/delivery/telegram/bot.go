package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/agentflow/agentflow/internal/classifier"
	"github.com/agentflow/agentflow/pkg/client"
)

const (
	callbackDonePrefix   = "done_"
	callbackRemovePrefix = "remove_"
)

const helpText = `<b>Available commands:</b>
/add <i>[task text]</i> - Add a new task
/list - Show all your tasks
/edit <i>[ID] [new text]</i> - Change the text of a task
/clear - Delete all your tasks`

// Bot is the chat front-end: it turns commands, button presses and
// free-text messages into calls against the task API. The chat user id
// is the task owner id.
type Bot struct {
	logger  zerolog.Logger
	api     *tgbotapi.BotAPI
	tasks   *client.Client
	intents classifier.Classifier
}

func NewBot(
	logger zerolog.Logger,
	api *tgbotapi.BotAPI,
	tasks *client.Client,
	intents classifier.Classifier,
) *Bot {
	return &Bot{
		logger:  logger,
		api:     api,
		tasks:   tasks,
		intents: intents,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context, pollTimeout time.Duration) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = int(pollTimeout.Seconds())
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info().
		Str("username", b.api.Self.UserName).
		Msg("bot started polling")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("bot stopped polling")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.reply(message, "Hi! I am your personal task manager. Use /help to see the commands.")
	case "help":
		b.replyHTML(message, helpText)
	case "add":
		b.handleAdd(ctx, message, message.CommandArguments())
	case "list":
		b.handleList(ctx, message)
	case "edit":
		b.handleEdit(ctx, message)
	case "clear":
		b.handleClear(ctx, message)
	default:
		b.reply(message, "Unknown command. Use /help to see what I can do.")
	}
}

// handleText routes a free-text message through the intent classifier.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	intent := b.intents.Classify(message.Text)
	b.logger.Debug().
		Int64("user_id", message.From.ID).
		Str("intent", string(intent)).
		Msg("classified message")

	switch intent {
	case classifier.IntentGreeting:
		b.reply(message, "Hi! How can I help?")
	case classifier.IntentThanks:
		b.reply(message, "You are welcome!")
	case classifier.IntentListTasks:
		b.handleList(ctx, message)
	case classifier.IntentAddTask:
		b.handleAdd(ctx, message, message.Text)
	default:
		b.reply(message, "I did not quite get that. I manage task lists; use /help for the commands.")
	}
}

func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		b.replyHTML(message, "Please provide the task text after the command.\nFor example: <code>/add Buy milk</code>")
		return
	}

	userID := message.From.ID
	_, err := b.tasks.AddTask(ctx, userID, title)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to add task")
		b.reply(message, "❌ Could not add the task. The service may be temporarily unavailable.")
		return
	}

	b.logger.Info().
		Int64("user_id", userID).
		Msg("added task")
	b.reply(message, "✅ Task added!")
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	tasks, err := b.tasks.Tasks(ctx, userID)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to list tasks")
		b.reply(message, "❌ Could not fetch your task list.")
		return
	}

	if len(tasks) == 0 {
		b.reply(message, "You have no tasks yet. Add the first one with /add!")
		return
	}

	b.replyHTML(message, "<b>Your task list:</b>")
	for _, task := range tasks {
		text := fmt.Sprintf("<b>%d.</b> %s", task.ID, task.Title)
		if task.Status == "done" {
			text += " ✅"
		}

		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Done", callbackDonePrefix+strconv.FormatInt(task.ID, 10)),
				tgbotapi.NewInlineKeyboardButtonData("🗑 Remove", callbackRemovePrefix+strconv.FormatInt(task.ID, 10)),
			),
		)
		b.send(msg)
	}
}

func (b *Bot) handleEdit(ctx context.Context, message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())
	if len(args) < 2 {
		b.replyHTML(message, "<b>Wrong format.</b>\nUse: <code>/edit [ID] [new text]</code>")
		return
	}
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || taskID <= 0 {
		b.replyHTML(message, "<b>Wrong format.</b>\nUse: <code>/edit [ID] [new text]</code>")
		return
	}

	userID := message.From.ID
	newTitle := strings.Join(args[1:], " ")
	_, err = b.tasks.UpdateTaskTitle(ctx, userID, taskID, newTitle)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			b.reply(message, "❌ There is no task with that ID.")
			return
		}
		b.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("task_id", taskID).
			Msg("failed to edit task")
		b.reply(message, "❌ Could not update the task.")
		return
	}

	b.reply(message, fmt.Sprintf("✅ Task [ID: %d] updated.", taskID))
}

func (b *Bot) handleClear(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	deleted, err := b.tasks.ClearTasks(ctx, userID)
	if err != nil {
		if isStatus(err, http.StatusForbidden) {
			b.reply(message, "❌ You have too many tasks to delete at once. Remove some first.")
			return
		}
		b.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to clear tasks")
		b.reply(message, "❌ Could not delete your tasks.")
		return
	}

	b.reply(message, fmt.Sprintf("✅ All your tasks were deleted (%d total).", deleted))
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	// Acknowledge the button press so the client stops the spinner.
	_, _ = b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	edit := func(text string) {
		b.send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	}

	switch {
	case strings.HasPrefix(query.Data, callbackDonePrefix):
		taskID, err := strconv.ParseInt(strings.TrimPrefix(query.Data, callbackDonePrefix), 10, 64)
		if err != nil {
			return
		}
		_, err = b.tasks.UpdateTaskStatus(ctx, userID, taskID, "done")
		if err != nil {
			if isStatus(err, http.StatusNotFound) {
				edit("This task has already been deleted.")
				return
			}
			b.logger.Error().
				Err(err).
				Int64("user_id", userID).
				Int64("task_id", taskID).
				Msg("failed to complete task")
			edit("❌ Could not complete the task.")
			return
		}
		edit(fmt.Sprintf("Task [ID: %d] is done. Great job!", taskID))

	case strings.HasPrefix(query.Data, callbackRemovePrefix):
		taskID, err := strconv.ParseInt(strings.TrimPrefix(query.Data, callbackRemovePrefix), 10, 64)
		if err != nil {
			return
		}
		err = b.tasks.RemoveTask(ctx, userID, taskID)
		if err != nil {
			if isStatus(err, http.StatusNotFound) {
				edit("This task has already been deleted.")
				return
			}
			b.logger.Error().
				Err(err).
				Int64("user_id", userID).
				Int64("task_id", taskID).
				Msg("failed to remove task")
			edit("❌ Could not remove the task.")
			return
		}
		edit(fmt.Sprintf("Task [ID: %d] removed.", taskID))
	}
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	b.send(tgbotapi.NewMessage(message.Chat.ID, text))
}

func (b *Bot) replyHTML(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	_, err := b.api.Send(c)
	if err != nil {
		b.logger.Error().
			Err(err).
			Msg("failed to send message")
	}
}

func isStatus(err error, code int) bool {
	var statusErr *client.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}
