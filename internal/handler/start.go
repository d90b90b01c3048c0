package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/middleware"
	"github.com/mrgilbot/gilbot/internal/storage"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	student := middleware.GetStudent(ctx)

	if student == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "👋 " + config.GreetingText + "\n\nFirst, tell me who you are:\n/iam Your Name you@school.edu",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("Welcome back, %s!\n\n%s", student.Name, config.GreetingText),
	})
}

// handleIAm captures the student identity. The external login flow sits
// outside this bot, so the chat supplies its `{name, email}` result
// directly; we store it opaquely and never re-validate it.
func (h *Handler) handleIAm(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	args := strings.Fields(strings.TrimPrefix(update.Message.Text, "/iam"))

	var email string
	var nameParts []string
	for _, arg := range args {
		if email == "" && strings.Contains(arg, "@") {
			email = arg
			continue
		}
		nameParts = append(nameParts, arg)
	}
	name := strings.Join(nameParts, " ")

	if name == "" || email == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Usage: /iam Your Name you@school.edu",
		})
		return
	}

	student := domain.Student{Name: name, Email: email}
	data, err := json.Marshal(student)
	if err == nil {
		err = h.store.Set(ctx, storage.StudentKey(chatID), data)
	}
	if err != nil {
		slog.Error("persist student identity", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not save your details, please try again.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ Nice to meet you, %s! Ask away.", student.Name),
	})
}
