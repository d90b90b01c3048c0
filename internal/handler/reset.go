package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleReset replaces the session and wipes the history atomically.
func (h *Handler) handleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	if _, err := h.conversation(ctx, chatID).Reset(ctx); err != nil {
		slog.Error("reset session", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not reset the session, please try again.",
		})
		return
	}

	// Reveal state of the removed turns is gone with them.
	prefix := fmt.Sprintf("%d:", chatID)
	h.revealMu.Lock()
	for key := range h.revealed {
		if strings.HasPrefix(key, prefix) {
			delete(h.revealed, key)
		}
	}
	h.revealMu.Unlock()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔄 Fresh start! Ask me anything about geometry.",
	})
}
