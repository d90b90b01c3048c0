package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/domain"
	tg "github.com/mrgilbot/gilbot/internal/telegram"
)

// handleHistory replays the persisted conversation in order.
func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID
	turns := h.conversation(ctx, chatID).History()

	if len(turns) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: config.GreetingText})
		return
	}

	for _, turn := range turns {
		if text := questionLine(turn); text != "" {
			tg.SendLongMessage(ctx, b, chatID, text, nil)
		}
		if turn.Answer != nil {
			h.sendAnswer(ctx, b, chatID, turn)
		}
	}
}

func questionLine(turn domain.Turn) string {
	var sb strings.Builder
	for _, att := range turn.Attachments {
		sb.WriteString("📎 " + att.Name + "\n")
	}
	if strings.TrimSpace(turn.Question) != "" {
		sb.WriteString("🙋 " + turn.Question)
	}
	return strings.TrimRight(sb.String(), "\n")
}
