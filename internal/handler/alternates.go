package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/conversation"
	"github.com/mrgilbot/gilbot/internal/domain"
	tg "github.com/mrgilbot/gilbot/internal/telegram"
)

// handleReveal exposes a turn's alternate suggestions. Revealing is
// idempotent: once the alternates are visible, pressing the button again
// does nothing.
func (h *Handler) handleReveal(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil || cb.Message.Message == nil {
		return
	}
	defer b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	chatID := cb.Message.Message.Chat.ID
	turnID := strings.TrimPrefix(cb.Data, "alt_")

	revealKey := fmt.Sprintf("%d:%s", chatID, turnID)
	h.revealMu.Lock()
	if _, seen := h.revealed[revealKey]; seen {
		h.revealMu.Unlock()
		return
	}
	h.revealed[revealKey] = struct{}{}
	h.revealMu.Unlock()

	conv := h.conversation(ctx, chatID)

	var structured *domain.StructuredAnswer
	for _, turn := range conv.History() {
		if turn.ID == turnID && turn.Answer != nil && turn.Answer.Kind == domain.AnswerStructured {
			structured = turn.Answer.Structured
			break
		}
	}

	text, err := h.alternatesText(ctx, conv, structured)
	if err != nil {
		// Transient failure: give the key back so the button still works.
		h.revealMu.Lock()
		delete(h.revealed, revealKey)
		h.revealMu.Unlock()
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⌛ Couldn't fetch more suggestions right now, try the button again.",
		})
		return
	}
	if text == "" {
		text = "That's everything I have for this one!"
	}
	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		h.revealMu.Lock()
		delete(h.revealed, revealKey)
		h.revealMu.Unlock()
	}
}

// alternatesText lists the answer's own alternates in source order,
// falling back to the backend's session-keyed alternates endpoint when
// the answer carries none. The error is transient: nothing to show is
// an empty string, not a failure.
func (h *Handler) alternatesText(ctx context.Context, conv *conversation.Controller, s *domain.StructuredAnswer) (string, error) {
	var diagrams []domain.DiagramEntry
	var videos []domain.VideoRef
	var lessons []string

	if s != nil {
		if s.Diagram != nil {
			diagrams = s.Diagram.Alternates
		}
		if s.Video != nil {
			videos = s.Video.Alternates
		}
		if s.Lessons != nil {
			lessons = s.Lessons.Alternates
		}
	}

	if len(diagrams) == 0 && len(videos) == 0 && len(lessons) == 0 {
		sess, err := conv.Session(ctx)
		if err != nil {
			return "", fmt.Errorf("load session: %w", err)
		}
		alternates, err := h.tutor.Alternates(ctx, sess.ID)
		if err != nil {
			slog.Warn("fetch alternates", "error", err)
			return "", fmt.Errorf("fetch alternates: %w", err)
		}
		diagrams = alternates.GeoGebraAlternates
		videos = alternates.VideoAlternates
	}

	var sb strings.Builder
	for _, d := range diagrams {
		title := d.Title
		if title == "" {
			title = "Interactive activity"
		}
		fmt.Fprintf(&sb, "📐 [%s](%s)\n", title, d.URL)
	}
	for _, v := range videos {
		fmt.Fprintf(&sb, "▶️ [%s](%s)\n", v.Title, v.URL)
	}
	for _, l := range lessons {
		fmt.Fprintf(&sb, "📒 %s\n", l)
	}

	if sb.Len() == 0 {
		return "", nil
	}
	return "✨ More suggestions:\n\n" + strings.TrimRight(sb.String(), "\n"), nil
}
