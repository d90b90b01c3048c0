package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/domain"
	tg "github.com/mrgilbot/gilbot/internal/telegram"
)

// wolframCitationRe matches the citation line the resolver appends. The
// renderer lifts it into a URL button and strips any duplicates the
// model hallucinated into the body.
var wolframCitationRe = regexp.MustCompile(`\[Here is an explanation from Wolfram Alpha\]\((https?://[^\s)]+)\)`)

func splitWolframCitation(text string) (body, wolframURL string) {
	match := wolframCitationRe.FindStringSubmatch(text)
	if match == nil {
		return text, ""
	}
	return strings.TrimSpace(wolframCitationRe.ReplaceAllString(text, "")), match[1]
}

// sendAnswer renders a terminal turn's answer. The renderer switches on
// the resolved variant only; raw payload shape never reaches this layer.
func (h *Handler) sendAnswer(ctx context.Context, b *bot.Bot, chatID int64, turn domain.Turn) {
	answer := turn.Answer
	if answer == nil {
		return
	}

	if answer.Kind != domain.AnswerStructured || answer.Structured == nil {
		tg.SendLongMessage(ctx, b, chatID, answer.DisplayText(), nil)
		return
	}

	s := answer.Structured
	body, wolframURL := splitWolframCitation(s.PrimaryText)

	var sb strings.Builder
	sb.WriteString(body)

	if s.Lessons != nil {
		sb.WriteString("\n\n📒 Check your notes for: " + s.Lessons.Primary)
	}
	if s.Diagram != nil {
		sb.WriteString("\n\n" + h.diagramLine(ctx, s.Diagram))
	}
	if s.Video != nil {
		sb.WriteString(fmt.Sprintf("\n\n▶️ [%s](%s)", s.Video.Primary.Title, s.Video.Primary.URL))
	}

	var rows [][]models.InlineKeyboardButton
	if wolframURL != "" {
		rows = append(rows, tg.ButtonRow(tg.URLButton("🔎 Wolfram Alpha explanation", wolframURL)))
	}
	if s.HasAlternates() || s.Diagram != nil || s.Video != nil {
		rows = append(rows, tg.ButtonRow(tg.InlineButton("✨ More suggestions", "alt_"+turn.ID)))
	}

	var keyboard models.ReplyMarkup
	if len(rows) > 0 {
		keyboard = tg.InlineKeyboard(rows...)
	}
	tg.SendLongMessage(ctx, b, chatID, sb.String(), keyboard)
}

// diagramLine renders an embeddable diagram as a titled material link
// and a fallback reference as a plain outbound link, no lookup.
func (h *Handler) diagramLine(ctx context.Context, diagram *domain.DiagramRef) string {
	if diagram.Kind == domain.DiagramEmbeddable {
		title := "Interactive activity"
		if material, err := h.geogebra.Material(ctx, diagram.MaterialID); err == nil && material.Title != "" {
			title = material.Title
		}
		return fmt.Sprintf("📐 [%s](%s)", title, diagram.URL)
	}
	return fmt.Sprintf("📐 [Explore on GeoGebra](%s)", diagram.URL)
}
