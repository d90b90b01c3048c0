package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/conversation"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/middleware"
	tg "github.com/mrgilbot/gilbot/internal/telegram"
)

// HandleText processes private messages: attachments land in the
// composition buffer, text triggers submission.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	conv := h.conversation(ctx, chatID)

	attached := h.collectAttachments(ctx, b, msg, conv)

	text := msg.Text
	if msg.Caption != "" {
		text = msg.Caption
	}

	if strings.TrimSpace(text) == "" {
		if len(attached) > 0 {
			// Bare attachment: it waits in the buffer for the question.
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("📎 Got %s. Send your question whenever you're ready!", strings.Join(attached, ", ")),
			})
		}
		return
	}

	conv.SetQuestion(text)
	h.submit(ctx, b, chatID, conv, middleware.GetStudent(ctx))
}

// collectAttachments downloads the message's photo/document into the
// draft and returns the names it attached.
func (h *Handler) collectAttachments(ctx context.Context, b *bot.Bot, msg *models.Message, conv *conversation.Controller) []string {
	var attached []string

	if len(msg.Photo) > 0 {
		// Highest resolution variant comes last.
		photo := msg.Photo[len(msg.Photo)-1]
		if att, err := h.downloadAttachment(ctx, b, photo.FileID, ""); err == nil {
			conv.Attach(att)
			attached = append(attached, att.Name)
		} else {
			slog.Warn("download photo", "error", err)
		}
	}

	if msg.Document != nil {
		if att, err := h.downloadAttachment(ctx, b, msg.Document.FileID, msg.Document.FileName); err == nil {
			conv.Attach(att)
			attached = append(attached, att.Name)
		} else {
			slog.Warn("download document", "error", err)
		}
	}

	return attached
}

func (h *Handler) downloadAttachment(ctx context.Context, b *bot.Bot, fileID, name string) (domain.Attachment, error) {
	data, remoteName, err := tg.DownloadFile(ctx, b, fileID)
	if err != nil {
		return domain.Attachment{}, err
	}
	if name == "" {
		name = remoteName
	}

	att := domain.Attachment{
		Name:         name,
		Size:         int64(len(data)),
		MIMECategory: mimeCategory(name),
		Data:         data,
	}

	// Local preview copy, released when the turn leaves history.
	preview, err := os.CreateTemp("", "gilbot-preview-*"+filepath.Ext(name))
	if err == nil {
		if _, werr := preview.Write(data); werr == nil {
			att.PreviewPath = preview.Name()
		}
		preview.Close()
	}

	return att, nil
}

func mimeCategory(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "image"
	default:
		return "document"
	}
}

func (h *Handler) submit(ctx context.Context, b *bot.Bot, chatID int64, conv *conversation.Controller, student *domain.Student) {
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	statusMsg, _ := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🤔 Thinking...",
	})

	turn, err := conv.Submit(ctx, student)
	if err != nil {
		text := "❌ Could not submit your question, please try again."
		switch {
		case errors.Is(err, domain.ErrIdentityMissing):
			text = "Before we start, tell me who you are:\n/iam Your Name you@school.edu"
		case errors.Is(err, domain.ErrSubmissionInFlight):
			text = "⏳ One question at a time — I'm still working on the last one."
		case errors.Is(err, domain.ErrEmptySubmission):
			text = "Type a question or attach an image first."
		default:
			slog.Error("submit", "chat_id", chatID, "error", err)
		}
		h.replaceStatus(ctx, b, chatID, statusMsg, text)
		return
	}

	if statusMsg != nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: statusMsg.ID})
	}
	h.sendAnswer(ctx, b, chatID, turn)
}

func (h *Handler) replaceStatus(ctx context.Context, b *bot.Bot, chatID int64, statusMsg *models.Message, text string) {
	if statusMsg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: statusMsg.ID,
			Text:      text,
		})
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}
