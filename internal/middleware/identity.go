package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mrgilbot/gilbot/internal/domain"
	"github.com/mrgilbot/gilbot/internal/storage"
)

type ctxKey string

const studentCtxKey ctxKey = "student"

// GetStudent extracts the captured student identity from context.
// Returns nil when the chat has not completed identity capture.
func GetStudent(ctx context.Context) *domain.Student {
	s, ok := ctx.Value(studentCtxKey).(*domain.Student)
	if !ok {
		return nil
	}
	return s
}

// Identity returns middleware that loads the chat's captured student
// identity into context. The identity itself comes from an external
// login flow and is treated as opaque: absent means submissions are
// blocked, present means trusted.
func Identity(store storage.Store) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var chatID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
			} else if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
				chatID = update.CallbackQuery.Message.Message.Chat.ID
			}

			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			data, err := store.Get(ctx, storage.StudentKey(chatID))
			if err != nil {
				if !errors.Is(err, storage.ErrNotFound) {
					slog.Warn("load student identity", "chat_id", chatID, "error", err)
				}
				next(ctx, b, update)
				return
			}

			var student domain.Student
			if err := json.Unmarshal(data, &student); err != nil {
				slog.Warn("discarding corrupt student identity", "chat_id", chatID, "error", err)
				next(ctx, b, update)
				return
			}

			next(context.WithValue(ctx, studentCtxKey, &student), b, update)
		}
	}
}
