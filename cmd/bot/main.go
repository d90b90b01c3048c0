package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"
	gilbotroot "github.com/mrgilbot/gilbot"
	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/geogebra"
	"github.com/mrgilbot/gilbot/internal/handler"
	"github.com/mrgilbot/gilbot/internal/middleware"
	"github.com/mrgilbot/gilbot/internal/storage"
	"github.com/mrgilbot/gilbot/internal/tutorapi"
)

func main() {
	// Local .env is optional
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the storage backend: Postgres when configured, files otherwise
	var store storage.Store
	if cfg.DatabaseURL != "" {
		pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(gilbotroot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := storage.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store = storage.NewPostgres(pool)
	} else {
		fileStore, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			slog.Error("failed to open data dir", "error", err)
			os.Exit(1)
		}
		store = fileStore
		slog.Info("using file storage", "dir", cfg.DataDir)
	}

	// Initialize clients
	tutor := tutorapi.NewClient(cfg.TutorAPIURL)
	geogebraClient := geogebra.NewClient()

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.Identity(store),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:      b,
		Cfg:      cfg,
		Store:    store,
		Tutor:    tutor,
		GeoGebra: geogebraClient,
	})

	// Register all handlers
	h.Register()

	// Default text handler: everything that is not a command is a question
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if strings.HasPrefix(update.Message.Text, "/") {
			return
		}
		h.HandleText(ctx, b, update)
	})

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
