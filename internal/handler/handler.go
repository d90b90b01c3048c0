package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/conversation"
	"github.com/mrgilbot/gilbot/internal/geogebra"
	"github.com/mrgilbot/gilbot/internal/history"
	"github.com/mrgilbot/gilbot/internal/session"
	"github.com/mrgilbot/gilbot/internal/storage"
	"github.com/mrgilbot/gilbot/internal/tutorapi"
	gocache "github.com/patrickmn/go-cache"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot      *bot.Bot
	cfg      *config.Config
	store    storage.Store
	tutor    *tutorapi.Client
	geogebra *geogebra.Client

	convMu sync.Mutex
	convs  *gocache.Cache // chat id -> *conversation.Controller

	// Reveal state is ephemeral per rendered turn: it resets on restart
	// and on session reset, and revealing twice is a no-op.
	revealMu sync.Mutex
	revealed map[string]struct{}
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Cfg      *config.Config
	Store    storage.Store
	Tutor    *tutorapi.Client
	GeoGebra *geogebra.Client
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		cfg:      deps.Cfg,
		store:    deps.Store,
		tutor:    deps.Tutor,
		geogebra: deps.GeoGebra,
		convs:    gocache.New(config.ConversationCacheTTL, config.ConversationCacheCleanup),
		revealed: make(map[string]struct{}),
	}
}

// Register wires command and callback handlers. The default text handler
// is registered by main so commands keep precedence.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/iam", bot.MatchTypePrefix, h.handleIAm)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, h.handleReset)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "alt_", bot.MatchTypePrefix, h.handleReveal)
}

// conversation returns the chat's controller, building it from storage
// on first use (and again after cache eviction).
func (h *Handler) conversation(ctx context.Context, chatID int64) *conversation.Controller {
	key := fmt.Sprint(chatID)

	h.convMu.Lock()
	defer h.convMu.Unlock()

	if cached, ok := h.convs.Get(key); ok {
		return cached.(*conversation.Controller)
	}

	conv := conversation.New(
		session.NewManager(h.store, storage.SessionKey(chatID)),
		history.NewStore(h.store, storage.HistoryKey(chatID)),
		h.tutor,
	)
	conv.Load(ctx)

	h.convs.Set(key, conv, gocache.DefaultExpiration)
	return conv
}
