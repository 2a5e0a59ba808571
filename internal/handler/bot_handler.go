package handler

import (
	"context"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
	telemw "gopkg.in/telebot.v4/middleware"

	"github.com/Pavel2232/ShopBot/internal/shop"
)

// Conversation is the state machine driven by the bot.
type Conversation interface {
	HandleCommand(ctx context.Context, userID int64, text string, r shop.Renderer) error
	HandleText(ctx context.Context, userID int64, text string, r shop.Renderer) error
	HandleCallback(ctx context.Context, userID int64, data string, r shop.Renderer) error
	Forget(ctx context.Context, userID int64) error
}

// BotHandler feeds Telegram updates into the conversation, one update per user at a time.
type BotHandler struct {
	conv   Conversation
	locks  *userLocks
	base   context.Context
	logger *zap.Logger
}

// NewBotHandler binds handlers to base; cancelling it aborts in-flight repository calls.
func NewBotHandler(base context.Context, conv Conversation, logger *zap.Logger) *BotHandler {
	return &BotHandler{
		conv:   conv,
		locks:  newUserLocks(),
		base:   base,
		logger: logger,
	}
}

// Commands is the bot menu published on startup.
var Commands = []tele.Command{
	{Text: "start", Description: "Каталог товаров"},
}

func (h *BotHandler) Register(b *tele.Bot) {
	b.Use(telemw.Recover())

	b.Handle("/start", h.OnCommand)
	b.Handle(tele.OnText, h.OnText)
	b.Handle(tele.OnCallback, h.OnCallback)
	b.Handle(tele.OnMyChatMember, h.OnMyChatMember)
}

func (h *BotHandler) OnCommand(c tele.Context) error {
	return h.serve(c, "command", func(ctx context.Context, userID int64, r shop.Renderer) error {
		return h.conv.HandleCommand(ctx, userID, c.Text(), r)
	})
}

func (h *BotHandler) OnText(c tele.Context) error {
	text := c.Text()
	// unknown commands fall through to OnText
	if strings.HasPrefix(text, "/") {
		return h.OnCommand(c)
	}
	return h.serve(c, "text", func(ctx context.Context, userID int64, r shop.Renderer) error {
		return h.conv.HandleText(ctx, userID, text, r)
	})
}

func (h *BotHandler) OnCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	return h.serve(c, "callback", func(ctx context.Context, userID int64, r shop.Renderer) error {
		return h.conv.HandleCallback(ctx, userID, cb.Data, r)
	})
}

// OnMyChatMember drops the session of a user who blocked the bot in a private chat.
func (h *BotHandler) OnMyChatMember(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.Sender == nil || upd.NewChatMember == nil {
		return nil
	}
	if upd.Chat != nil && upd.Chat.Type != tele.ChatPrivate {
		return nil
	}
	if upd.NewChatMember.Role != tele.Kicked {
		return nil
	}

	unlock := h.locks.lock(upd.Sender.ID)
	defer unlock()

	if err := h.conv.Forget(h.base, upd.Sender.ID); err != nil {
		h.logger.Error("failed to drop session", zap.Int64("user_id", upd.Sender.ID), zap.Error(err))
	}
	return nil
}

func (h *BotHandler) serve(c tele.Context, kind string, fn func(ctx context.Context, userID int64, r shop.Renderer) error) error {
	userID, err := senderID(c)
	if err != nil {
		h.logger.Debug("update without sender skipped", zap.String("kind", kind))
		return nil
	}

	unlock := h.locks.lock(userID)
	defer unlock()

	if err := fn(h.base, userID, newRenderer(c)); err != nil {
		h.logger.Error("failed to handle update",
			zap.Int64("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
	return nil
}
