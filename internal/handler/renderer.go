package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/shop"
)

// teleRenderer answers through the context of the update being handled.
type teleRenderer struct {
	c tele.Context
}

func newRenderer(c tele.Context) *teleRenderer {
	return &teleRenderer{c: c}
}

func (r *teleRenderer) SendText(ctx context.Context, text string, kb *shop.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.c.Send(text, sendOptions(kb)...)
}

func (r *teleRenderer) SendPhoto(ctx context.Context, photo []byte, caption string, kb *shop.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := &tele.Photo{File: tele.FromReader(bytes.NewReader(photo)), Caption: caption}
	return r.c.Send(p, sendOptions(kb)...)
}

func (r *teleRenderer) EditButtons(ctx context.Context, kb *shop.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.c.Edit(toMarkup(kb))
	if isNotModified(err) {
		return fmt.Errorf("edit markup: %w", model.ErrRenderNoOp)
	}
	return err
}

func (r *teleRenderer) Toast(ctx context.Context, text string) error {
	if r.c.Callback() == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.c.Respond(&tele.CallbackResponse{Text: text})
}

func sendOptions(kb *shop.Keyboard) []interface{} {
	markup := toMarkup(kb)
	if markup == nil {
		return nil
	}
	return []interface{}{markup}
}

func toMarkup(kb *shop.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	switch {
	case len(kb.Inline) > 0:
		markup.InlineKeyboard = make([][]tele.InlineButton, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			buttons := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data})
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
		}
	case len(kb.Reply) > 0:
		markup.ResizeKeyboard = true
		markup.OneTimeKeyboard = true
		markup.ReplyKeyboard = make([][]tele.ReplyButton, 0, len(kb.Reply))
		for _, row := range kb.Reply {
			buttons := make([]tele.ReplyButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, tele.ReplyButton{Text: text})
			}
			markup.ReplyKeyboard = append(markup.ReplyKeyboard, buttons)
		}
	case kb.RemoveReply:
		markup.RemoveKeyboard = true
	default:
		return nil
	}
	return markup
}

// isNotModified reports the rejection Telegram sends when an edit changes nothing.
func isNotModified(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, tele.ErrMessageNotModified) || errors.Is(err, tele.ErrSameMessageContent) {
		return true
	}
	return strings.Contains(err.Error(), "message is not modified")
}

var _ shop.Renderer = (*teleRenderer)(nil)
