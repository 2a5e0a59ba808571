package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"github.com/Pavel2232/ShopBot/pkg/response"
)

// UpdateProcessor dispatches one Telegram update to the bot handlers.
type UpdateProcessor interface {
	ProcessUpdate(u tele.Update)
}

type WebhookHandler struct {
	processor UpdateProcessor
	logger    *zap.Logger
}

func NewWebhookHandler(processor UpdateProcessor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{processor: processor, logger: logger}
}

// Receive acknowledges the delivery as soon as the update is decoded. Handlers run
// asynchronously, so Telegram never retries an update because a handler is slow.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var upd tele.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.logger.Warn("malformed webhook update", zap.Error(err))
		response.BadRequest(c, "invalid update: "+err.Error())
		return
	}

	h.processor.ProcessUpdate(upd)
	response.Success(c, nil)
}
