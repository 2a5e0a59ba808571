package handler

import (
	"errors"

	tele "gopkg.in/telebot.v4"
)

var ErrNoSender = errors.New("update has no sender")

func senderID(c tele.Context) (int64, error) {
	sender := c.Sender()
	if sender == nil || sender.ID == 0 {
		return 0, ErrNoSender
	}
	return sender.ID, nil
}
