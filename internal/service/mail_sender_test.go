package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pavel2232/ShopBot/internal/config"
)

func TestNewMailSender(t *testing.T) {
	s, err := NewMailSender(config.SMTPConfig{})
	require.NoError(t, err)
	assert.IsType(t, noopSender{}, s)
	assert.NoError(t, s.Send(context.Background(), "a@b.com", "x", "y"))

	_, err = NewMailSender(config.SMTPConfig{Host: "smtp.local", Port: 0, FromEmail: "shop@example.com"})
	assert.Error(t, err)

	_, err = NewMailSender(config.SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "not-an-address"})
	assert.Error(t, err)

	s, err = NewMailSender(config.SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "shop@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &smtpSender{}, s)
}

func TestSMTPSender_Compose(t *testing.T) {
	s, err := NewMailSender(config.SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "shop@example.com", FromName: "Shop"})
	require.NoError(t, err)

	msg := s.(*smtpSender).compose("a@b.com", "Заказ принят", "Спасибо!")
	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "Спасибо!", body)
	assert.Contains(t, head, `From: "Shop" <shop@example.com>`)
	assert.Contains(t, head, "To: a@b.com")
	assert.Contains(t, head, "Subject: =?UTF-8?q?")
	assert.Contains(t, head, "Content-Type: text/plain; charset=UTF-8")
}

func TestSMTPSender_RejectsBadRecipient(t *testing.T) {
	s, err := NewMailSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1, FromEmail: "shop@example.com"})
	require.NoError(t, err)
	err = s.Send(context.Background(), "nobody", "x", "y")
	assert.ErrorContains(t, err, "invalid recipient email")
}
