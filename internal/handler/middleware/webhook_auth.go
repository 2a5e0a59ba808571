package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pavel2232/ShopBot/pkg/response"
)

// HeaderTelegramSecret carries the secret registered together with the webhook.
const HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecret rejects webhook deliveries that do not carry the configured secret.
// An empty secret disables the check.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		got := c.GetHeader(HeaderTelegramSecret)
		if got == "" {
			response.Abort(c, http.StatusUnauthorized, "missing webhook secret")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			response.Abort(c, http.StatusUnauthorized, "invalid webhook secret")
			return
		}

		c.Next()
	}
}
