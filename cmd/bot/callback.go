package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/Huiyue420/line-store-bot/internal/bot"
)

// callbackHandler receives LINE webhook deliveries. The SDK verifies the
// X-Line-Signature before any event is handed to the dispatcher.
func callbackHandler(client *linebot.Client, h *bot.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := client.ParseRequest(c.Request)
		if err != nil {
			if err == linebot.ErrInvalidSignature {
				c.Status(http.StatusBadRequest)
			} else {
				c.Status(http.StatusInternalServerError)
			}
			return
		}

		for _, ev := range events {
			if ev.Type != linebot.EventTypeMessage {
				continue
			}
			msg, ok := ev.Message.(*linebot.TextMessage)
			if !ok {
				continue
			}
			var userID string
			if ev.Source != nil {
				userID = ev.Source.UserID
			}
			text := strings.TrimSpace(msg.Text)
			log.Printf("[bot] message received user=%s text=%q", userID, text)

			resp := h.Handle(text, userID)
			if resp == "" {
				continue
			}
			if _, err := client.ReplyMessage(ev.ReplyToken, linebot.NewTextMessage(resp)).Do(); err != nil {
				log.Printf("[bot] reply failed user=%s: %v", userID, err)
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
