package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/Huiyue420/line-store-bot/internal/auth"
	"github.com/Huiyue420/line-store-bot/internal/bot"
	"github.com/Huiyue420/line-store-bot/internal/catalog"
	"github.com/Huiyue420/line-store-bot/internal/config"
	"github.com/Huiyue420/line-store-bot/internal/httpx"
	"github.com/Huiyue420/line-store-bot/internal/order"
	"github.com/Huiyue420/line-store-bot/internal/userstate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("[bot] create data dir: %v", err)
	}

	states := userstate.NewStore(filepath.Join(cfg.DataDir, "user_state.json"))
	authSvc := auth.New(states, cfg.AdminPasswordHash)
	cat := catalog.NewManager(filepath.Join(cfg.DataDir, "menu.json"))
	eng := order.NewEngine(filepath.Join(cfg.DataDir, "orders.json"), cat)
	handler := bot.New(authSvc, cat, eng)

	client, err := linebot.New(cfg.ChannelSecret, cfg.ChannelToken)
	if err != nil {
		log.Fatalf("[bot] line client: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.AccessLog())
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/callback", callbackHandler(client, handler))

	log.Printf("[bot] listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
