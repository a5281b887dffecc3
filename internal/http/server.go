// README: Webhook HTTP transport; registers routes and middleware.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"railbot/internal/http/handlers"
	"railbot/internal/http/middleware"
)

type ServerDeps struct {
	Dispatcher   handlers.Dispatcher
	Sessions     handlers.ContextStore
	WebhookToken string
}

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	webhook := handlers.NewWebhookHandler(deps.Dispatcher, deps.Sessions)
	r.POST("/webhook", middleware.Auth(deps.WebhookToken), webhook.Handle)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
