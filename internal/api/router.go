package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/set-night/swifthub/internal/service"
)

type Deps struct {
	Conversations  *service.ConversationRegistry
	Gateway        *service.AssistantGateway
	Catalogue      ModelCatalogue
	AllowedOrigins []string
}

// New builds the gin engine with all routes.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogging())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Conversations.Len()})
	})

	api := r.Group("/api")
	{
		chat := api.Group("/chat/sessions")
		chat.POST("", CreateSessionHandler(deps.Conversations))
		chat.GET("/:id", GetSessionHandler(deps.Conversations))
		chat.POST("/:id/messages", SendMessageHandler(deps.Conversations, deps.Gateway))
		chat.PUT("/:id/language", SetLanguageHandler(deps.Conversations))
		chat.DELETE("/:id", DeleteSessionHandler(deps.Conversations))

		api.GET("/models", ListModelsHandler(deps.Catalogue, deps.Gateway.Model()))
	}

	return r
}

// Handler wraps the engine with CORS for the web front-end origins.
func Handler(deps Deps) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         300,
	}).Handler(New(deps))
}

// RequestLogging logs method, path, status and duration of every request.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		attrs := []any{
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		slog.Info("api request", attrs...)
	}
}
