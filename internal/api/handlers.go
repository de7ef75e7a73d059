package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/set-night/swifthub/internal/config"
	"github.com/set-night/swifthub/internal/domain"
	"github.com/set-night/swifthub/internal/service"
)

// ModelCatalogue lists the provider models.
type ModelCatalogue interface {
	ListModels(ctx context.Context) ([]domain.AIModel, error)
}

func sessionResponse(conv *service.Conversation) SessionResponse {
	lang := conv.Language()
	return SessionResponse{
		ID:           conv.ID(),
		Language:     lang,
		RTL:          lang.IsRTL(),
		CreatedAt:    conv.CreatedAt(),
		LastActivity: conv.LastActivity(),
		Messages:     conv.Messages(),
	}
}

// writeError maps domain errors onto status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session_not_found"})
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported_language"})
	case errors.Is(err, domain.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty_message"})
	case errors.Is(err, domain.ErrActiveRequest):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reply_in_progress"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error"})
	}
}

// CreateSessionHandler opens a conversation seeded with the greeting.
func CreateSessionHandler(conversations *service.ConversationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
			return
		}
		lang, err := domain.ParseLanguage(req.Language)
		if err != nil {
			writeError(c, err)
			return
		}
		conv, err := conversations.Create(lang)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionResponse(conv))
	}
}

func GetSessionHandler(conversations *service.ConversationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := conversations.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(conv))
	}
}

// SendMessageHandler appends the user message, asks the assistant with the
// window taken before the append, and appends the answer.
func SendMessageHandler(conversations *service.ConversationRegistry, gateway *service.AssistantGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := conversations.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeError(c, domain.ErrEmptyMessage)
			return
		}
		var switchTo domain.Language
		if req.Language != "" {
			lang, err := domain.ParseLanguage(req.Language)
			if err != nil {
				writeError(c, err)
				return
			}
			switchTo = lang
		}

		// A refused request must leave the conversation untouched.
		if !conv.TryBeginReply() {
			writeError(c, domain.ErrActiveRequest)
			return
		}
		defer conv.EndReply()

		if switchTo != "" {
			if err := conv.SetLanguage(switchTo); err != nil {
				writeError(c, err)
				return
			}
		}

		history := conv.RecentWindow(config.HistoryWindow)
		conv.AppendUserMessage(req.Text)

		lang := conv.Language()
		reply := gateway.GetReply(c.Request.Context(), req.Text, history, lang)
		msg := conv.AppendAssistantMessage(reply.Text, lang)

		c.JSON(http.StatusOK, SendMessageResponse{
			Reply:     msg,
			Fallback:  reply.Fallback,
			ErrorKind: reply.Kind,
			Messages:  conv.Messages(),
		})
	}
}

func SetLanguageHandler(conversations *service.ConversationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := conversations.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		var req SetLanguageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
			return
		}
		lang, err := domain.ParseLanguage(req.Language)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := conv.SetLanguage(lang); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse(conv))
	}
}

// DeleteSessionHandler discards a conversation when the chat surface closes.
func DeleteSessionHandler(conversations *service.ConversationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conversations.Delete(c.Param("id")) {
			writeError(c, domain.ErrSessionNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ListModelsHandler(catalogue ModelCatalogue, current string) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := catalogue.ListModels(c.Request.Context())
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "models_unavailable"})
			return
		}
		resp := ModelsResponse{Current: current, Models: make([]ModelResponse, 0, len(all))}
		for _, m := range all {
			resp.Models = append(resp.Models, ModelResponse{
				ID:              m.ID,
				Name:            m.Name,
				OwnedBy:         m.OwnedBy,
				ContextLength:   m.ContextLength,
				PromptPrice:     m.PromptPrice,
				CompletionPrice: m.CompletionPrice,
				Active:          m.Active,
				Current:         m.ID == current,
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}
