// Package server exposes the reply endpoint consumed by the chat widget.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abadojack/whatlanggo"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"serenity-chat/observability"
)

const (
	invalidMessageError = "Invalid message format. Please provide a text message."

	// Upstream content errors never propagate: the client-visible failure
	// path stays transport and HTTP level only.
	upstreamApology = "I'm having trouble processing your message right now. " +
		"Could you please try again in a moment?"
	internalApology = "I apologize, but I'm experiencing technical difficulties right now. " +
		"Please try again later."
)

var validate = validator.New()

// ReplyGenerator is implemented by ai.InferenceClient.
type ReplyGenerator interface {
	Generate(ctx context.Context, userMessage string) (string, error)
}

type chatRequest struct {
	Message *string `json:"message" validate:"required"`
}

type ChatServer struct {
	log       *slog.Logger
	generator ReplyGenerator
	stats     *observability.Stats
}

func NewChatServer(log *slog.Logger, generator ReplyGenerator,
	stats *observability.Stats) *ChatServer {
	return &ChatServer{log: log, generator: generator, stats: stats}
}

// Router builds the gin engine with the CORS and recovery behavior the
// widget contract requires.
func (s *ChatServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.log.Error("Handler panic", "recovered", recovered)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "internal error",
			"response": internalApology,
		})
	}))
	r.Use(corsMiddleware())

	r.POST("/functions/v1/serenity-ai", s.handleChat)
	return r
}

func (s *ChatServer) handleChat(c *gin.Context) {
	s.stats.IncrRequestsServed()

	var req chatRequest
	// A non-string message fails the bind; a missing one fails validation.
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMessageError})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMessageError})
		return
	}

	message := *req.Message
	requestID := uuid.New().String()
	info := whatlanggo.Detect(message)
	s.log.Info("Chat request",
		"id", requestID,
		"lang", info.Lang.Iso6391(),
		"chars", len(message),
	)

	reply, err := s.generator.Generate(c.Request.Context(), message)
	if err != nil {
		s.stats.IncrUpstreamFailures()
		s.log.Error("Upstream inference failed", "id", requestID, "error", err)
		c.JSON(http.StatusOK, gin.H{
			"response": upstreamApology,
			"error":    "upstream inference error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// corsMiddleware allows the widget to call the endpoint from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
