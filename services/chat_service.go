package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"citizen-portal-api/config"
	"citizen-portal-api/models"

	"gorm.io/gorm"
)

// FallbackReply is returned to the citizen when the completion API fails or
// answers with an empty message.
const FallbackReply = "I'm having trouble connecting to my AI brain right now. Can you try asking again?"

// knowledgeDoc is the static portal FAQ the assistant always receives.
// Live database context (the caller's applications, the service catalog)
// is appended per request.
const knowledgeDoc = `You are the assistant of a municipal citizen-services portal.
You help citizens with: account registration and login, service and permit
applications with step-by-step progress tracking, uploading the final proof
document for review, complaint submission tracked by a GOV-YYYY-NNNN code,
the directory of officials, departments and emergency hotlines, and the city
ordinance lookup. Answer briefly and concretely. When a question concerns the
citizen's own applications, use the account context below. If something is
outside the portal, say so and point to the directory.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatService answers citizen questions through an OpenAI-compatible
// chat-completions endpoint, grounding each prompt with portal knowledge
// and the caller's own records.
type ChatService struct {
	db     *gorm.DB
	client *http.Client
	apiURL string
	apiKey string
	model  string
}

// NewChatService constructs the service. Nil arguments fall back to the
// process-wide connection and a 30 second HTTP client.
func NewChatService(db *gorm.DB, client *http.Client) *ChatService {
	if db == nil {
		db = config.DB
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	apiURL := os.Getenv("CHAT_API_URL")
	if apiURL == "" {
		apiURL = "https://router.huggingface.co/novita/v3/openai/chat/completions"
	}
	model := os.Getenv("CHAT_MODEL")
	if model == "" {
		model = "deepseek/deepseek-v3-0324"
	}

	return &ChatService{
		db:     db,
		client: client,
		apiURL: apiURL,
		apiKey: os.Getenv("CHAT_API_KEY"),
		model:  model,
	}
}

// Ask sends the citizen's prompt with assembled context and returns the
// assistant's reply. Upstream failures map to FallbackReply with the error
// preserved for the caller's log.
func (s *ChatService) Ask(ctx context.Context, userID int, prompt string) (string, error) {
	system := knowledgeDoc + "\n\n" + s.buildContext(userID)

	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Model:  s.model,
		Stream: false,
	})
	if err != nil {
		return FallbackReply, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return FallbackReply, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return FallbackReply, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FallbackReply, fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return FallbackReply, fmt.Errorf("failed to decode chat completion: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return FallbackReply, fmt.Errorf("chat completion returned no choices")
	}

	answer := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if answer == "" {
		return FallbackReply, fmt.Errorf("chat completion returned an empty message")
	}
	return answer, nil
}

// buildContext summarizes the service catalog and the caller's applications
// so the model can answer account-specific questions. Lookup failures leave
// the section out rather than failing the chat.
func (s *ChatService) buildContext(userID int) string {
	var b strings.Builder

	var catalog []models.Service
	if err := s.db.Where("delete_at IS NULL").Find(&catalog).Error; err == nil && len(catalog) > 0 {
		b.WriteString("Available services:\n")
		for _, svc := range catalog {
			fmt.Fprintf(&b, "- %s (%s, %d steps)\n", svc.Title, svc.ServiceKey, svc.TotalSteps())
		}
	}

	var apps []models.Application
	if err := s.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&apps).Error; err == nil && len(apps) > 0 {
		b.WriteString("The citizen's applications:\n")
		for _, app := range apps {
			fmt.Fprintf(&b, "- %s: reference %s, step %d, %d%% done, document %s\n",
				app.ServiceKey, app.ReferenceNumber, app.StepIndex, app.ProgressPercent, app.DocumentStatus)
		}
	}

	if b.Len() == 0 {
		return "No account context is available for this citizen."
	}
	return b.String()
}
