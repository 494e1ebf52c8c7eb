package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatTestService(t *testing.T, upstream http.HandlerFunc) *ChatService {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	t.Setenv("CHAT_API_URL", server.URL)
	t.Setenv("CHAT_API_KEY", "test-key")
	t.Setenv("CHAT_MODEL", "test-model")

	return NewChatService(newTestDB(t), server.Client())
}

func TestAskReturnsAssistantReply(t *testing.T) {
	var captured chatRequest
	svc := newChatTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Visit the treasurer's office on step 3."}},
			},
		})
	})

	reply, err := svc.Ask(context.Background(), 1, "What do I do on step 3?")
	require.NoError(t, err)
	assert.Equal(t, "Visit the treasurer's office on step 3.", reply)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "test-model", captured.Model)
	assert.False(t, captured.Stream)
}

func TestAskFallsBackOnUpstreamError(t *testing.T) {
	svc := newChatTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	reply, err := svc.Ask(context.Background(), 1, "hello")
	assert.Error(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestAskFallsBackOnEmptyReply(t *testing.T) {
	svc := newChatTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "   "}},
			},
		})
	})

	reply, err := svc.Ask(context.Background(), 1, "hello")
	assert.Error(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestBuildContextIncludesCitizenApplications(t *testing.T) {
	db := newTestDB(t)
	svc := &ChatService{db: db}

	service := seedService(t, db, "business-permit", "Prepare", "Submit", "Pay")
	progress := NewProgressService(db)
	result, err := progress.StartApplication(7, service, "APP-20260501-0042", false)
	require.NoError(t, err)
	_, _, err = progress.Advance(result.Application, service, 1)
	require.NoError(t, err)

	ctx := svc.buildContext(7)
	assert.Contains(t, ctx, "business-permit")
	assert.Contains(t, ctx, "APP-20260501-0042")
	assert.Contains(t, ctx, "66% done")
}

func TestBuildContextWithoutRecords(t *testing.T) {
	db := newTestDB(t)
	svc := &ChatService{db: db}

	ctx := svc.buildContext(99)
	assert.True(t, strings.Contains(ctx, "No account context"))
}
