package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lernbuddy/internal/api"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/phrazzld/lernbuddy/internal/service/conversation"
)

// mockConversationService implements conversation.ConversationService with
// swappable functions.
type mockConversationService struct {
	listScenariosFunc func() []conversation.Scenario
	startFunc         func(ctx context.Context, scenarioID string, now time.Time) (*conversation.Conversation, error)
	replyFunc         func(ctx context.Context, id uuid.UUID, message string, now time.Time) (*conversation.Conversation, string, error)
	endFunc           func(ctx context.Context, id uuid.UUID, now time.Time) (*conversation.Summary, error)
}

var _ conversation.ConversationService = (*mockConversationService)(nil)

func (m *mockConversationService) ListScenarios() []conversation.Scenario {
	if m.listScenariosFunc != nil {
		return m.listScenariosFunc()
	}
	return nil
}

func (m *mockConversationService) Start(
	ctx context.Context,
	scenarioID string,
	now time.Time,
) (*conversation.Conversation, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, scenarioID, now)
	}
	return nil, nil
}

func (m *mockConversationService) Reply(
	ctx context.Context,
	id uuid.UUID,
	message string,
	now time.Time,
) (*conversation.Conversation, string, error) {
	if m.replyFunc != nil {
		return m.replyFunc(ctx, id, message, now)
	}
	return nil, "", nil
}

func (m *mockConversationService) End(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (*conversation.Summary, error) {
	if m.endFunc != nil {
		return m.endFunc(ctx, id, now)
	}
	return nil, nil
}

func newConversationRouter(t *testing.T, svc conversation.ConversationService) http.Handler {
	t.Helper()

	handler := api.NewConversationHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Get("/conversations/scenarios", handler.ListScenarios)
	r.Post("/conversations", handler.StartConversation)
	r.Post("/conversations/{id}/messages", handler.SendMessage)
	r.Post("/conversations/{id}/end", handler.EndConversation)
	return r
}

func TestListScenarios(t *testing.T) {
	t.Parallel()

	svc := &mockConversationService{
		listScenariosFunc: func() []conversation.Scenario {
			return conversation.DefaultScenarios()
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/conversations/scenarios", nil)
	rec := httptest.NewRecorder()
	newConversationRouter(t, svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ScenariosResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(conversation.DefaultScenarios()), resp.Count)
	assert.NotEmpty(t, resp.Scenarios)
}

func TestStartConversation(t *testing.T) {
	t.Parallel()

	t.Run("starts a conversation with the opening line", func(t *testing.T) {
		t.Parallel()

		convID := uuid.New()
		svc := &mockConversationService{
			startFunc: func(_ context.Context, scenarioID string, _ time.Time) (*conversation.Conversation, error) {
				assert.Equal(t, "cafe", scenarioID)
				return &conversation.Conversation{
					ID: convID,
					Turns: []generation.Turn{
						{Role: generation.RolePartner, Text: "Guten Tag! Was darf es sein?"},
					},
				}, nil
			},
		}

		rec := postJSON(t, newConversationRouter(t, svc), "/conversations",
			api.StartConversationRequest{ScenarioID: "cafe"})

		require.Equal(t, http.StatusCreated, rec.Code)

		var conv conversation.Conversation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
		assert.Equal(t, convID, conv.ID)
		require.Len(t, conv.Turns, 1)
		assert.Equal(t, generation.RolePartner, conv.Turns[0].Role)
	})

	t.Run("maps unknown scenario to 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockConversationService{
			startFunc: func(context.Context, string, time.Time) (*conversation.Conversation, error) {
				return nil, conversation.ErrScenarioNotFound
			},
		}

		rec := postJSON(t, newConversationRouter(t, svc), "/conversations",
			api.StartConversationRequest{ScenarioID: "space_station"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects missing scenario ID", func(t *testing.T) {
		t.Parallel()

		rec := postJSON(t, newConversationRouter(t, &mockConversationService{}), "/conversations",
			api.StartConversationRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	convID := uuid.New()

	t.Run("returns the partner reply", func(t *testing.T) {
		t.Parallel()

		svc := &mockConversationService{
			replyFunc: func(_ context.Context, gotID uuid.UUID, message string, _ time.Time) (*conversation.Conversation, string, error) {
				assert.Equal(t, convID, gotID)
				assert.Equal(t, "Ich hätte gern einen Kaffee.", message)
				return &conversation.Conversation{ID: gotID}, "Gerne! Mit Milch und Zucker?", nil
			},
		}

		rec := postJSON(t, newConversationRouter(t, svc),
			"/conversations/"+convID.String()+"/messages",
			api.SendMessageRequest{Message: "Ich hätte gern einen Kaffee."})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Gerne! Mit Milch und Zucker?", resp.Reply)
		assert.Equal(t, convID, resp.Conversation.ID)
	})

	t.Run("rejects blank message", func(t *testing.T) {
		t.Parallel()

		rec := postJSON(t, newConversationRouter(t, &mockConversationService{}),
			"/conversations/"+convID.String()+"/messages",
			api.SendMessageRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps unknown conversation to 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockConversationService{
			replyFunc: func(context.Context, uuid.UUID, string, time.Time) (*conversation.Conversation, string, error) {
				return nil, "", conversation.ErrConversationNotFound
			},
		}

		rec := postJSON(t, newConversationRouter(t, svc),
			"/conversations/"+uuid.New().String()+"/messages",
			api.SendMessageRequest{Message: "Hallo?"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEndConversation(t *testing.T) {
	t.Parallel()

	convID := uuid.New()

	t.Run("returns the summary", func(t *testing.T) {
		t.Parallel()

		svc := &mockConversationService{
			endFunc: func(_ context.Context, gotID uuid.UUID, _ time.Time) (*conversation.Summary, error) {
				assert.Equal(t, convID, gotID)
				return &conversation.Summary{
					ScenarioID: "cafe",
					Minutes:    5,
					TurnCount:  9,
					XPGained:   40,
					TotalXP:    140,
					NewLevel:   1,
				}, nil
			},
		}

		rec := postJSON(t, newConversationRouter(t, svc),
			"/conversations/"+convID.String()+"/end", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var summary conversation.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, 5, summary.Minutes)
		assert.Equal(t, 40, summary.XPGained)
	})

	t.Run("rejects malformed conversation ID", func(t *testing.T) {
		t.Parallel()

		rec := postJSON(t, newConversationRouter(t, &mockConversationService{}),
			"/conversations/not-a-uuid/end", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
