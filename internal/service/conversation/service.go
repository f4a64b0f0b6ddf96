// Package conversation runs roleplay dialogue practice: scenario selection,
// turn-by-turn replies from a language model (with scripted fallback), and
// the conversion of finished dialogues into study time and XP.
package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
)

// Conversation is one in-flight roleplay dialogue. Conversations live in
// memory only; what persists is the study time and XP granted when they end.
type Conversation struct {
	ID        uuid.UUID         `json:"id"`
	Scenario  Scenario          `json:"scenario"`
	StartedAt time.Time         `json:"started_at"`
	Turns     []generation.Turn `json:"turns"`

	// Scripted reports whether the dialogue is running on scripted replies
	// instead of a language model.
	Scripted bool `json:"scripted"`

	scriptIdx int

	// ending guards against a concurrent End on the same session.
	ending bool
}

// Summary describes a finished conversation and the rewards it earned.
type Summary struct {
	ScenarioID string `json:"scenario_id"`
	Minutes    int    `json:"minutes"`
	TurnCount  int    `json:"turn_count"`

	XPGained   int  `json:"xp_gained"`
	TotalXP    int  `json:"total_xp"`
	LeveledUp  bool `json:"leveled_up"`
	NewLevel   int  `json:"new_level"`
	StreakDays int  `json:"streak_days"`
}

// ConversationService manages roleplay practice sessions.
type ConversationService interface {
	// ListScenarios returns the available scenarios, ordered by level.
	ListScenarios() []Scenario

	// Start begins a conversation for the given scenario. The returned
	// conversation already contains the partner's opening line.
	//
	// Returns ErrScenarioNotFound for an unknown scenario ID.
	Start(ctx context.Context, scenarioID string, now time.Time) (*Conversation, error)

	// Reply submits the learner's message and returns the partner's
	// response. When the language model is unavailable the reply comes from
	// the scenario's script instead; the conversation continues either way.
	//
	// Returns ErrConversationNotFound for an unknown conversation ID and
	// ErrEmptyMessage for a blank message.
	Reply(ctx context.Context, conversationID uuid.UUID, message string, now time.Time) (*Conversation, string, error)

	// End finishes the conversation, discards its in-memory state, and
	// grants the per-minute reward for the time spent. A conversation with
	// no learner turns earns nothing.
	End(ctx context.Context, conversationID uuid.UUID, now time.Time) (*Summary, error)
}

// Common error types for ConversationService
var (
	// ErrScenarioNotFound indicates the scenario ID is unknown.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrConversationNotFound indicates the conversation ID is unknown or
	// the conversation has already ended.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyMessage indicates a blank learner message.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// progressRecorder is the slice of the progress service this package needs.
type progressRecorder interface {
	RecordConversation(ctx context.Context, minutes int, now time.Time) (*progress.SessionResult, error)
}
