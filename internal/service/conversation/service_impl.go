package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/phrazzld/lernbuddy/internal/platform/logger"
)

// Verify interface compliance at compile time
var _ ConversationService = (*conversationServiceImpl)(nil)

// conversationServiceImpl implements the ConversationService interface.
type conversationServiceImpl struct {
	scenarios map[string]Scenario
	ordered   []Scenario

	// generator may be nil when no language model is configured; every
	// reply is then scripted.
	generator generation.Generator
	progress  progressRecorder
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Conversation
}

// NewConversationService creates a new ConversationService implementation.
// generator may be nil; conversations then run entirely on scripted replies.
func NewConversationService(
	generator generation.Generator,
	progressService progressRecorder,
	logger *slog.Logger,
) ConversationService {
	if progressService == nil {
		panic("progressService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ordered := DefaultScenarios()
	scenarios := make(map[string]Scenario, len(ordered))
	for _, sc := range ordered {
		scenarios[sc.ID] = sc
	}

	return &conversationServiceImpl{
		scenarios: scenarios,
		ordered:   ordered,
		generator: generator,
		progress:  progressService,
		logger:    logger.With(slog.String("component", "conversation_service")),
		sessions:  make(map[uuid.UUID]*Conversation),
	}
}

// ListScenarios implements ConversationService.ListScenarios.
func (s *conversationServiceImpl) ListScenarios() []Scenario {
	out := make([]Scenario, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Start implements ConversationService.Start.
func (s *conversationServiceImpl) Start(
	ctx context.Context,
	scenarioID string,
	now time.Time,
) (*Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	scenario, ok := s.scenarios[scenarioID]
	if !ok {
		return nil, ErrScenarioNotFound
	}

	conv := &Conversation{
		ID:        uuid.New(),
		Scenario:  scenario,
		StartedAt: now.UTC(),
		Turns: []generation.Turn{
			{Role: generation.RolePartner, Text: scenario.Opening},
		},
		Scripted: s.generator == nil,
	}

	s.mu.Lock()
	s.sessions[conv.ID] = conv
	s.mu.Unlock()

	log.Debug("conversation started",
		slog.String("conversation_id", conv.ID.String()),
		slog.String("scenario", scenarioID),
		slog.Bool("scripted", conv.Scripted))

	return snapshot(conv), nil
}

// Reply implements ConversationService.Reply.
func (s *conversationServiceImpl) Reply(
	ctx context.Context,
	conversationID uuid.UUID,
	message string,
	now time.Time,
) (*Conversation, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(message) == "" {
		return nil, "", ErrEmptyMessage
	}

	s.mu.Lock()
	conv, ok := s.sessions[conversationID]
	s.mu.Unlock()
	if !ok {
		return nil, "", ErrConversationNotFound
	}

	reply := s.generateReply(ctx, conv, message)

	s.mu.Lock()
	conv.Turns = append(conv.Turns,
		generation.Turn{Role: generation.RoleUser, Text: message},
		generation.Turn{Role: generation.RolePartner, Text: reply},
	)
	result := snapshot(conv)
	s.mu.Unlock()

	log.Debug("conversation turn",
		slog.String("conversation_id", conversationID.String()),
		slog.Int("turns", len(result.Turns)),
		slog.Bool("scripted", result.Scripted))

	return result, reply, nil
}

// generateReply asks the language model for the partner's next line and falls
// back to the scenario script when the model cannot serve the request.
func (s *conversationServiceImpl) generateReply(
	ctx context.Context,
	conv *Conversation,
	message string,
) string {
	if s.generator != nil {
		reply, err := s.generator.GenerateReply(ctx, generation.ReplyRequest{
			SystemPrompt: systemPrompt(conv.Scenario),
			History:      conv.Turns,
			UserMessage:  message,
		})
		if err == nil {
			return reply
		}

		s.logger.Warn("falling back to scripted reply",
			slog.String("conversation_id", conv.ID.String()),
			slog.String("error", err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv.Scripted = true
	script := conv.Scenario.ScriptedReplies
	if len(script) == 0 {
		return conv.Scenario.Opening
	}
	reply := script[conv.scriptIdx%len(script)]
	conv.scriptIdx++
	return reply
}

// End implements ConversationService.End.
func (s *conversationServiceImpl) End(
	ctx context.Context,
	conversationID uuid.UUID,
	now time.Time,
) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	conv, ok := s.sessions[conversationID]
	if ok && conv.ending {
		ok = false
	}
	if ok {
		conv.ending = true
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrConversationNotFound
	}

	learnerTurns := 0
	for _, turn := range conv.Turns {
		if turn.Role == generation.RoleUser {
			learnerTurns++
		}
	}

	minutes := 0
	if learnerTurns > 0 {
		minutes = int(now.UTC().Sub(conv.StartedAt).Minutes())
		if minutes < 1 {
			minutes = 1
		}
	}

	summary := &Summary{
		ScenarioID: conv.Scenario.ID,
		Minutes:    minutes,
		TurnCount:  len(conv.Turns),
	}

	// The session stays registered until its minutes are recorded, so a
	// failed transaction leaves the conversation endable again.
	result, err := s.progress.RecordConversation(ctx, minutes, now)
	if err != nil {
		s.mu.Lock()
		conv.ending = false
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to record conversation: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, conversationID)
	s.mu.Unlock()

	summary.XPGained = result.XPGained
	summary.TotalXP = result.TotalXP
	summary.LeveledUp = result.LeveledUp
	summary.NewLevel = result.NewLevel
	summary.StreakDays = result.StreakDays

	log.Debug("conversation ended",
		slog.String("conversation_id", conversationID.String()),
		slog.String("scenario", conv.Scenario.ID),
		slog.Int("minutes", minutes),
		slog.Int("xp_gained", summary.XPGained))

	return summary, nil
}

// systemPrompt frames the roleplay for the model: stay in persona, keep to
// the learner's level, and always leave the learner something to respond to.
func systemPrompt(sc Scenario) string {
	var b strings.Builder
	b.WriteString("You are playing a roleplay partner in a German conversation practice app. ")
	fmt.Fprintf(&b, "Stay in character as %s. ", sc.Persona)
	fmt.Fprintf(&b, "The scenario: %s. ", sc.Description)
	fmt.Fprintf(&b, "The learner's level is %s; use vocabulary and grammar appropriate for that level. ", sc.Level)
	b.WriteString("Reply only in German, in one to three short sentences, and end with a question or prompt that keeps the conversation going. ")
	b.WriteString("Gently rephrase the learner's mistakes in your reply instead of correcting them explicitly.")
	return b.String()
}

// snapshot returns a copy safe to hand to callers while the original keeps
// mutating under the service mutex.
func snapshot(conv *Conversation) *Conversation {
	copied := *conv
	copied.Turns = make([]generation.Turn, len(conv.Turns))
	copy(copied.Turns, conv.Turns)
	return &copied
}
