package conversation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) GenerateReply(_ context.Context, _ generation.ReplyRequest) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type stubRecorder struct {
	minutes int
	result  *progress.SessionResult
	err     error
}

func (r *stubRecorder) RecordConversation(_ context.Context, minutes int, _ time.Time) (*progress.SessionResult, error) {
	r.minutes = minutes
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &progress.SessionResult{XPGained: minutes * 8, TotalXP: minutes * 8, NewLevel: 1}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var startTime = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func TestListScenarios(t *testing.T) {
	t.Parallel()

	svc := NewConversationService(nil, &stubRecorder{}, testLogger())

	scenarios := svc.ListScenarios()
	require.NotEmpty(t, scenarios)

	ids := make(map[string]bool)
	for _, sc := range scenarios {
		assert.True(t, sc.Level.IsValid(), "scenario %s has invalid level", sc.ID)
		assert.NotEmpty(t, sc.Opening, "scenario %s has no opening line", sc.ID)
		assert.NotEmpty(t, sc.ScriptedReplies, "scenario %s has no scripted replies", sc.ID)
		assert.False(t, ids[sc.ID], "duplicate scenario ID %s", sc.ID)
		ids[sc.ID] = true
	}

	assert.True(t, ids["cafe"])
	assert.True(t, ids["job_interview"])
}

func TestStartUnknownScenario(t *testing.T) {
	t.Parallel()

	svc := NewConversationService(nil, &stubRecorder{}, testLogger())

	_, err := svc.Start(context.Background(), "time_travel", startTime)
	assert.ErrorIs(t, err, ErrScenarioNotFound)
}

func TestConversationWithGenerator(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{reply: "Schön! Und woher kommst du?"}
	svc := NewConversationService(gen, &stubRecorder{}, testLogger())

	conv, err := svc.Start(context.Background(), "greeting", startTime)
	require.NoError(t, err)
	assert.False(t, conv.Scripted)
	require.Len(t, conv.Turns, 1)
	assert.Equal(t, generation.RolePartner, conv.Turns[0].Role)

	updated, reply, err := svc.Reply(context.Background(), conv.ID, "Ich heiße Max.", startTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "Schön! Und woher kommst du?", reply)
	assert.Equal(t, 1, gen.calls)

	// Opening, learner message, partner reply.
	require.Len(t, updated.Turns, 3)
	assert.Equal(t, generation.RoleUser, updated.Turns[1].Role)
	assert.Equal(t, "Ich heiße Max.", updated.Turns[1].Text)
}

func TestScriptedFallback(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{err: generation.ErrUnavailable}
	svc := NewConversationService(gen, &stubRecorder{}, testLogger())

	conv, err := svc.Start(context.Background(), "cafe", startTime)
	require.NoError(t, err)

	updated, reply, err := svc.Reply(context.Background(), conv.ID, "Einen Kaffee, bitte.", startTime)
	require.NoError(t, err)
	assert.Equal(t, "Gerne! Möchten Sie auch etwas essen?", reply)
	assert.True(t, updated.Scripted)

	// Scripted replies cycle in order.
	_, reply, err = svc.Reply(context.Background(), conv.ID, "Ja, ein Croissant.", startTime)
	require.NoError(t, err)
	assert.Equal(t, "Eine gute Wahl. Darf es sonst noch etwas sein?", reply)
}

func TestReplyValidation(t *testing.T) {
	t.Parallel()

	svc := NewConversationService(nil, &stubRecorder{}, testLogger())

	conv, err := svc.Start(context.Background(), "greeting", startTime)
	require.NoError(t, err)

	_, _, err = svc.Reply(context.Background(), conv.ID, "   ", startTime)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = svc.Reply(context.Background(), uuid.New(), "Hallo!", startTime)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestEndGrantsPerMinuteReward(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	svc := NewConversationService(nil, recorder, testLogger())

	conv, err := svc.Start(context.Background(), "doctor", startTime)
	require.NoError(t, err)

	_, _, err = svc.Reply(context.Background(), conv.ID, "Ich habe Halsschmerzen.", startTime.Add(time.Minute))
	require.NoError(t, err)

	summary, err := svc.End(context.Background(), conv.ID, startTime.Add(5*time.Minute+30*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 5, recorder.minutes)
	assert.Equal(t, 5, summary.Minutes)
	assert.Equal(t, 40, summary.XPGained)
	assert.Equal(t, 3, summary.TurnCount)
	assert.Equal(t, "doctor", summary.ScenarioID)

	// The conversation is gone after ending.
	_, err = svc.End(context.Background(), conv.ID, startTime.Add(6*time.Minute))
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestEndKeepsSessionWhenRecordingFails(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{err: progress.ErrInvalidDuration}
	svc := NewConversationService(nil, recorder, testLogger())

	conv, err := svc.Start(context.Background(), "shopping", startTime)
	require.NoError(t, err)

	_, _, err = svc.Reply(context.Background(), conv.ID, "Was kostet das Hemd?", startTime.Add(time.Minute))
	require.NoError(t, err)

	_, err = svc.End(context.Background(), conv.ID, startTime.Add(3*time.Minute))
	require.Error(t, err)

	// The failed attempt must not have consumed the session; ending again
	// once recording works still credits the minutes.
	recorder.err = nil
	summary, err := svc.End(context.Background(), conv.ID, startTime.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Minutes)
	assert.Equal(t, 3, recorder.minutes)
}

func TestEndWithoutLearnerTurnsEarnsNothing(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	svc := NewConversationService(nil, recorder, testLogger())

	conv, err := svc.Start(context.Background(), "debate", startTime)
	require.NoError(t, err)

	summary, err := svc.End(context.Background(), conv.ID, startTime.Add(10*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Minutes)
	assert.Equal(t, 0, recorder.minutes)
}

func TestEndShortConversationRoundsUpToOneMinute(t *testing.T) {
	t.Parallel()

	recorder := &stubRecorder{}
	svc := NewConversationService(nil, recorder, testLogger())

	conv, err := svc.Start(context.Background(), "greeting", startTime)
	require.NoError(t, err)

	_, _, err = svc.Reply(context.Background(), conv.ID, "Hallo, ich bin Max!", startTime.Add(10*time.Second))
	require.NoError(t, err)

	summary, err := svc.End(context.Background(), conv.ID, startTime.Add(30*time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Minutes)
}
