package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lernbuddy/internal/api"
	"github.com/phrazzld/lernbuddy/internal/service/progress"
)

func newSessionRouter(t *testing.T, svc progress.ProgressService) http.Handler {
	t.Helper()

	handler := api.NewSessionHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Post("/sessions", handler.CompleteSession)
	return r
}

func TestCompleteSession(t *testing.T) {
	t.Parallel()

	t.Run("records a session and returns rewards", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{
			RecordSessionFunc: func(_ context.Context, seconds, exercises int, perfect bool, _ time.Time) (*progress.SessionResult, error) {
				assert.Equal(t, 900, seconds)
				assert.Equal(t, 12, exercises)
				assert.True(t, perfect)
				return &progress.SessionResult{
					XPGained:    75,
					TotalXP:     300,
					NewLevel:    2,
					StreakDays:  7,
					StreakBonus: 50,
				}, nil
			},
		}

		rec := postJSON(t, newSessionRouter(t, svc), "/sessions", api.CompleteSessionRequest{
			Seconds:   900,
			Exercises: 12,
			Perfect:   true,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var result progress.SessionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 75, result.XPGained)
		assert.Equal(t, 50, result.StreakBonus)
		assert.Equal(t, 7, result.StreakDays)
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		t.Parallel()

		rec := postJSON(t, newSessionRouter(t, &progress.MockProgressService{}), "/sessions",
			map[string]interface{}{"seconds": -60})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("propagates service validation errors", func(t *testing.T) {
		t.Parallel()

		svc := &progress.MockProgressService{
			RecordSessionFunc: func(context.Context, int, int, bool, time.Time) (*progress.SessionResult, error) {
				return nil, progress.ErrInvalidDuration
			},
		}

		rec := postJSON(t, newSessionRouter(t, svc), "/sessions", api.CompleteSessionRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
