package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/lernbuddy/internal/config"
	"github.com/phrazzld/lernbuddy/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewReplyGeneratorValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := slog.Default()

	t.Run("nil logger rejected", func(t *testing.T) {
		t.Parallel()

		gen, err := NewReplyGenerator(ctx, nil, config.LLMConfig{
			GeminiAPIKey: "key",
			ModelName:    "gemini-2.0-flash",
		})
		assert.Error(t, err)
		assert.Nil(t, gen)
	})

	t.Run("missing API key rejected", func(t *testing.T) {
		t.Parallel()

		gen, err := NewReplyGenerator(ctx, logger, config.LLMConfig{
			ModelName: "gemini-2.0-flash",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Nil(t, gen)
	})

	t.Run("missing model name rejected", func(t *testing.T) {
		t.Parallel()

		gen, err := NewReplyGenerator(ctx, logger, config.LLMConfig{
			GeminiAPIKey: "key",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Nil(t, gen)
	})
}

func TestBuildContents(t *testing.T) {
	t.Parallel()

	req := generation.ReplyRequest{
		History: []generation.Turn{
			{Role: generation.RolePartner, Text: "Hallo! Was darf es sein?"},
			{Role: generation.RoleUser, Text: "Einen Kaffee, bitte."},
		},
		UserMessage: "Und ein Croissant dazu.",
	}

	contents := buildContents(req)
	require.Len(t, contents, 3)

	assert.Equal(t, string(genai.RoleModel), contents[0].Role)
	assert.Equal(t, "Hallo! Was darf es sein?", contents[0].Parts[0].Text)

	assert.Equal(t, string(genai.RoleUser), contents[1].Role)
	assert.Equal(t, string(genai.RoleUser), contents[2].Role)
	assert.Equal(t, "Und ein Croissant dazu.", contents[2].Parts[0].Text)
}

func TestGenerateReplyRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	g := &ReplyGenerator{
		logger: slog.Default(),
		model:  "gemini-2.0-flash",
	}

	reply, err := g.GenerateReply(context.Background(), generation.ReplyRequest{
		UserMessage: "   ",
	})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, reply)
}
