package generation

import "context"

// Turn roles in a conversation history.
const (
	RoleUser    = "user"
	RolePartner = "model"
)

// Turn is one exchange in a roleplay conversation, from either the learner
// or the conversation partner.
type Turn struct {
	Role string
	Text string
}

// ReplyRequest carries everything the model needs to produce the partner's
// next line: the scenario framing, the conversation so far, and the learner's
// latest message.
type ReplyRequest struct {
	// SystemPrompt frames the roleplay: persona, scenario, target CEFR
	// level, and language constraints.
	SystemPrompt string

	// History holds the prior turns in order, oldest first.
	History []Turn

	// UserMessage is the learner's latest message, not yet in History.
	UserMessage string
}

// Generator defines the interface for producing conversation partner replies.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateReply produces the partner's next line for the given request.
	// It returns ErrUnavailable when no model can serve the request, in
	// which case the caller may substitute a scripted reply.
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
}
