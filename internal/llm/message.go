package llm

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type Role string

const (
	RoleSystem    Role = openai.ChatMessageRoleSystem
	RoleDeveloper Role = openai.ChatMessageRoleDeveloper
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
	RoleTool      Role = openai.ChatMessageRoleTool
)

// Valid reports whether r is one of the roles the chat API accepts
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleDeveloper, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message is one entry of the conversation sent to the remote API
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidateMessages rejects conversations containing unknown roles
func ValidateMessages(msgs []Message) error {
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("message #%d: invalid role %q", i+1, m.Role)
		}
	}
	return nil
}

// ReasoningEffort selects how much reasoning the model spends. Empty means
// the request carries no reasoning section.
type ReasoningEffort string

const (
	ReasoningNone   ReasoningEffort = ""
	ReasoningLow    ReasoningEffort = "low"
	ReasoningMedium ReasoningEffort = "medium"
	ReasoningHigh   ReasoningEffort = "high"
)

// ParseReasoningEffort accepts "", "low", "medium" or "high"
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch e := ReasoningEffort(s); e {
	case ReasoningNone, ReasoningLow, ReasoningMedium, ReasoningHigh:
		return e, nil
	default:
		return ReasoningNone, fmt.Errorf("invalid reasoning effort %q (want low, medium or high)", s)
	}
}

// ToolCall is a completed tool invocation requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}
