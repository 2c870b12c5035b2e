package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the conversational origin of a message. The values are
// the exact role strings backend adapters consume.
type Role string

const (
	// RoleSystem marks backend-level instructions.
	RoleSystem Role = "system"
	// RoleUser marks human input.
	RoleUser Role = "user"
	// RoleAssistant marks model output.
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of a tool invocation.
	RoleTool Role = "tool"
)

// ToolCall is a tool invocation requested by an assistant message.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Message is a typed conversational turn passed to a backend adapter.
// Messages are immutable after construction; build them through the
// constructor functions so every message carries a unique identifier and
// creation timestamp.
type Message struct {
	// ID is a generated unique identifier.
	ID string `json:"id"`

	// Role is the message variant: system, user, assistant or tool.
	Role Role `json:"role"`

	// Content is the opaque text payload.
	Content string `json:"content"`

	// CreatedAt is the construction timestamp.
	CreatedAt time.Time `json:"created_at"`

	// ToolCalls carries tool invocation requests on assistant messages.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID correlates a tool message with the originating call.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// Metadata is an open bag of additional attributes.
	Metadata map[string]any `json:"metadata,omitempty"`
}

func newMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewSystemMessage creates a system instruction message.
func NewSystemMessage(content string) Message {
	return newMessage(RoleSystem, content)
}

// NewUserMessage creates a human (user) message.
func NewUserMessage(content string) Message {
	return newMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message, optionally carrying
// tool invocation requests.
func NewAssistantMessage(content string, toolCalls ...ToolCall) Message {
	m := newMessage(RoleAssistant, content)
	m.ToolCalls = toolCalls
	return m
}

// NewToolMessage creates a tool-result message correlated with the tool
// call that produced it.
func NewToolMessage(content, toolCallID string) Message {
	m := newMessage(RoleTool, content)
	m.ToolCallID = toolCallID
	return m
}

// WithMetadata returns a copy of the message with the attribute attached.
func (m Message) WithMetadata(key string, value any) Message {
	md := make(map[string]any, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		md[k] = v
	}
	md[key] = value
	m.Metadata = md
	return m
}

// Projection renders the backend-neutral shape of the message:
// {role, content} plus the variant-specific tool fields when present.
func (m Message) Projection() map[string]any {
	p := map[string]any{
		"role":    string(m.Role),
		"content": m.Content,
	}
	if len(m.ToolCalls) > 0 {
		p["tool_calls"] = m.ToolCalls
	}
	if m.ToolCallID != "" {
		p["tool_call_id"] = m.ToolCallID
	}
	return p
}
