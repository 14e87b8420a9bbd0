package hook

import (
	"context"
	"time"
)

// HookPoint defines when a hook is triggered
type HookPoint string

const (
	BeforeToolExecution HookPoint = "before_tool_execution"
	AfterToolExecution  HookPoint = "after_tool_execution"

	// BeforeSuggestionApply fires with the original and suggested code
	// before a suggestion overwrites the solution file. Denying it rejects
	// the suggestion.
	BeforeSuggestionApply HookPoint = "before_suggestion_apply"
	AfterSuggestionApply  HookPoint = "after_suggestion_apply"

	OnTurnStart HookPoint = "on_turn_start"
	OnTurnEnd   HookPoint = "on_turn_end"
)

// HookData carries context-specific information for hooks
type HookData struct {
	Point     HookPoint
	Timestamp time.Time
	ToolName  string
	Data      map[string]any
}

func NewHookData(point HookPoint, toolName string) *HookData {
	return &HookData{
		Point:     point,
		Timestamp: time.Now(),
		ToolName:  toolName,
		Data:      make(map[string]any),
	}
}

func (d *HookData) Set(key string, value any) *HookData {
	d.Data[key] = value
	return d
}

func (d *HookData) Get(key string) any {
	return d.Data[key]
}

// GetString returns the field if it is a string, else ""
func (d *HookData) GetString(key string) string {
	if v, ok := d.Data[key].(string); ok {
		return v
	}
	return ""
}

// Feedback is returned by handlers to control execution flow
type Feedback struct {
	Allow    bool   // Whether to allow the operation to continue
	Message  string // Optional message to display
	Modified any    // Modified data passed on to the next handler
}

func AllowFeedback() *Feedback {
	return &Feedback{Allow: true}
}

func DenyFeedback(message string) *Feedback {
	return &Feedback{Allow: false, Message: message}
}

// Handler is the interface for hook handlers
type Handler interface {
	Name() string

	// Points returns which hook points this handler listens to
	Points() []HookPoint

	// Handle processes the hook event and returns feedback
	Handle(ctx context.Context, data *HookData) (*Feedback, error)

	// Priority returns the handler priority (higher = earlier execution)
	Priority() int
}

// HandlerFunc adapts a function to a Handler listening on the given points
type HandlerFunc struct {
	HandlerName string
	On          []HookPoint
	Order       int
	Fn          func(ctx context.Context, data *HookData) (*Feedback, error)
}

func (h *HandlerFunc) Name() string        { return h.HandlerName }
func (h *HandlerFunc) Points() []HookPoint { return h.On }
func (h *HandlerFunc) Priority() int       { return h.Order }

func (h *HandlerFunc) Handle(ctx context.Context, data *HookData) (*Feedback, error) {
	return h.Fn(ctx, data)
}
