package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"leetcoach/internal/hook"
	"leetcoach/internal/llm"
	"leetcoach/internal/prompt"
	"leetcoach/internal/tool"
)

var (
	// ErrTurnInProgress is returned by Send while another turn is streaming
	ErrTurnInProgress = errors.New("a response is already streaming")
	ErrEmptyMessage   = errors.New("message is empty")
	// ErrStreamFailed wraps failures the streamer already delivered to
	// OnError
	ErrStreamFailed = errors.New("chat turn failed")
)

// PageSource returns the current problem. It is called once per turn so
// edits to the solution file between turns are picked up.
type PageSource func() (prompt.PageData, error)

// StaticPage returns a PageSource that always yields page
func StaticPage(page prompt.PageData) PageSource {
	return func() (prompt.PageData, error) { return page, nil }
}

type Config struct {
	Model              string
	Mode               prompt.Mode
	Reasoning          llm.ReasoningEffort
	CustomInstructions string
}

// TurnResult is what one Send produced
type TurnResult struct {
	Phase       llm.Phase
	Content     string
	Reasoning   string
	ToolResults []*tool.CallResult
}

// Session is one conversation with the coach. At most one turn is active at
// a time; history only grows when a turn completes.
type Session struct {
	id       string
	streamer llm.Streamer
	registry *tool.Registry
	executor *tool.Executor
	hooks    *hook.Manager
	pages    PageSource
	cfg      Config
	exec     *ExecutionContext

	mu      sync.Mutex
	active  bool
	history []llm.Message
}

type Option func(*Session)

// WithTools makes the registry's tools available in agent mode
func WithTools(registry *tool.Registry) Option {
	return func(s *Session) { s.registry = registry }
}

func WithHooks(manager *hook.Manager) Option {
	return func(s *Session) { s.hooks = manager }
}

func WithExecutionContext(exec *ExecutionContext) Option {
	return func(s *Session) { s.exec = exec }
}

func NewSession(streamer llm.Streamer, pages PageSource, cfg Config, opts ...Option) *Session {
	if cfg.Mode == "" {
		cfg.Mode = prompt.ModeLearn
	}
	s := &Session{
		id:       uuid.NewString(),
		streamer: streamer,
		pages:    pages,
		cfg:      cfg,
		registry: tool.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exec == nil {
		s.exec = NewExecutionContext(nil)
	}
	s.executor = tool.NewExecutor(s.registry)
	if s.hooks != nil {
		s.executor.SetHookManager(s.hooks)
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return s.streamer.Model()
}

// History returns a copy of the completed exchanges
func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.history...)
}

// Reset forgets the conversation. It fails while a turn is active.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrTurnInProgress
	}
	s.history = nil
	return nil
}

// Close logs the session summary
func (s *Session) Close() {
	s.exec.End()
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return ErrTurnInProgress
	}
	s.active = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// Send runs one turn: it builds the conversation, streams the answer
// through cb and, in agent mode, executes the tool calls that ended the
// stream.
func (s *Session) Send(ctx context.Context, text string, cb *llm.Callbacks) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	req, err := s.buildRequest(text)
	if err != nil {
		return nil, err
	}

	s.trigger(ctx, hook.OnTurnStart, "text", text)
	s.exec.Logger.Debug("session %s: sending %d messages to %s", s.id, len(req.Messages), s.Model())

	result, err := s.streamer.StreamChat(ctx, req, cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamFailed, err)
	}

	s.exec.Turns++
	s.exec.LogReasoning(result.Reasoning)
	if result.Content != "" {
		s.exec.LogResponse(result.Content)
	}

	turn := &TurnResult{Phase: result.Phase, Content: result.Content, Reasoning: result.Reasoning}
	reply := result.Content

	if len(result.ToolCalls) > 0 {
		turn.ToolResults, err = s.runTools(ctx, result.ToolCalls)
		if err != nil {
			return turn, err
		}
		reply = appendToolNotes(reply, turn.ToolResults)
	}

	s.mu.Lock()
	s.history = append(s.history,
		llm.Message{Role: llm.RoleUser, Content: text},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	s.mu.Unlock()

	s.trigger(ctx, hook.OnTurnEnd, "phase", result.Phase.String())
	return turn, nil
}

func (s *Session) buildRequest(text string) (*llm.ChatRequest, error) {
	page, err := s.pages()
	if err != nil {
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}

	agent := s.cfg.Mode == prompt.ModeAgent && s.registry.Len() > 0
	custom := s.cfg.CustomInstructions
	if agent {
		if bp := s.registry.GetToolBestPractices(); bp != "" {
			custom = strings.TrimSpace(custom + "\n\n" + bp)
		}
	}

	system, err := prompt.BuildSystemPrompt(page, s.cfg.Mode, custom)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	messages := make([]llm.Message, 0, len(s.history)+2)
	messages = append(messages, system)
	messages = append(messages, s.history...)
	s.mu.Unlock()
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

	req := &llm.ChatRequest{
		Model:     s.cfg.Model,
		Messages:  messages,
		Reasoning: s.cfg.Reasoning,
	}
	if agent {
		req.Tools = s.registry.GetToolDefinitions()
	}
	return req, nil
}

func (s *Session) runTools(ctx context.Context, calls []llm.ToolCall) ([]*tool.CallResult, error) {
	s.exec.Logger.Info("Executing %d tool call(s)...", len(calls))

	results, err := s.executor.Execute(ctx, calls)
	for _, r := range results {
		s.exec.LogToolCall(r.ToolName, string(r.Params))
		s.exec.LogToolResult(r.ToolName, r.Result.Success, r.Result.Output, r.Duration())
	}
	if err != nil {
		return results, fmt.Errorf("tool execution failed: %w", err)
	}
	return results, nil
}

// appendToolNotes records tool outcomes in the assistant message. The
// conversation is plain role/content, so tool results travel as text.
func appendToolNotes(content string, results []*tool.CallResult) string {
	var b strings.Builder
	b.WriteString(content)
	for _, r := range results {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s", r.ToolName, r.Result.Text())
	}
	return b.String()
}

func (s *Session) trigger(ctx context.Context, point hook.HookPoint, key string, value any) {
	if s.hooks == nil {
		return
	}
	data := hook.NewHookData(point, "").Set(key, value).Set("session", s.id)
	if _, err := s.hooks.Trigger(ctx, data); err != nil {
		s.exec.Logger.Warn("%s hook failed: %v", point, err)
	}
}
