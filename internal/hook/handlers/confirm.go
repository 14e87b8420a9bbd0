package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"leetcoach/internal/hook"
)

// Previewer renders a suggestion before the user is asked about it
type Previewer interface {
	PreviewSuggestion(original, suggested string)
}

// SuggestionConfirmHandler shows a suggested replacement and asks the user
// whether to accept it
type SuggestionConfirmHandler struct {
	reader    *bufio.Reader
	writer    io.Writer
	previewer Previewer
}

// NewSuggestionConfirmHandler creates a handler reading from stdin
func NewSuggestionConfirmHandler(previewer Previewer) *SuggestionConfirmHandler {
	return NewSuggestionConfirmHandlerWithIO(os.Stdin, os.Stdout, previewer)
}

// NewSuggestionConfirmHandlerWithIO creates a handler with custom IO (for testing)
func NewSuggestionConfirmHandlerWithIO(reader io.Reader, writer io.Writer, previewer Previewer) *SuggestionConfirmHandler {
	return &SuggestionConfirmHandler{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		previewer: previewer,
	}
}

func (h *SuggestionConfirmHandler) Name() string {
	return "suggestion_confirm"
}

func (h *SuggestionConfirmHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeSuggestionApply}
}

func (h *SuggestionConfirmHandler) Priority() int {
	return 100
}

func (h *SuggestionConfirmHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	if h.previewer != nil {
		h.previewer.PreviewSuggestion(data.GetString("original"), data.GetString("suggested"))
	}

	if path := data.GetString("path"); path != "" {
		fmt.Fprintf(h.writer, "Apply suggestion to %s? [y/N]: ", path)
	} else {
		fmt.Fprintf(h.writer, "Accept suggestion? [y/N]: ")
	}

	if answerYes(h.reader) {
		fmt.Fprintf(h.writer, "\033[32m✓ Accepted\033[0m\n\n")
		return hook.AllowFeedback(), nil
	}
	fmt.Fprintf(h.writer, "\033[31m✗ Rejected\033[0m\n\n")
	return hook.DenyFeedback("User rejected the suggestion"), nil
}

// ToolConfirmHandler prompts user for confirmation before executing a tool
type ToolConfirmHandler struct {
	reader    *bufio.Reader
	writer    io.Writer
	toolNames map[string]bool // Only confirm these tools (empty = all)
}

func NewToolConfirmHandler(tools ...string) *ToolConfirmHandler {
	return NewToolConfirmHandlerWithIO(os.Stdin, os.Stdout, tools...)
}

func NewToolConfirmHandlerWithIO(reader io.Reader, writer io.Writer, tools ...string) *ToolConfirmHandler {
	toolNames := make(map[string]bool)
	for _, t := range tools {
		toolNames[t] = true
	}
	return &ToolConfirmHandler{
		reader:    bufio.NewReader(reader),
		writer:    writer,
		toolNames: toolNames,
	}
}

func (h *ToolConfirmHandler) Name() string {
	return "tool_confirm"
}

func (h *ToolConfirmHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeToolExecution}
}

func (h *ToolConfirmHandler) Priority() int {
	return 90
}

func (h *ToolConfirmHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	if len(h.toolNames) > 0 && !h.toolNames[data.ToolName] {
		return hook.AllowFeedback(), nil
	}

	fmt.Fprintf(h.writer, "\n\033[33m⚠️  Tool '%s' requires confirmation\033[0m\n", data.ToolName)
	fmt.Fprintf(h.writer, "Allow? [y/N]: ")

	if answerYes(h.reader) {
		fmt.Fprintf(h.writer, "\033[32m✓ Allowed\033[0m\n\n")
		return hook.AllowFeedback(), nil
	}
	fmt.Fprintf(h.writer, "\033[31m✗ Denied\033[0m\n\n")
	return hook.DenyFeedback("User denied tool execution"), nil
}

func answerYes(r *bufio.Reader) bool {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return true
	}
	return false
}
