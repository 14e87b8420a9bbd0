package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"leetcoach/internal/llm"
	"leetcoach/internal/logger"
	"leetcoach/internal/tool/builtin"
)

// Renderer prints a streamed turn to the terminal. Its Callbacks are wired
// into the chat session; PreviewSuggestion is used by the confirm hook.
type Renderer struct {
	mu            sync.Mutex
	writer        io.Writer
	log           *logger.Logger
	colorMode     bool
	showReasoning bool

	// per turn
	reasoningShown int
	wroteContent   bool
	midLine        bool
}

func NewRenderer(w io.Writer, log *logger.Logger) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	return &Renderer{
		writer:        w,
		log:           log,
		colorMode:     true,
		showReasoning: true,
	}
}

func (r *Renderer) SetColorMode(enabled bool) {
	r.colorMode = enabled
}

func (r *Renderer) SetShowReasoning(enabled bool) {
	r.showReasoning = enabled
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.colorMode {
		return s
	}
	return style.Render(s)
}

func (r *Renderer) write(s string) {
	if s == "" {
		return
	}
	fmt.Fprint(r.writer, s)
	r.midLine = !strings.HasSuffix(s, "\n")
}

func (r *Renderer) newline() {
	if r.midLine {
		r.write("\n")
	}
}

// Callbacks returns stream callbacks bound to this renderer and resets the
// per-turn state
func (r *Renderer) Callbacks() *llm.Callbacks {
	r.mu.Lock()
	r.reasoningShown, r.wroteContent, r.midLine = 0, false, false
	r.mu.Unlock()

	return &llm.Callbacks{
		OnChunk:          r.onChunk,
		OnReasoning:      r.onReasoning,
		OnToolCall:       r.onToolCall,
		OnComplete:       r.onComplete,
		OnError:          r.Toast,
		OnMalformedFrame: r.onMalformed,
	}
}

func (r *Renderer) onChunk(delta, full string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.wroteContent && r.reasoningShown > 0 {
		r.newline()
		r.write("\n")
	}
	r.wroteContent = true
	r.write(delta)
}

// onReasoning receives the whole reasoning so far and prints the unseen
// suffix
func (r *Renderer) onReasoning(full string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.showReasoning || r.wroteContent || len(full) <= r.reasoningShown {
		return
	}
	r.write(r.paint(ReasoningStyle, full[r.reasoningShown:]))
	r.reasoningShown = len(full)
}

func (r *Renderer) onToolCall(name string, args map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.newline()
	r.write(r.paint(ToolStyle, "🔧 "+name) + "\n")
}

func (r *Renderer) onComplete(full string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.newline()
}

func (r *Renderer) onMalformed(payload string, err error) {
	r.log.Debug("dropped malformed frame %q: %v", payload, err)
}

// Toast prints a single warning line
func (r *Renderer) Toast(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.newline()
	msg := strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", " ")
	r.write(r.paint(WarningStyle, "⚠ "+msg) + "\n")
}

// PreviewSuggestion prints a line diff of a suggestion, added lines
// highlighted
func (r *Renderer) PreviewSuggestion(original, suggested string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.newline()
	r.write(r.paint(HeaderStyle, "Suggested code") + "\n")
	for _, line := range builtin.LineDiff(original, suggested) {
		switch line.Op {
		case builtin.DiffAdded:
			r.write(r.paint(AddedStyle, fmt.Sprintf("%4d + %s", line.Line, line.Text)) + "\n")
		case builtin.DiffRemoved:
			r.write(r.paint(RemovedStyle, fmt.Sprintf("     - %s", line.Text)) + "\n")
		default:
			r.write(r.paint(ContextStyle, fmt.Sprintf("%4d   %s", line.Line, line.Text)) + "\n")
		}
	}
}

// Prompt prints the REPL prompt
func (r *Renderer) Prompt() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.write(r.paint(PromptStyle, "you ›") + " ")
}
