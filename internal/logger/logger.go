package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota // shown with --verbose
	LevelInfo
	LevelWarn
	LevelTool  // tool calls and suggestion decisions
	LevelCoach // coach responses and reasoning
	LevelError
)

var levelNames = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"tool":  LevelTool,
	"coach": LevelCoach,
	"error": LevelError,
}

// ParseLevel maps a config value to a Level
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelInfo, nil
	}
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ANSI color codes for terminal output
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorGray    = "\033[90m"
	ColorBold    = "\033[1m"
)

const (
	maxResultLines  = 2
	maxResultLength = 500
)

// Logger writes leveled, optionally colored lines and sections. It is safe
// for concurrent use.
type Logger struct {
	mu        sync.Mutex
	writer    io.Writer
	level     Level
	showTime  bool
	colorMode bool
}

func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		writer:    w,
		level:     level,
		showTime:  true,
		colorMode: true,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLogger(io.Discard, LevelError+1)
}

func (l *Logger) SetColorMode(enabled bool) {
	l.colorMode = enabled
}

func (l *Logger) SetShowTime(enabled bool) {
	l.showTime = enabled
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && l.level <= level
}

func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(LevelDebug) {
		l.line(ColorGray, "DEBUG", format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.line(ColorBlue, "INFO", format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(LevelWarn) {
		l.line(ColorYellow, "WARN", format, args...)
	}
}

func (l *Logger) Error(format string, args ...any) {
	if l.enabled(LevelError) {
		l.line(ColorRed, "ERROR", format, args...)
	}
}

// Reasoning logs the model's accumulated reasoning for a turn
func (l *Logger) Reasoning(text string) {
	if l.enabled(LevelCoach) && strings.TrimSpace(text) != "" {
		l.section(ColorGray, "🧠 Reasoning", text)
	}
}

// CoachResponse logs the final assistant text of a turn
func (l *Logger) CoachResponse(content string) {
	if l.enabled(LevelCoach) {
		l.section(ColorGreen, "💬 Coach", content)
	}
}

func (l *Logger) ToolCall(toolName string, params string) {
	if l.enabled(LevelTool) {
		l.section(ColorCyan, fmt.Sprintf("🔧 Tool Call: %s", toolName), formatJSON(params))
	}
}

func (l *Logger) ToolResult(toolName string, success bool, output string, duration time.Duration) {
	if !l.enabled(LevelTool) {
		return
	}
	status, color := "✅ Success", ColorGreen
	if !success {
		status, color = "❌ Failed", ColorRed
	}
	header := fmt.Sprintf("📊 Tool Result: %s [%s] (%s)", toolName, status, duration.Round(time.Millisecond))
	l.section(color, header, truncate(output))
}

// SessionStart prints the banner for a coaching session
func (l *Logger) SessionStart(problem, model, mode string) {
	if l.enabled(LevelInfo) {
		l.banner(ColorCyan, "🚀 Coaching: "+problem, fmt.Sprintf("Model: %s | Mode: %s", model, mode))
	}
}

func (l *Logger) SessionEnd(duration time.Duration, turns, toolCalls int) {
	if l.enabled(LevelInfo) {
		summary := fmt.Sprintf("Duration: %s | Turns: %d | Tool Calls: %d", duration.Round(time.Millisecond), turns, toolCalls)
		l.banner(ColorGreen, "✨ Session Ended", summary)
	}
}

func (l *Logger) paint(color, s string) string {
	if !l.colorMode {
		return s
	}
	return color + s + ColorReset
}

func (l *Logger) line(color, level, format string, args ...any) {
	prefix := "[" + level + "]"
	if l.showTime {
		prefix = time.Now().Format("15:04:05") + " " + prefix
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "%s %s\n", l.paint(color, prefix), fmt.Sprintf(format, args...))
}

func (l *Logger) section(color, header, content string) {
	rule := l.paint(color, strings.Repeat("─", 60))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "\n%s\n%s\n%s\n%s\n\n", l.paint(ColorBold+color, header), rule, content, rule)
}

func (l *Logger) banner(color, title, subtitle string) {
	rule := l.paint(ColorBold+color, strings.Repeat("═", 70))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "\n%s\n  %s\n", rule, l.paint(ColorBold+color, title))
	if subtitle != "" {
		fmt.Fprintf(l.writer, "  %s\n", l.paint(color, subtitle))
	}
	fmt.Fprintf(l.writer, "%s\n\n", rule)
}

// truncate keeps at most two lines and 500 bytes of a tool result
func truncate(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	display := output
	cutLines := len(lines) > maxResultLines
	if cutLines {
		display = strings.Join(lines[:maxResultLines], "\n")
	}

	switch {
	case len(display) > maxResultLength:
		return display[:maxResultLength] + "..."
	case cutLines:
		return display + "\n..."
	}
	return display
}

// formatJSON keeps short JSON compact and pretty-prints long JSON
func formatJSON(s string) string {
	compact := strings.TrimSpace(s)
	if len(compact) < 80 {
		return compact
	}

	var obj any
	if err := json.Unmarshal([]byte(compact), &obj); err != nil {
		return compact
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return compact
	}
	return string(pretty)
}
