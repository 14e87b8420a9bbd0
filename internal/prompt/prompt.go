package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"leetcoach/internal/llm"
)

// Mode selects what the coach may do
type Mode string

const (
	// ModeLearn gives hints only; no tools are offered to the model
	ModeLearn Mode = "learn"
	// ModeAgent additionally offers suggest_code so the model can propose
	// a full replacement for the user's code
	ModeAgent Mode = "agent"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLearn, ModeAgent:
		return m, nil
	case "":
		return ModeLearn, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want learn or agent)", s)
	}
}

// PageData is the problem the user is working on
type PageData struct {
	Title         string
	Description   string
	EditorContent string
	Language      string
	Timestamp     time.Time
}

const coachInstructions = `You are a helpful Leetcode coach helping the user develop pattern recognition, intuition, and advanced problem-solving. When they ask for help: first give only 1-2 high-leverage hints (no code / full solution). Offer more hints only if requested; provide full solution only on explicit ask, then finish with a 1-3 line "key intuition" summary. Highlight underlying patterns (e.g., sliding window, monotonic stack), reusable heuristics, and (when asked) give Big-O time & space with a brief rationale. After solving (or on request) suggest 5 similar problems of increasing difficulty. Encourage reflection on which hint unlocked progress. Keep replies short (2-3 sentences unless truly necessary).`

const agentInstructions = `When the user explicitly asks for the solution or for code, call the suggest_code tool with the complete replacement code instead of pasting it into the reply.`

var systemTemplate = template.Must(template.New("system").Parse(`{{.Instructions}}
{{- if .Agent}}

{{.AgentInstructions}}
{{- end}}
{{- if .Custom}}

{{.Custom}}
{{- end}}

The user is currently attempting to solve {{.Page.Title}}.

Here is the problem description:

` + "```html" + `
{{.Page.Description}}
` + "```" + `
{{- if .Page.EditorContent}}

Here is the user's current code:

` + "```{{.Page.Language}}" + `
{{.Page.EditorContent}}
` + "```" + `
{{- end}}

Use this context to answer the user's questions.`))

// BuildSystemPrompt renders the system message for a problem
func BuildSystemPrompt(page PageData, mode Mode, customInstructions string) (llm.Message, error) {
	var buf bytes.Buffer
	err := systemTemplate.Execute(&buf, map[string]any{
		"Instructions":      coachInstructions,
		"AgentInstructions": agentInstructions,
		"Agent":             mode == ModeAgent,
		"Custom":            strings.TrimSpace(customInstructions),
		"Page":              page,
	})
	if err != nil {
		return llm.Message{}, fmt.Errorf("failed to render system prompt: %w", err)
	}

	return llm.Message{Role: llm.RoleSystem, Content: buf.String()}, nil
}

// languageByExt maps solution file extensions to fence languages
var languageByExt = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".java":  "java",
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".rs":    "rust",
	".rb":    "ruby",
	".kt":    "kotlin",
	".swift": "swift",
	".scala": "scala",
	".php":   "php",
}

// LanguageForFile guesses the fence language from a file name
func LanguageForFile(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

// LoadPage assembles PageData from a description file and an optional
// solution file. A missing solution file means the editor is empty.
func LoadPage(title, descriptionPath, solutionPath, language string) (PageData, error) {
	page := PageData{Title: title, Language: language, Timestamp: time.Now()}

	if descriptionPath != "" {
		data, err := os.ReadFile(descriptionPath)
		if err != nil {
			return page, fmt.Errorf("failed to read description: %w", err)
		}
		page.Description = string(data)
	}

	if solutionPath != "" {
		data, err := os.ReadFile(solutionPath)
		if err != nil && !os.IsNotExist(err) {
			return page, fmt.Errorf("failed to read solution: %w", err)
		}
		page.EditorContent = string(data)
		if page.Language == "" {
			page.Language = LanguageForFile(solutionPath)
		}
	}

	if page.Title == "" {
		page.Title = "an unnamed problem"
	}
	return page, nil
}
