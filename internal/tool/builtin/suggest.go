package builtin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leetcoach/internal/hook"
	"leetcoach/internal/tool"
)

const SuggestToolName = "suggest_code"

// SuggestTool lets the model propose a full replacement for the user's
// solution. The user accepts or rejects it through the BeforeSuggestionApply
// hook; accepted suggestions overwrite the solution file.
type SuggestTool struct {
	solutionPath string
}

func NewSuggestTool(solutionPath string) *SuggestTool {
	return &SuggestTool{solutionPath: solutionPath}
}

func (t *SuggestTool) Name() string {
	return SuggestToolName
}

func (t *SuggestTool) Description() string {
	return "Invoke when the user asks for the solution. If the user intent is uncertain, seek clarification instead of invoking."
}

func (t *SuggestTool) BestPractices() string {
	return `**suggest_code**:
1. Always send the complete file, never a fragment or a diff
2. Only call it after the user explicitly asked for code`
}

func (t *SuggestTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestion": map[string]any{
				"type":        "string",
				"description": "The full new code to put in the editor, completely replacing existing content.",
			},
		},
		"required": []string{"suggestion"},
	}
}

func (t *SuggestTool) Execute(ctx context.Context, params json.RawMessage) (*tool.Result, error) {
	var p struct {
		Suggestion *string `json:"suggestion"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return tool.Failure("invalid parameters: %v", err), nil
	}
	if p.Suggestion == nil {
		return tool.Failure("missing required parameter: suggestion"), nil
	}
	suggestion := *p.Suggestion

	original, err := t.readOriginal()
	if err != nil {
		return tool.Failure("failed to read solution: %v", err), nil
	}

	added := AddedLines(original, suggestion)
	hookData := hook.NewHookData(hook.BeforeSuggestionApply, SuggestToolName).
		Set("original", original).
		Set("suggested", suggestion).
		Set("path", t.solutionPath).
		Set("added_lines", added)

	feedback, err := hook.TriggerFromContext(ctx, hookData)
	if err != nil {
		return nil, fmt.Errorf("suggestion hook: %w", err)
	}
	if !feedback.Allow {
		return &tool.Result{
			Success: true,
			Output:  "The user rejected the suggestion. Their code is unchanged.",
			Data:    map[string]any{"accepted": false},
		}, nil
	}

	data := map[string]any{"accepted": true, "added_lines": len(added)}
	if t.solutionPath == "" {
		return &tool.Result{
			Success: true,
			Output:  "The user accepted the suggestion.",
			Data:    data,
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(t.solutionPath), 0755); err != nil {
		return tool.Failure("failed to create directory: %v", err), nil
	}
	if !strings.HasSuffix(suggestion, "\n") && suggestion != "" {
		suggestion += "\n"
	}
	if err := os.WriteFile(t.solutionPath, []byte(suggestion), 0644); err != nil {
		return tool.Failure("failed to write solution: %v", err), nil
	}

	_, _ = hook.TriggerFromContext(ctx, hook.NewHookData(hook.AfterSuggestionApply, SuggestToolName).
		Set("path", t.solutionPath).
		Set("suggested", suggestion))

	return &tool.Result{
		Success: true,
		Output:  fmt.Sprintf("The user accepted the suggestion; %s now holds the new code (%d lines added).", t.solutionPath, len(added)),
		Data:    data,
	}, nil
}

func (t *SuggestTool) readOriginal() (string, error) {
	if t.solutionPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(t.solutionPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}
