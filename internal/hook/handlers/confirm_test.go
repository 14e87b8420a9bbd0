package handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"leetcoach/internal/hook"
)

type fakePreviewer struct {
	original, suggested string
	calls               int
}

func (p *fakePreviewer) PreviewSuggestion(original, suggested string) {
	p.original, p.suggested = original, suggested
	p.calls++
}

func suggestionData() *hook.HookData {
	return hook.NewHookData(hook.BeforeSuggestionApply, "suggest_code").
		Set("original", "a\n").
		Set("suggested", "a\nb\n").
		Set("path", "solution.py")
}

func TestSuggestionConfirmHandler_Accept(t *testing.T) {
	var out bytes.Buffer
	prev := &fakePreviewer{}
	h := NewSuggestionConfirmHandlerWithIO(strings.NewReader("yes\n"), &out, prev)

	fb, err := h.Handle(context.Background(), suggestionData())
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !fb.Allow {
		t.Error("Expected suggestion to be accepted")
	}
	if prev.calls != 1 || prev.suggested != "a\nb\n" {
		t.Errorf("Expected preview of the suggestion, got %+v", prev)
	}
	if !strings.Contains(out.String(), "solution.py") {
		t.Errorf("Expected prompt to name the file, got %q", out.String())
	}
}

func TestSuggestionConfirmHandler_RejectByDefault(t *testing.T) {
	for _, input := range []string{"\n", "n\n", "maybe\n", ""} {
		h := NewSuggestionConfirmHandlerWithIO(strings.NewReader(input), &bytes.Buffer{}, nil)
		fb, err := h.Handle(context.Background(), suggestionData())
		if err != nil {
			t.Fatalf("Handle failed: %v", err)
		}
		if fb.Allow {
			t.Errorf("Input %q should reject", input)
		}
	}
}

func TestSuggestionConfirmHandler_AnswerWithoutNewline(t *testing.T) {
	h := NewSuggestionConfirmHandlerWithIO(strings.NewReader("y"), &bytes.Buffer{}, nil)
	fb, _ := h.Handle(context.Background(), suggestionData())
	if !fb.Allow {
		t.Error("A final 'y' without newline should accept")
	}
}

func TestToolConfirmHandler_OnlyListedTools(t *testing.T) {
	h := NewToolConfirmHandlerWithIO(strings.NewReader("n\n"), &bytes.Buffer{}, "suggest_code")

	fb, _ := h.Handle(context.Background(), hook.NewHookData(hook.BeforeToolExecution, "other"))
	if !fb.Allow {
		t.Error("Unlisted tools must pass without prompting")
	}

	fb, _ = h.Handle(context.Background(), hook.NewHookData(hook.BeforeToolExecution, "suggest_code"))
	if fb.Allow {
		t.Error("Listed tool should be denied on 'n'")
	}
}
