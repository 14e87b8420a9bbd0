package llm

import (
	"errors"
	"testing"
)

func TestPhase_HappyPath(t *testing.T) {
	p := PhaseIdle
	for _, next := range []Phase{PhaseRequesting, PhaseStreaming, PhaseCompleted} {
		var err error
		p, err = p.Transition(next)
		if err != nil {
			t.Fatalf("Transition to %s failed: %v", next, err)
		}
	}
	if !p.Terminal() {
		t.Errorf("Expected terminal phase, got %s", p)
	}
}

func TestPhase_TerminalEnteredOnce(t *testing.T) {
	for _, terminal := range []Phase{PhaseCompleted, PhaseToolCallTerminated, PhaseErrored} {
		for _, next := range []Phase{PhaseCompleted, PhaseToolCallTerminated, PhaseErrored, PhaseStreaming} {
			got, err := terminal.Transition(next)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", terminal, next, err)
			}
			if got != terminal {
				t.Errorf("%s -> %s: phase changed to %s", terminal, next, got)
			}
		}
	}
}

func TestPhase_ErroredFromAnyLivePhase(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseRequesting, PhaseStreaming} {
		if _, err := p.Transition(PhaseErrored); err != nil {
			t.Errorf("%s -> errored should be allowed: %v", p, err)
		}
	}
}

func TestPhase_CannotCompleteBeforeStreaming(t *testing.T) {
	if _, err := PhaseRequesting.Transition(PhaseCompleted); err == nil {
		t.Error("requesting -> completed should be rejected")
	}
}

func TestParseReasoningEffort(t *testing.T) {
	for _, s := range []string{"", "low", "medium", "high"} {
		if _, err := ParseReasoningEffort(s); err != nil {
			t.Errorf("ParseReasoningEffort(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseReasoningEffort("extreme"); err == nil {
		t.Error("Expected error for unknown effort")
	}
}

func TestValidateMessages(t *testing.T) {
	ok := []Message{{Role: RoleSystem, Content: "s"}, {Role: RoleDeveloper}, {Role: RoleUser}, {Role: RoleAssistant}, {Role: RoleTool}}
	if err := ValidateMessages(ok); err != nil {
		t.Errorf("Expected valid conversation, got: %v", err)
	}
	if err := ValidateMessages([]Message{{Role: "narrator"}}); err == nil {
		t.Error("Expected error for unknown role")
	}
}

func TestCallbacks_NilSafe(t *testing.T) {
	e := NewEmitter(nil)
	e.Chunk("a", "a")
	e.Reasoning("r")
	e.ToolCall("t", nil)
	e.Complete("a")
	e.Error(errors.New("x"))
	e.Malformed("{", errors.New("x"))

	var got string
	e = NewEmitter(&Callbacks{OnComplete: func(full string) { got = full }})
	e.Chunk("ignored", "ignored")
	e.Complete("done")
	if got != "done" {
		t.Errorf("Expected OnComplete to receive 'done', got %q", got)
	}
}
