package llm

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle position of one request/response cycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRequesting
	PhaseStreaming
	PhaseCompleted
	PhaseToolCallTerminated
	PhaseErrored
)

var ErrInvalidTransition = errors.New("invalid stream phase transition")

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequesting:
		return "requesting"
	case PhaseStreaming:
		return "streaming"
	case PhaseCompleted:
		return "completed"
	case PhaseToolCallTerminated:
		return "tool_call_terminated"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether no further transition is allowed
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseToolCallTerminated || p == PhaseErrored
}

// Transition validates a move from p to next. Errored is reachable from
// every non-terminal phase; Completed and ToolCallTerminated only from
// Streaming.
func (p Phase) Transition(next Phase) (Phase, error) {
	ok := false
	switch {
	case p.Terminal():
	case next == PhaseErrored:
		ok = true
	case p == PhaseIdle:
		ok = next == PhaseRequesting || next == PhaseStreaming
	case p == PhaseRequesting:
		ok = next == PhaseStreaming
	case p == PhaseStreaming:
		ok = next == PhaseCompleted || next == PhaseToolCallTerminated
	}
	if !ok {
		return p, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p, next)
	}
	return next, nil
}
