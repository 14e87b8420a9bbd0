package hook

import (
	"context"
	"sort"
	"sync"
)

// Manager dispatches hook events to registered handlers
type Manager struct {
	handlers map[HookPoint][]Handler
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		handlers: make(map[HookPoint][]Handler),
	}
}

func (m *Manager) Register(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, point := range handler.Points() {
		list := append(m.handlers[point], handler)
		// Higher priority first; equal priorities keep registration order
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		m.handlers[point] = list
	}
}

// Trigger executes all handlers for a hook point in priority order. The
// first denial stops the chain and is returned.
func (m *Manager) Trigger(ctx context.Context, data *HookData) (*Feedback, error) {
	m.mu.RLock()
	handlers := append([]Handler(nil), m.handlers[data.Point]...)
	m.mu.RUnlock()

	for _, handler := range handlers {
		feedback, err := handler.Handle(ctx, data)
		if err != nil {
			return nil, err
		}
		if feedback == nil {
			continue
		}

		if !feedback.Allow {
			return feedback, nil
		}

		if feedback.Modified != nil {
			data.Data["_modified"] = feedback.Modified
		}
	}

	return AllowFeedback(), nil
}

func (m *Manager) HasHandlers(point HookPoint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[point]) > 0
}

// ListHandlers returns handler names for a hook point
func (m *Manager) ListHandlers(point HookPoint) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	handlers := m.handlers[point]
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.Name()
	}
	return names
}
