package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cozyberries/opsbot/core/logger"
)

// Session is the live state of one chat's flow.
type Session struct {
	Flow      *Flow
	StepIdx   int
	Draft     *Draft
	UpdatedAt time.Time
}

// Options configures a Manager.
type Options struct {
	// IdleTTL expires sessions with no input for this long. Zero
	// disables expiry.
	IdleTTL time.Duration

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Manager owns flow registration and the per chat session table.
// Sessions expire lazily: an idle session is discarded the next time
// its chat is looked at.
type Manager struct {
	mu       sync.Mutex
	flows    map[string]*Flow
	sessions map[int64]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewManager builds an empty Manager.
func NewManager(opts Options) *Manager {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Manager{
		flows:    make(map[string]*Flow),
		sessions: make(map[int64]*Session),
		idleTTL:  opts.IdleTTL,
		now:      now,
	}
}

// Register adds a flow. Registering twice under one name panics, the
// same as a duplicate HTTP route would.
func (m *Manager) Register(f *Flow) {
	if f == nil || f.Name == "" {
		panic("state: flow must have a name")
	}
	if len(f.Steps) == 0 {
		panic(fmt.Sprintf("state: flow %q has no steps", f.Name))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.flows[f.Name]; dup {
		panic(fmt.Sprintf("state: flow %q registered twice", f.Name))
	}
	m.flows[f.Name] = f
}

// Start begins the named flow for a chat and returns the first prompt.
func (m *Manager) Start(chatID, userID int64, flowName string) (string, error) {
	return m.StartWith(chatID, userID, flowName, nil)
}

// StartWith begins a flow with pre seeded draft data, for flows bound
// to an existing record (the seed usually carries its id).
func (m *Manager) StartWith(chatID, userID int64, flowName string, seed map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	flow, ok := m.flows[flowName]
	if !ok {
		return "", ErrUnknownFlow
	}
	if s := m.liveSessionLocked(chatID); s != nil {
		return "", ErrFlowActive
	}

	draft := &Draft{ChatID: chatID, UserID: userID, Data: make(map[string]any, len(seed))}
	for k, v := range seed {
		draft.Data[k] = v
	}
	m.sessions[chatID] = &Session{
		Flow:      flow,
		Draft:     draft,
		UpdatedAt: m.now(),
	}
	return flow.Prompt(flow.Steps[0], draft), nil
}

// Active reports whether the chat has a live, non expired session.
func (m *Manager) Active(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveSessionLocked(chatID) != nil
}

// CurrentStep returns the step the chat is waiting on, or "" when no
// flow is active.
func (m *Manager) CurrentStep(chatID int64) Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.liveSessionLocked(chatID)
	if s == nil {
		return ""
	}
	return s.Flow.Steps[s.StepIdx]
}

// HandleText feeds one message into the chat's active flow. The reply
// is either the next prompt, a validation message repeating the
// current prompt, or the flow's closing message when done is true.
func (m *Manager) HandleText(ctx context.Context, chatID int64, text string) (reply string, done bool, err error) {
	m.mu.Lock()
	s := m.liveSessionLocked(chatID)
	if s == nil {
		m.mu.Unlock()
		return "", false, fmt.Errorf("state: no active flow for chat %d", chatID)
	}

	flow := s.Flow
	step := flow.Steps[s.StepIdx]
	if applyErr := flow.Apply(step, text, s.Draft); applyErr != nil {
		s.UpdatedAt = m.now()
		prompt := flow.Prompt(step, s.Draft)
		m.mu.Unlock()
		return fmt.Sprintf("%s\n\n%s", applyErr.Error(), prompt), false, nil
	}

	s.StepIdx++
	if s.StepIdx < len(flow.Steps) {
		s.UpdatedAt = m.now()
		prompt := flow.Prompt(flow.Steps[s.StepIdx], s.Draft)
		m.mu.Unlock()
		return prompt, false, nil
	}

	// All steps answered; the session ends whether Finish fails or not.
	draft := s.Draft
	delete(m.sessions, chatID)
	m.mu.Unlock()

	closing, finishErr := flow.Finish(ctx, draft)
	if finishErr != nil {
		logger.Error(ctx, logger.TG, "flow.finish.failed",
			"flow", flow.Name,
			"chat_id", chatID,
			"error", finishErr,
		)
		return "", true, finishErr
	}
	return closing, true, nil
}

// Cancel drops the chat's session, expired or not. It reports whether
// a session existed.
func (m *Manager) Cancel(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[chatID]
	delete(m.sessions, chatID)
	return ok
}

// liveSessionLocked returns the chat's session, pruning it first when
// idle past the TTL. Callers hold m.mu.
func (m *Manager) liveSessionLocked(chatID int64) *Session {
	s, ok := m.sessions[chatID]
	if !ok {
		return nil
	}
	if m.idleTTL > 0 && m.now().Sub(s.UpdatedAt) > m.idleTTL {
		delete(m.sessions, chatID)
		return nil
	}
	return s
}
