// Package state implements the per chat conversation engine. A Flow
// declares an ordered list of steps; the Manager keeps at most one
// active flow per chat and feeds incoming text into it until the flow
// finishes, is cancelled, or sits idle past its TTL.
package state

import (
	"context"
	"errors"
)

var (
	// ErrFlowActive is returned by Start when the chat already has a
	// running flow.
	ErrFlowActive = errors.New("state: a flow is already active for this chat")

	// ErrUnknownFlow is returned by Start for an unregistered flow name.
	ErrUnknownFlow = errors.New("state: unknown flow")
)

// Step identifies one question within a flow.
type Step string

// Draft accumulates the answers collected so far.
type Draft struct {
	ChatID int64
	UserID int64
	Data   map[string]any
}

// Flow declares a multi step conversation. Prompt renders the question
// for a step, Apply validates and stores one answer, Finish runs once
// every step has an answer and returns the closing message.
type Flow struct {
	Name   string
	Steps  []Step
	Prompt func(step Step, draft *Draft) string
	Apply  func(step Step, input string, draft *Draft) error
	Finish func(ctx context.Context, draft *Draft) (string, error)
}
