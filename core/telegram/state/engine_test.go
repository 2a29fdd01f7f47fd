package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testFlow(finishErr error) *Flow {
	return &Flow{
		Name:  "order",
		Steps: []Step{"item", "qty"},
		Prompt: func(step Step, _ *Draft) string {
			return "enter " + string(step)
		},
		Apply: func(step Step, input string, d *Draft) error {
			if input == "" {
				return errors.New("value required")
			}
			d.Data[string(step)] = input
			return nil
		},
		Finish: func(_ context.Context, d *Draft) (string, error) {
			if finishErr != nil {
				return "", finishErr
			}
			return "saved " + d.Data["item"].(string), nil
		},
	}
}

func TestStartAndAdvance(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{})
	m.Register(testFlow(nil))

	prompt, err := m.Start(1, 10, "order")
	require.NoError(t, err)
	require.Equal(t, "enter item", prompt)
	require.True(t, m.Active(1))
	require.Equal(t, Step("item"), m.CurrentStep(1))

	reply, done, err := m.HandleText(context.Background(), 1, "widget")
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "enter qty", reply)

	reply, done, err = m.HandleText(context.Background(), 1, "3")
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, "saved widget", reply)
	require.False(t, m.Active(1))
}

func TestApplyErrorRepeatsStep(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{})
	m.Register(testFlow(nil))

	_, err := m.Start(1, 10, "order")
	require.NoError(t, err)

	reply, done, err := m.HandleText(context.Background(), 1, "")
	require.NoError(t, err)
	require.False(t, done)
	require.Contains(t, reply, "value required")
	require.Contains(t, reply, "enter item")
	require.Equal(t, Step("item"), m.CurrentStep(1))
}

func TestStartWhileActive(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{})
	m.Register(testFlow(nil))

	_, err := m.Start(1, 10, "order")
	require.NoError(t, err)

	_, err = m.Start(1, 10, "order")
	require.ErrorIs(t, err, ErrFlowActive)
}

func TestStartUnknownFlow(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{})
	_, err := m.Start(1, 10, "missing")
	require.ErrorIs(t, err, ErrUnknownFlow)
}

func TestCancel(t *testing.T) {
	t.Parallel()

	m := NewManager(Options{})
	m.Register(testFlow(nil))

	require.False(t, m.Cancel(1))

	_, err := m.Start(1, 10, "order")
	require.NoError(t, err)
	require.True(t, m.Cancel(1))
	require.False(t, m.Active(1))
}

func TestIdleExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	m := NewManager(Options{
		IdleTTL: 30 * time.Minute,
		Clock:   func() time.Time { return now },
	})
	m.Register(testFlow(nil))

	_, err := m.Start(1, 10, "order")
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	require.True(t, m.Active(1))

	now = now.Add(2 * time.Minute)
	require.False(t, m.Active(1))

	// Expired session is gone, a new flow may start.
	_, err = m.Start(1, 10, "order")
	require.NoError(t, err)
}

func TestFinishErrorEndsSession(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	m := NewManager(Options{})
	m.Register(testFlow(boom))

	_, err := m.Start(1, 10, "order")
	require.NoError(t, err)

	_, _, err = m.HandleText(context.Background(), 1, "widget")
	require.NoError(t, err)

	_, done, err := m.HandleText(context.Background(), 1, "3")
	require.True(t, done)
	require.ErrorIs(t, err, boom)
	require.False(t, m.Active(1))
}
