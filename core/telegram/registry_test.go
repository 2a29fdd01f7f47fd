package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/commands"
)

// respondRecorder captures callback answers; everything else of the
// context is unused by the handlers under test.
type respondRecorder struct {
	tele.Context
	responses []*tele.CallbackResponse
}

func (r *respondRecorder) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		r.responses = append(r.responses, &tele.CallbackResponse{})
		return nil
	}
	r.responses = append(r.responses, resp[0])
	return nil
}

func (r *respondRecorder) Callback() *tele.Callback {
	return &tele.Callback{Data: "bogus_action"}
}

func TestDefaultCallbackNotFoundAnswersSilently(t *testing.T) {
	reg := NewRegistry()
	rec := &respondRecorder{}

	require.NoError(t, reg.CallbackNotFound()(rec))
	require.Len(t, rec.responses, 1)
	assert.Equal(t, "", rec.responses[0].Text)
}

func TestLookupCommand(t *testing.T) {
	noop := func(tele.Context) error { return nil }
	reg := NewRegistry()
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     noop,
		Description: "Open the main menu",
		Aliases:     []string{"home"},
	})

	for _, text := range []string{"/menu", "/menu extra args", "/menu@opsbot", "/home"} {
		name, _, ok := reg.LookupCommand(text)
		require.True(t, ok, text)
		assert.Equal(t, "/menu", name)
	}

	for _, text := range []string{"", "menu", "/unknown", "plain text"} {
		_, _, ok := reg.LookupCommand(text)
		assert.False(t, ok, text)
	}
}

func TestListCommandsStripsSlashAndHidesHidden(t *testing.T) {
	noop := func(tele.Context) error { return nil }
	reg := NewRegistry()
	reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "menu"})
	reg.RegisterCommand("/expense", commands.Command{Handler: noop, Description: "by id", Hidden: true})

	visible := reg.ListCommands(true)
	require.Len(t, visible, 1)
	assert.Equal(t, "menu", visible[0].Text)

	all := reg.ListCommands(false)
	assert.Len(t, all, 2)
}
