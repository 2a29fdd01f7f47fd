package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/commands"
)

type routeContext struct {
	tele.Context
	text  string
	store map[string]any
}

func newRouteContext(text string) *routeContext {
	return &routeContext{text: text, store: map[string]any{}}
}

func (r *routeContext) Text() string             { return r.text }
func (r *routeContext) Chat() *tele.Chat         { return &tele.Chat{ID: 1} }
func (r *routeContext) Sender() *tele.User       { return &tele.User{ID: 2} }
func (r *routeContext) Callback() *tele.Callback { return nil }
func (r *routeContext) Update() tele.Update      { return tele.Update{ID: 3} }
func (r *routeContext) Get(k string) any         { return r.store[k] }
func (r *routeContext) Set(k string, v any)      { r.store[k] = v }

type stubCommands struct {
	handled  []string
	fallback []string
}

func (s *stubCommands) LookupCommand(text string) (string, commands.Command, bool) {
	name, _, _ := strings.Cut(text, " ")
	if name != "/menu" {
		return "", commands.Command{}, false
	}
	return name, commands.Command{
		Handler: func(c tele.Context) error {
			s.handled = append(s.handled, c.Text())
			return nil
		},
		Description: "menu",
	}, true
}

func (s *stubCommands) TextFallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		s.fallback = append(s.fallback, c.Text())
		return nil
	}
}

type stubFlows struct {
	active    bool
	consumed  []string
	cancelled int
}

func (s *stubFlows) Active(int64) bool { return s.active }

func (s *stubFlows) HandleText(c tele.Context) error {
	s.consumed = append(s.consumed, c.Text())
	return nil
}

func (s *stubFlows) Cancel(tele.Context) error {
	s.cancelled++
	s.active = false
	return nil
}

func TestActiveFlowConsumesCommandShapedText(t *testing.T) {
	cmds := &stubCommands{}
	flows := &stubFlows{active: true}
	r := NewMessageRouter(cmds, flows, "/cancel")

	require.NoError(t, r.Handle(newRouteContext("/menu")))
	require.NoError(t, r.Handle(newRouteContext("-")))

	assert.Equal(t, []string{"/menu", "-"}, flows.consumed)
	assert.Empty(t, cmds.handled)
	assert.Empty(t, cmds.fallback)
}

func TestCancelBeatsActiveFlow(t *testing.T) {
	cmds := &stubCommands{}
	flows := &stubFlows{active: true}
	r := NewMessageRouter(cmds, flows, "/cancel")

	for _, text := range []string{"/cancel", "/cancel@opsbot", "/cancel now"} {
		flows.active = true
		require.NoError(t, r.Handle(newRouteContext(text)))
	}

	assert.Equal(t, 3, flows.cancelled)
	assert.Empty(t, flows.consumed)
}

func TestCancelStopsFeedingTheFlow(t *testing.T) {
	cmds := &stubCommands{}
	flows := &stubFlows{active: true}
	r := NewMessageRouter(cmds, flows, "/cancel")

	require.NoError(t, r.Handle(newRouteContext("/cancel")))
	require.NoError(t, r.Handle(newRouteContext("/menu")))

	assert.Empty(t, flows.consumed)
	assert.Equal(t, []string{"/menu"}, cmds.handled)
}

func TestCommandThenFallbackWithoutFlow(t *testing.T) {
	cmds := &stubCommands{}
	flows := &stubFlows{}
	r := NewMessageRouter(cmds, flows, "/cancel")

	require.NoError(t, r.Handle(newRouteContext("/menu")))
	require.NoError(t, r.Handle(newRouteContext("lunch 300")))

	assert.Equal(t, []string{"/menu"}, cmds.handled)
	assert.Equal(t, []string{"lunch 300"}, cmds.fallback)
	assert.Empty(t, flows.consumed)
}
