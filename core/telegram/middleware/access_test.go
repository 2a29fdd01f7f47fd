package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

// fakeContext implements just enough of tele.Context for the admin
// gate. Unimplemented methods panic, which is fine here.
type fakeContext struct {
	tele.Context

	sender *tele.User
	store  map[string]any
	sent   []string
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Sender() *tele.User        { return f.sender }
func (f *fakeContext) Chat() *tele.Chat          { return &tele.Chat{ID: f.sender.ID} }
func (f *fakeContext) Callback() *tele.Callback  { return nil }
func (f *fakeContext) Update() tele.Update       { return tele.Update{ID: 1} }
func (f *fakeContext) Get(key string) any        { return f.store[key] }
func (f *fakeContext) Set(key string, value any) { f.store[key] = value }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func TestAdminOnlyAllowsListedUser(t *testing.T) {
	called := false
	h := AdminOnly([]int64{42, 99})(func(c tele.Context) error {
		called = true
		return nil
	})

	c := newFakeContext(42)
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.sent)
}

func TestAdminOnlyRejectsUnknownUser(t *testing.T) {
	called := false
	h := AdminOnly([]int64{42})(func(c tele.Context) error {
		called = true
		return nil
	})

	c := newFakeContext(7)
	require.NoError(t, h(c))
	assert.False(t, called)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "not authorized")
}
