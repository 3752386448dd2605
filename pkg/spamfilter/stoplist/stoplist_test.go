package stoplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerAddRemove(t *testing.T) {
	m := NewManager([]string{"the", "a"})
	assert.True(t, m.IsStop("the"))
	assert.False(t, m.IsStop("spam"))

	m.Add("spam")
	assert.True(t, m.IsStop("spam"))

	m.Remove("the")
	assert.False(t, m.IsStop("the"))
	assert.Equal(t, []string{"a", "spam"}, m.All())
}

func TestNilManagerHasNoStops(t *testing.T) {
	var m *Manager
	assert.False(t, m.IsStop("the"))
	assert.Zero(t, m.Len())
	assert.Empty(t, m.All())
}

func TestEnglish(t *testing.T) {
	m := English()
	assert.Equal(t, 318, m.Len())
	for _, w := range []string{"the", "now", "call", "you"} {
		assert.True(t, m.IsStop(w), w)
	}
	for _, w := range []string{"free", "win", "prize", "cash"} {
		assert.False(t, m.IsStop(w), w)
	}
}
