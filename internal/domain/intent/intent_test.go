package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTimeSensitive(t *testing.T) {
	assert.True(t, IsTimeSensitive("Any breaking news today?"))
	assert.True(t, IsTimeSensitive("LATEST AI developments"))
	assert.True(t, IsTimeSensitive("what are the current mortgage rates"))
	assert.False(t, IsTimeSensitive("Explain recursion"))
	assert.False(t, IsTimeSensitive("how do I bake bread"))
	assert.False(t, IsTimeSensitive(""))
}

func TestShouldUseWeb(t *testing.T) {
	cases := []struct {
		name     string
		question string
		useWeb   bool
		mode     Mode
		want     bool
	}{
		{"chat mode suppresses time-sensitive", "latest news today", false, ModeChat, false},
		{"web mode forces retrieval", "what is 2+2", false, ModeWeb, true},
		{"auto with trigger", "latest AI news", false, ModeAuto, true},
		{"auto without trigger", "what is 2+2", false, ModeAuto, false},
		{"explicit use_web wins", "what is 2+2", true, ModeChat, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldUseWeb(tc.question, tc.useWeb, tc.mode))
		})
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeAuto.Valid())
	assert.True(t, ModeChat.Valid())
	assert.True(t, ModeWeb.Valid())
	assert.False(t, Mode("").Valid())
	assert.False(t, Mode("hybrid").Valid())
}
