package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSessionStatus(t *testing.T) {
	for _, raw := range []string{"open", "complete", "expired"} {
		status, err := ParseSessionStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, SessionStatus(raw), status)
	}

	_, err := ParseSessionStatus("paid")
	assert.Error(t, err)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusOpen.Terminal())
	assert.True(t, StatusComplete.Terminal())
	assert.True(t, StatusExpired.Terminal())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to SessionStatus
		want     bool
	}{
		{StatusOpen, StatusOpen, true},
		{StatusOpen, StatusComplete, true},
		{StatusOpen, StatusExpired, true},
		{StatusComplete, StatusComplete, true},
		{StatusExpired, StatusExpired, true},
		{StatusComplete, StatusExpired, false},
		{StatusExpired, StatusComplete, false},
		{StatusComplete, StatusOpen, false},
		{StatusExpired, StatusOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s to %s", tc.from, tc.to)
	}
}
