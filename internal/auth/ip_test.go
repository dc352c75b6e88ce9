package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.0.0.7", "10.0.0.7"},
		{" ::ffff:10.0.0.7 ", "10.0.0.7"},
		{"10.0.0.7/24", "10.0.0.0/24"},
		{"::ffff:10.0.0.7/120", "10.0.0.0/24"},
		{"2001:db8::1", "2001:db8::1"},
	}
	for _, tt := range tests {
		got, err := CanonicalizeIP(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "10.0.0", "10.0.0.0/33", "kitchen"} {
		_, err := CanonicalizeIP(bad)
		assert.Error(t, err, bad)
	}

	_, err := CanonicalizeIPs([]string{"10.0.0.1", "nope"})
	assert.Error(t, err)
}

func TestIsIPAllowed(t *testing.T) {
	assert.True(t, IsIPAllowed("203.0.113.9", nil))

	allowed := []string{"10.0.0.0/24", "192.168.1.5"}
	assert.True(t, IsIPAllowed("10.0.0.200", allowed))
	assert.True(t, IsIPAllowed("::ffff:192.168.1.5", allowed))
	assert.False(t, IsIPAllowed("10.0.1.1", allowed))
	assert.False(t, IsIPAllowed("garbage", allowed))
}
