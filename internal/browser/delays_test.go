package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelayProfile(t *testing.T) {
	tests := []struct {
		input    string
		expected DelayProfile
		wantErr  bool
	}{
		{input: "fast", expected: DelayProfileFast},
		{input: "MEDIUM", expected: DelayProfileMedium},
		{input: " Slow ", expected: DelayProfileSlow},
		{input: "turbo", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseDelayProfile(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestDelays_WithinProfileRanges(t *testing.T) {
	tests := []struct {
		profile              DelayProfile
		navMin, navMax       time.Duration
		actionMin, actionMax time.Duration
		waitTimeout          time.Duration
	}{
		{DelayProfileFast, 2 * time.Second, 3 * time.Second, 500 * time.Millisecond, 1500 * time.Millisecond, 4 * time.Second},
		{DelayProfileMedium, 4 * time.Second, 5 * time.Second, 2 * time.Second, 3 * time.Second, 8 * time.Second},
		{DelayProfileSlow, 6 * time.Second, 7 * time.Second, 3 * time.Second, 5 * time.Second, 12 * time.Second},
	}

	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			d, err := NewDelays(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.waitTimeout, d.WaitTimeout())

			for i := 0; i < 200; i++ {
				nav := d.Navigate()
				assert.GreaterOrEqual(t, nav, tt.navMin)
				assert.LessOrEqual(t, nav, tt.navMax)

				action := d.Action()
				assert.GreaterOrEqual(t, action, tt.actionMin)
				assert.LessOrEqual(t, action, tt.actionMax)
			}
		})
	}
}

func TestNewDelays_UnknownProfile(t *testing.T) {
	_, err := NewDelays(DelayProfile("turbo"))
	assert.Error(t, err)
}
