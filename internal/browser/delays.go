package browser

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DelayProfile pacing of browser interactions.
type DelayProfile string

const (
	DelayProfileFast   DelayProfile = "fast"
	DelayProfileMedium DelayProfile = "medium"
	DelayProfileSlow   DelayProfile = "slow"
)

type delayRange struct {
	min, max time.Duration
}

type delayValues struct {
	navigate    delayRange
	waitTimeout time.Duration
	action      delayRange
}

var profiles = map[DelayProfile]delayValues{
	DelayProfileFast: {
		navigate:    delayRange{2 * time.Second, 3 * time.Second},
		waitTimeout: 4 * time.Second,
		action:      delayRange{500 * time.Millisecond, 1500 * time.Millisecond},
	},
	DelayProfileMedium: {
		navigate:    delayRange{4 * time.Second, 5 * time.Second},
		waitTimeout: 8 * time.Second,
		action:      delayRange{2 * time.Second, 3 * time.Second},
	},
	DelayProfileSlow: {
		navigate:    delayRange{6 * time.Second, 7 * time.Second},
		waitTimeout: 12 * time.Second,
		action:      delayRange{3 * time.Second, 5 * time.Second},
	},
}

// ParseDelayProfile converts a case-insensitive profile name into a DelayProfile.
func ParseDelayProfile(name string) (DelayProfile, error) {
	p := DelayProfile(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := profiles[p]; !ok {
		return "", errors.Errorf("invalid delay profile: %s", name)
	}
	return p, nil
}

// Delays produces randomized pauses for a profile.
type Delays struct {
	values delayValues

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewDelays creates Delays for the given profile.
func NewDelays(profile DelayProfile) (*Delays, error) {
	v, ok := profiles[profile]
	if !ok {
		return nil, errors.Errorf("invalid delay profile: %s", profile)
	}
	return &Delays{
		values: v,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Navigate returns a random pause to take after loading a page.
func (d *Delays) Navigate() time.Duration {
	return d.between(d.values.navigate)
}

// Action returns a random pause to take after a click or keystrokes.
func (d *Delays) Action() time.Duration {
	return d.between(d.values.action)
}

// WaitTimeout is how long element lookups wait before giving up.
func (d *Delays) WaitTimeout() time.Duration {
	return d.values.waitTimeout
}

func (d *Delays) between(r delayRange) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.min + time.Duration(d.rnd.Float64()*float64(r.max-r.min))
}
