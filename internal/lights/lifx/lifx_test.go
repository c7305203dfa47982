package lifx

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pdf/golifx/common"
	"github.com/stretchr/testify/assert"

	"github.com/scheerer/indicator-lights/internal/events"
	"github.com/scheerer/indicator-lights/lights"
)

type fakeGroup struct {
	mu     sync.Mutex
	colors []common.Color
	err    error
}

func (g *fakeGroup) SetColor(c common.Color, _ time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.colors = append(g.colors, c)
	return nil
}

func (g *fakeGroup) sent() []common.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]common.Color(nil), g.colors...)
}

var testConfig = Config{GroupName: "INDICATOR", MaxBrightness: 1}

func lit(color uint32) events.IndicatorResolvedEvent {
	return events.IndicatorResolvedEvent{
		Lit:    true,
		Winner: lights.TypeNotifications,
		State:  lights.State{Color: color},
	}
}

func TestAdjustColor(t *testing.T) {
	tests := []struct {
		name   string
		in     common.Color
		config Config
		want   common.Color
	}{
		{
			name:   "near black turns off",
			in:     common.Color{Hue: 100, Saturation: 500, Brightness: 900, Kelvin: kelvin},
			config: Config{MaxBrightness: 1},
			want:   off,
		},
		{
			name:   "saturated dim colour stays on",
			in:     common.Color{Hue: 100, Saturation: 0xFFFF, Brightness: 900, Kelvin: kelvin},
			config: Config{MaxBrightness: 1},
			want:   common.Color{Hue: 100, Saturation: 0xFFFF, Brightness: 900, Kelvin: kelvin},
		},
		{
			name:   "clamped to max",
			in:     common.Color{Saturation: 0xFFFF, Brightness: 0xFFFF, Kelvin: kelvin},
			config: Config{MaxBrightness: 0.5},
			want:   common.Color{Saturation: 0xFFFF, Brightness: 32767, Kelvin: kelvin},
		},
		{
			name:   "raised to min",
			in:     common.Color{Saturation: 0xFFFF, Brightness: 2000, Kelvin: kelvin},
			config: Config{MinBrightness: 0.25, MaxBrightness: 1},
			want:   common.Color{Saturation: 0xFFFF, Brightness: 16383, Kelvin: kelvin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjustColor(tt.in, tt.config))
		})
	}
}

func TestNewLifxColor(t *testing.T) {
	c := newLifxColor(lights.Color{Blue: 255})
	assert.Equal(t, common.Color{Hue: 43690, Saturation: 0xFFFF, Brightness: 0xFFFF, Kelvin: kelvin}, c)
}

func TestMirrorFollowsResolutions(t *testing.T) {
	g := &fakeGroup{}
	m := newMirror(testConfig)
	m.setGroup(g)

	m.onResolved(lit(0xFF0000FF))
	m.onResolved(lit(0xFF0000FF))
	m.onResolved(events.IndicatorResolvedEvent{})

	sent := g.sent()
	if assert.Len(t, sent, 2) {
		assert.Equal(t, uint16(43690), sent[0].Hue)
		assert.Equal(t, off, sent[1])
	}
}

func TestMirrorIgnoresInitialOff(t *testing.T) {
	g := &fakeGroup{}
	m := newMirror(testConfig)
	m.setGroup(g)

	m.onResolved(events.IndicatorResolvedEvent{})
	assert.Empty(t, g.sent())
}

func TestMirrorReplaysColorOnDiscovery(t *testing.T) {
	m := newMirror(testConfig)
	m.onResolved(lit(0xFF00FF00))

	g := &fakeGroup{}
	m.setGroup(g)

	sent := g.sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, uint16(21845), sent[0].Hue)
	}

	// Rediscovering the same group doesn't resend.
	m.setGroup(g)
	assert.Len(t, g.sent(), 1)
}

func TestMirrorRetriesAfterFailure(t *testing.T) {
	g := &fakeGroup{err: errors.New("network unreachable")}
	m := newMirror(testConfig)
	m.setGroup(g)

	m.onResolved(lit(0xFFFF0000))
	assert.Empty(t, g.sent())

	g.mu.Lock()
	g.err = nil
	g.mu.Unlock()

	m.onResolved(lit(0xFFFF0000))
	assert.Len(t, g.sent(), 1)
}

func TestMirrorReceivesBusEvents(t *testing.T) {
	bus := events.New()
	g := &fakeGroup{}
	m := newMirror(testConfig)
	m.setGroup(g)
	m.unsubscribe = bus.Subscribe(m.onResolved)
	defer m.Close()

	bus.Publish(lit(0xFF0000FF))

	assert.Eventually(t, func() bool { return len(g.sent()) == 1 }, time.Second, 5*time.Millisecond)
}
