// Package lifx mirrors the device's indicator onto a group of LIFX bulbs.
package lifx

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/events"
	"github.com/scheerer/indicator-lights/internal/logging"
	"github.com/scheerer/indicator-lights/internal/util"
	"github.com/scheerer/indicator-lights/lights"
)

var logger = logging.New("lifx")

const (
	kelvin            = 3500
	discoveryInterval = 15 * time.Second
	discoveryTimeout  = 5 * time.Second
	transition        = 150 * time.Millisecond
)

// off is sent when no indicator is lit.
var off = common.Color{Kelvin: kelvin}

type Config struct {
	GroupName string
	// Brightness bounds as a fraction of full output.
	MaxBrightness float64
	MinBrightness float64
}

// target is the part of a golifx group the mirror drives.
type target interface {
	SetColor(color common.Color, duration time.Duration) error
}

type Mirror struct {
	config      Config
	client      *golifx.Client
	unsubscribe func()

	mu      sync.Mutex
	group   target
	current common.Color
	pending bool
}

// New connects to the LAN, starts group discovery and subscribes to
// indicator resolutions on bus. Discovery stops when ctx is done.
func New(ctx context.Context, config Config, bus *events.Bus) (*Mirror, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, err
	}
	if err := client.SetDiscoveryInterval(discoveryInterval); err != nil {
		_ = client.Close()
		return nil, err
	}

	m := newMirror(config)
	m.client = client
	m.unsubscribe = bus.Subscribe(m.onResolved)
	go m.run(ctx)
	return m, nil
}

func newMirror(config Config) *Mirror {
	return &Mirror{
		config:      config,
		current:     off,
		unsubscribe: func() {},
	}
}

func (m *Mirror) Close() error {
	m.unsubscribe()
	if m.client == nil {
		return nil
	}
	return m.client.Close()
}

func (m *Mirror) run(ctx context.Context) {
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()

	for {
		m.discover(ctx)
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (m *Mirror) discover(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	type result struct {
		group common.Group
		err   error
	}
	found := make(chan result, 1)
	go func() {
		g, err := m.client.GetGroupByLabel(m.config.GroupName)
		found <- result{g, err}
	}()

	select {
	case <-ctx.Done():
		logger.With(zap.String("group", m.config.GroupName), zap.Error(ctx.Err())).Warn("LIFX discovery timed out")
	case r := <-found:
		if r.err != nil || r.group == nil {
			logger.With(zap.String("group", m.config.GroupName), zap.Error(r.err)).Warn("Couldn't discover LIFX group")
			return
		}
		m.setGroup(r.group)
	}
}

// setGroup switches the mirror to g and pushes the colour it missed while
// no group was known.
func (m *Mirror) setGroup(g target) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.group == nil {
		logger.With(zap.String("group", m.config.GroupName)).Info("LIFX group found")
	}
	m.group = g
	if m.pending {
		m.sendLocked()
	}
}

func (m *Mirror) onResolved(e events.IndicatorResolvedEvent) {
	c := off
	if e.Lit {
		c = adjustColor(newLifxColor(lights.RGB(e.State.Color)), m.config)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c == m.current && !m.pending {
		return
	}
	m.current = c
	m.pending = true
	if m.group != nil {
		m.sendLocked()
	}
}

func (m *Mirror) sendLocked() {
	logger.With(zap.Any("color", m.current)).Debug("Setting LIFX group color")
	if err := m.group.SetColor(m.current, transition); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to set color for LIFX group")
		return
	}
	m.pending = false
}

func newLifxColor(c lights.Color) common.Color {
	h, s, b := util.RGBToHSB(c)
	return common.Color{Hue: h, Saturation: s, Brightness: b, Kelvin: kelvin}
}

// adjustColor turns near-black colours off and clamps brightness to the
// configured bounds.
func adjustColor(c common.Color, config Config) common.Color {
	const blackThreshold = 0.015 * math.MaxUint16
	if float64(c.Brightness) <= blackThreshold && float64(c.Saturation) <= blackThreshold {
		return off
	}

	lo, hi := config.MinBrightness*math.MaxUint16, config.MaxBrightness*math.MaxUint16
	c.Brightness = uint16(math.Min(hi, math.Max(lo, float64(c.Brightness))))
	return c
}
