package arbiter

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/blink"
	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/internal/events"
	"github.com/scheerer/indicator-lights/internal/metrics"
	"github.com/scheerer/indicator-lights/lights"
)

// Battery levels at or below this show red.
const lowBatteryLevel = 10

type indicator struct {
	role lights.Type
	lit  func(lights.State) bool
	show func(*Arbiter, lights.State) error
}

// precedence lists the indicator roles, highest priority first. The first
// lit role is shown and the rest are ignored.
var precedence = []indicator{
	{role: lights.TypeNotifications, lit: isLit, show: (*Arbiter).showPulse},
	{role: lights.TypeAttention, lit: isLit, show: (*Arbiter).showPulse},
	{role: lights.TypeBattery, lit: isLit, show: (*Arbiter).showBattery},
}

// clearedChannels are zeroed before every resolution.
var clearedChannels = []channel.ID{
	channel.RedLED,
	channel.RedBlink,
	channel.GreenLED,
	channel.BlueLED,
	channel.BlueBlink,
}

func isLit(s lights.State) bool {
	return lights.IsLit(s.Color)
}

func (a *Arbiter) setIndicator(t lights.Type, s lights.State) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.set(t, s)
	return a.resolveLocked()
}

func (a *Arbiter) resolveLocked() error {
	a.lit = false
	for _, id := range clearedChannels {
		if err := a.writeInt(id, 0); err != nil {
			return err
		}
	}

	resolved := events.IndicatorResolvedEvent{}
	for _, ind := range precedence {
		s := a.state.get(ind.role)
		if !ind.lit(s) {
			continue
		}
		if err := ind.show(a, s); err != nil {
			return err
		}
		resolved = events.IndicatorResolvedEvent{Lit: true, Winner: ind.role, State: s}
		break
	}

	a.lit, a.winner = resolved.Lit, resolved.Winner
	if resolved.Lit {
		logger.With(zap.Stringer("winner", resolved.Winner), zap.String("color", colorHex(resolved.State.Color))).Debug("Indicator resolved")
		metrics.SetActiveIndicator(resolved.Winner.String())
	} else {
		logger.Debug("Indicator resolved to off")
		metrics.SetActiveIndicator("")
	}
	a.publish(resolved)
	return nil
}

// showPulse drives the blue LED for notifications and attention: a solid
// level, or a ramped pulse when both flash times are positive.
func (a *Arbiter) showPulse(s lights.State) error {
	var onMs, offMs int
	if s.FlashMode == lights.FlashTimed {
		onMs, offMs = int(s.FlashOnMs), int(s.FlashOffMs)
	}
	brightness := int(lights.Alpha(s.Color))

	if onMs <= 0 || offMs <= 0 {
		return a.writeInt(channel.BlueLED, brightness)
	}

	stepMs, pauseHiMs := blink.Timing(onMs)
	params := []struct {
		id    channel.ID
		value string
	}{
		{channel.BlueStartIdx, "0"},
		{channel.BlueDutyPcts, blink.FormatDutyPcts(blink.ScaledDutyPcts(brightness))},
		{channel.BluePauseLo, strconv.Itoa(offMs)},
		{channel.BluePauseHi, strconv.Itoa(pauseHiMs)},
		{channel.BlueRampStepMs, strconv.Itoa(stepMs)},
	}
	for _, p := range params {
		if err := a.write(p.id, p.value); err != nil {
			return err
		}
	}

	// Writing blink starts the pattern, so the parameters must be in place.
	return a.writeInt(channel.BlueBlink, 1)
}

// showBattery lights green above the low level and red otherwise.
func (a *Arbiter) showBattery(s lights.State) error {
	if lights.Alpha(s.Color) > lowBatteryLevel {
		return a.writeInt(channel.GreenLED, 1)
	}
	return a.writeInt(channel.RedLED, 1)
}

func (a *Arbiter) setBacklight(s lights.State) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	brightness := lights.RGBToBrightness(s.Color)
	if a.maxBrightness != DefaultMaxBrightness {
		scaled := brightness * a.maxBrightness / DefaultMaxBrightness
		logger.With(zap.Uint32("from", brightness), zap.Uint32("to", scaled)).Debug("Scaling brightness")
		brightness = scaled
	}

	if err := a.writeInt(channel.Backlight, int(brightness)); err != nil {
		return err
	}

	a.backlight = brightness
	metrics.SetBacklightLevel(brightness)
	a.publish(events.BacklightChangedEvent{Requested: s, Level: brightness})
	return nil
}

func colorHex(color uint32) string {
	return "0x" + strconv.FormatUint(uint64(color), 16)
}
