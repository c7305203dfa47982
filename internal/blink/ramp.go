// Package blink encodes indicator pulses for the LED pattern engine: a
// fixed ramp of duty percentages stepped up then down, with hold times at
// the top and bottom.
package blink

import (
	"strconv"
	"strings"
)

const (
	RampSize = 8
	// RampStepDuration is the default time spent on each ramp entry, in ms.
	RampStepDuration = 50
)

// brightnessRamp approximates a linear perceived ramp on the LED driver.
var brightnessRamp = [RampSize]int{0, 12, 25, 37, 50, 72, 85, 100}

// ScaledDutyPcts scales the ramp to brightness (0-255). Values truncate.
func ScaledDutyPcts(brightness int) [RampSize]int {
	var pcts [RampSize]int
	for i, pct := range brightnessRamp {
		pcts[i] = pct * brightness / 255
	}
	return pcts
}

// FormatDutyPcts joins pcts with commas, as the duty_pcts node expects.
func FormatDutyPcts(pcts [RampSize]int) string {
	var sb strings.Builder
	for i, pct := range pcts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(pct))
	}
	return sb.String()
}

// Timing returns the ramp step duration and the hold time at full
// brightness for an on period of onMs. A full pulse walks the ramp up and
// back down, so it needs 2*RampSize steps; when onMs cannot fit that at
// the default step, the step is shortened and there is no hold.
//
// Inputs are not validated: negative onMs yields a negative step.
func Timing(onMs int) (stepMs, pauseHiMs int) {
	stepMs = RampStepDuration
	pauseHiMs = onMs - stepMs*RampSize*2

	if stepMs*RampSize*2 > onMs {
		stepMs = onMs / (RampSize * 2)
		pauseHiMs = 0
	}

	return stepMs, pauseHiMs
}
