// Package ambient drives the backlight from what is on screen: each
// interval it captures the display, reduces the frame to one colour and
// asks the light service to set the backlight to it.
package ambient

import (
	"context"
	"image"
	"time"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/scheerer/indicator-lights/internal/logging"
	"github.com/scheerer/indicator-lights/internal/util"
	"github.com/scheerer/indicator-lights/lights"
)

var logger = logging.New("ambient")

// warnEvery limits how often a slow capture loop complains.
const warnEvery = 10 * time.Second

type Config struct {
	CaptureInterval time.Duration
	ColorAlgo       string
	PixelGridSize   int
	ScreenNumber    int
}

// CaptureFunc grabs the current contents of a display.
type CaptureFunc func(display int) (*image.RGBA, error)

type Source struct {
	config  Config
	reduce  util.Reducer
	capture CaptureFunc
	lights  lights.Service

	last    uint32
	hasLast bool
}

func New(config Config, service lights.Service) (*Source, error) {
	reduce, err := util.ReducerByName(config.ColorAlgo)
	if err != nil {
		return nil, err
	}
	return &Source{
		config:  config,
		reduce:  reduce,
		capture: screenshot.CaptureDisplay,
		lights:  service,
	}, nil
}

// Run samples the display until ctx is done.
func (s *Source) Run(ctx context.Context) {
	var lastWarning time.Time
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		timings, err := s.tick(ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.With(zap.Error(err)).Error("Failed to capture screen")
		}

		wait := s.config.CaptureInterval - elapsed
		if wait <= 0 {
			if time.Since(lastWarning) > warnEvery {
				logger.With(
					zap.Stringer("captureDuration", timings.capture),
					zap.Stringer("reduceDuration", timings.reduce),
					zap.Stringer("setLightDuration", timings.set),
					zap.Stringer("totalDuration", elapsed)).
					Warn("Cannot keep up with CAPTURE_INTERVAL. Consider increasing PIXEL_GRID_SIZE or CAPTURE_INTERVAL.")
				lastWarning = time.Now()
			}
			wait = 0
		}
		timer.Reset(wait)
	}
}

type tickTimings struct {
	capture, reduce, set time.Duration
}

// tick runs one capture. Frames that reduce to the colour already
// submitted are dropped.
func (s *Source) tick(ctx context.Context) (tickTimings, error) {
	var t tickTimings

	start := time.Now()
	img, err := s.capture(s.config.ScreenNumber)
	t.capture = time.Since(start)
	if err != nil {
		return t, err
	}

	start = time.Now()
	color := s.reduce(img, s.config.PixelGridSize).Pack(0xff)
	t.reduce = time.Since(start)

	// The context may have ended while capturing.
	if ctx.Err() != nil || (s.hasLast && color == s.last) {
		return t, nil
	}

	start = time.Now()
	_, err = s.lights.SetLight(lights.TypeBacklight, lights.State{Color: color})
	t.set = time.Since(start)
	if err != nil {
		logger.With(zap.Error(err)).Warn("Failed to set backlight")
		return t, nil
	}
	s.last, s.hasLast = color, true
	return t, nil
}
