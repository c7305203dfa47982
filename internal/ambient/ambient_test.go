package ambient

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/indicator-lights/lights"
)

type setCall struct {
	t     lights.Type
	state lights.State
}

type fakeService struct {
	mu    sync.Mutex
	calls []setCall
	err   error
}

func (f *fakeService) SetLight(t lights.Type, state lights.State) (lights.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, setCall{t, state})
	return lights.StatusSuccess, f.err
}

func (f *fakeService) SupportedTypes() []lights.Type {
	return []lights.Type{lights.TypeBacklight}
}

func (f *fakeService) snapshot() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]setCall(nil), f.calls...)
}

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func newTestSource(t *testing.T, svc lights.Service, frames ...*image.RGBA) *Source {
	t.Helper()
	s, err := New(Config{CaptureInterval: time.Millisecond, ColorAlgo: "AVERAGE", PixelGridSize: 2}, svc)
	require.NoError(t, err)

	var i int
	s.capture = func(display int) (*image.RGBA, error) {
		if i >= len(frames) {
			return nil, errors.New("no frame")
		}
		f := frames[i]
		i++
		return f, nil
	}
	return s
}

func TestNewRejectsUnknownAlgorithm(t *testing.T) {
	_, err := New(Config{ColorAlgo: "BRIGHTEST"}, &fakeService{})
	assert.ErrorContains(t, err, "unknown color algorithm")
}

func TestTickSubmitsBacklight(t *testing.T) {
	svc := &fakeService{}
	s := newTestSource(t, svc, solid(color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}))

	_, err := s.tick(context.Background())
	require.NoError(t, err)

	calls := svc.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, lights.TypeBacklight, calls[0].t)
	assert.Equal(t, uint32(0xff102030), calls[0].state.Color)
	assert.Equal(t, lights.FlashNone, calls[0].state.FlashMode)
}

func TestTickSkipsUnchangedColor(t *testing.T) {
	svc := &fakeService{}
	white := solid(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	black := solid(color.RGBA{A: 0xff})
	s := newTestSource(t, svc, white, white, black)

	for i := 0; i < 3; i++ {
		_, err := s.tick(context.Background())
		require.NoError(t, err)
	}

	calls := svc.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, uint32(0xffffffff), calls[0].state.Color)
	assert.Equal(t, uint32(0xff000000), calls[1].state.Color)
}

func TestTickRetriesAfterServiceError(t *testing.T) {
	svc := &fakeService{err: errors.New("write backlight: EIO")}
	white := solid(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	s := newTestSource(t, svc, white, white)

	for i := 0; i < 2; i++ {
		_, err := s.tick(context.Background())
		require.NoError(t, err)
	}
	// The failed colour isn't remembered, so it's submitted again.
	assert.Len(t, svc.snapshot(), 2)
}

func TestTickCaptureError(t *testing.T) {
	svc := &fakeService{}
	s := newTestSource(t, svc)

	_, err := s.tick(context.Background())
	assert.Error(t, err)
	assert.Empty(t, svc.snapshot())
}

func TestTickCancelledContext(t *testing.T) {
	svc := &fakeService{}
	s := newTestSource(t, svc, solid(color.RGBA{R: 0xff, A: 0xff}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, svc.snapshot())
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := &fakeService{}
	s := newTestSource(t, svc, solid(color.RGBA{G: 0xff, A: 0xff}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(svc.snapshot()) == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
