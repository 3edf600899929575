package infmirror

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/esimov/infmirror/geom"
	"github.com/stretchr/testify/assert"
)

// countingBackend wraps the native backend and records the rendered windows.
type countingBackend struct {
	mu      sync.Mutex
	native  Native
	windows [][]geom.Point
}

func (b *countingBackend) Composite(src *image.NRGBA, corners []geom.Point, mask *image.Alpha, iterations int) (*image.NRGBA, error) {
	b.mu.Lock()
	b.windows = append(b.windows, corners)
	b.mu.Unlock()

	return b.native.Composite(src, corners, mask, iterations)
}

func (b *countingBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.windows)
}

func newTestSession() (*Session, *countingBackend) {
	backend := &countingBackend{native: Native{Filter: imaging.Linear}}
	s := NewSession(backend, geom.NewBoundary(centered...), 2)
	s.SetSource(gradient(100, 100))

	return s, backend
}

func nextFrame(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
	}
	return Frame{}
}

func TestSession_Render(t *testing.T) {
	s, _ := newTestSession()

	img, err := s.Render()
	assert.NoError(t, err)
	assert.Same(t, img, s.Last())

	want, err := Composite(gradient(100, 100), centered, nil, 2, WithFilter(imaging.Linear))
	assert.NoError(t, err)
	assert.Equal(t, want.Pix, img.Pix)
}

func TestSession_FailedRenderKeepsLastImage(t *testing.T) {
	s, _ := newTestSession()

	prev, err := s.Render()
	assert.NoError(t, err)

	err = s.Update(func(b *geom.Boundary) error {
		for i := 0; i < b.Len(); i++ {
			if err := b.Set(i, geom.Pt(50, 50)); err != nil {
				return err
			}
		}
		return nil
	})
	assert.NoError(t, err)

	img, err := s.Render()
	assert.True(t, errors.Is(err, ErrInvalidHomography))
	assert.Same(t, prev, img)
	assert.Same(t, prev, s.Last())
}

func TestSession_SourceResetsMask(t *testing.T) {
	s, _ := newTestSession()

	s.SetMask(NewMask(image.Rect(0, 0, 10, 10)))
	_, err := s.Render()
	assert.True(t, errors.Is(err, ErrInvalidMask))

	s.SetSource(gradient(100, 100))
	_, err = s.Render()
	assert.NoError(t, err)
}

func TestSession_ChangesCoalesce(t *testing.T) {
	s, _ := newTestSession()

	s.SetIterations(1)
	s.SetIterations(3)
	_ = s.Update(func(b *geom.Boundary) error { return b.Move(0, 1, 1) })

	assert.Equal(t, 1, len(s.Changed()))
}

func TestSession_BoundarySnapshot(t *testing.T) {
	s, _ := newTestSession()

	snap := s.Boundary()
	assert.NoError(t, snap.Move(0, 10, 10))

	p, err := s.Boundary().Get(0)
	assert.NoError(t, err)
	assert.Equal(t, geom.Pt(25, 25), p)
}

func TestSession_Run(t *testing.T) {
	s, backend := newTestSession()
	frames := make(chan Frame)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, 0, frames)
	}()

	first := nextFrame(t, frames)
	assert.NoError(t, first.Err)
	assert.NotNil(t, first.Img)

	err := s.Update(func(b *geom.Boundary) error { return b.Move(-1, 5, 0) })
	assert.NoError(t, err)

	second := nextFrame(t, frames)
	assert.NoError(t, second.Err)
	assert.NotEqual(t, first.Img.Pix, second.Img.Pix)

	// A degenerate window reports the error along with the last good frame.
	err = s.Update(func(b *geom.Boundary) error { return b.Set(1, geom.Pt(25, 25)) })
	assert.NoError(t, err)
	err = s.Update(func(b *geom.Boundary) error { return b.Set(2, geom.Pt(25, 25)) })
	assert.NoError(t, err)

	failed := nextFrame(t, frames)
	for failed.Err == nil {
		failed = nextFrame(t, frames)
	}
	assert.True(t, errors.Is(failed.Err, ErrInvalidHomography))
	assert.Same(t, second.Img, failed.Img)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.True(t, backend.calls() >= 3)

	windows := backend.windows
	assert.Equal(t, geom.Pt(30, 75), windows[1][3])
}

func TestSession_RunThrottled(t *testing.T) {
	s, backend := newTestSession()
	frames := make(chan Frame, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, 20*time.Millisecond, frames)
	}()

	f := nextFrame(t, frames)
	assert.NoError(t, f.Err)

	// A burst of edits between two ticks yields a single render.
	for i := 0; i < 10; i++ {
		_ = s.Update(func(b *geom.Boundary) error { return b.Move(0, 0.1, 0) })
	}
	f = nextFrame(t, frames)
	assert.NoError(t, f.Err)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.True(t, backend.calls() <= 3, "renders: %d", backend.calls())
}
