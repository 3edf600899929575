package infmirror

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/esimov/infmirror/geom"
)

// Frame is the outcome of a render pass. On failure Img holds the last successfully
// rendered image (nil if there is none) and Err the reason of the failure.
type Frame struct {
	Img *image.NRGBA
	Err error
}

// Session holds the live state of an interactive mirror: the source image,
// the optional mask and the window boundary edited by the user.
// Every mutation marks the session as changed; Run re-renders on change.
type Session struct {
	mu         sync.Mutex
	backend    Backend
	src        *image.NRGBA
	mask       *image.Alpha
	boundary   *geom.Boundary
	iterations int
	last       *image.NRGBA

	changed chan struct{}
}

// NewSession creates a session rendering through backend.
// The session starts in the changed state, so the first Run pass renders immediately.
func NewSession(backend Backend, boundary *geom.Boundary, iterations int) *Session {
	if boundary == nil {
		boundary = geom.NewBoundary()
	}
	s := &Session{
		backend:    backend,
		boundary:   boundary.Clone(),
		iterations: iterations,
		changed:    make(chan struct{}, 1),
	}
	s.notify()
	return s
}

// notify signals a change. Signals coalesce while a render is pending.
func (s *Session) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Changed returns the channel signaled on every session mutation.
func (s *Session) Changed() <-chan struct{} {
	return s.changed
}

// SetSource replaces the source image. The previous mask belongs to the
// previous image, so it is dropped.
func (s *Session) SetSource(img *image.NRGBA) {
	s.mu.Lock()
	s.src = img
	s.mask = nil
	s.mu.Unlock()
	s.notify()
}

// SetMask replaces the mask. A nil mask lets every pixel through.
func (s *Session) SetMask(mask *image.Alpha) {
	s.mu.Lock()
	s.mask = mask
	s.mu.Unlock()
	s.notify()
}

// SetIterations changes the recursion depth.
func (s *Session) SetIterations(n int) {
	s.mu.Lock()
	s.iterations = n
	s.mu.Unlock()
	s.notify()
}

// Update runs fn over the session boundary while holding the session lock.
// The session is marked as changed even if fn fails, since fn may have partially applied.
func (s *Session) Update(fn func(b *geom.Boundary) error) error {
	s.mu.Lock()
	err := fn(s.boundary)
	s.mu.Unlock()
	s.notify()

	return err
}

// Boundary returns a snapshot of the session boundary.
func (s *Session) Boundary() *geom.Boundary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.boundary.Clone()
}

// Last returns the last successfully rendered image.
func (s *Session) Last() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

// Render composites the current state. The state is captured under the lock,
// so the boundary may keep changing while the render runs.
// On failure the previous image is kept and returned alongside the error.
func (s *Session) Render() (*image.NRGBA, error) {
	s.mu.Lock()
	src, mask, iterations := s.src, s.mask, s.iterations
	corners := s.boundary.Points()
	s.mu.Unlock()

	img, err := s.backend.Composite(src, corners, mask, iterations)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.last, err
	}
	s.last = img

	return img, nil
}

// Run renders a new frame every time the session changes, until ctx is done.
// With a positive tick renders are throttled to the tick cadence: changes arriving
// in between are coalesced into a single render on the next tick.
// Run returns the context error once the context is canceled.
func (s *Session) Run(ctx context.Context, tick time.Duration, frames chan<- Frame) error {
	emit := func() error {
		img, err := s.Render()
		select {
		case frames <- Frame{Img: img, Err: err}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if tick <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.changed:
				if err := emit(); err != nil {
					return err
				}
			}
		}
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.changed:
			pending = true
		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if err := emit(); err != nil {
				return err
			}
		}
	}
}
