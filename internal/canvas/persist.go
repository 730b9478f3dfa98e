package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"WebCanvas/internal/export"
	"WebCanvas/internal/store"
)

// SaveTimeout bounds a single background write.
var SaveTimeout = 10 * time.Second

// saver writes the persistent layer from one goroutine. Queued rasters
// coalesce: only the newest waiting raster is written.
type saver struct {
	store store.Store
	key   string

	mu      sync.Mutex
	pending *image.RGBA
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func newSaver(s store.Store, key string) *saver {
	sv := &saver{
		store: s,
		key:   key,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go sv.loop()
	return sv
}

// Queue replaces any waiting raster with pix. pix must not be mutated
// afterwards.
func (s *saver) Queue(pix *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = pix
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close writes whatever is still waiting and stops the writer.
func (s *saver) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.wake)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *saver) loop() {
	defer close(s.done)
	for range s.wake {
		s.flush()
	}
	s.flush()
}

func (s *saver) flush() {
	s.mu.Lock()
	pix := s.pending
	s.pending = nil
	s.mu.Unlock()
	if pix == nil {
		return
	}

	blob, err := export.PNG(pix)
	if err != nil {
		log.Printf("[STORE] Dropping save for %q: %v", s.key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
	defer cancel()
	if err := s.store.Set(ctx, s.key, blob); err != nil {
		log.Printf("[STORE] Dropping save for %q: %v", s.key, err)
		return
	}
	log.Printf("[STORE] Saved %q (%d bytes)", s.key, len(blob))
}

func (s *saver) load(ctx context.Context) (image.Image, error) {
	blob, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[STORE] Nothing saved for %q", s.key)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", s.key, err)
	}
	img, err := export.DecodePNG(blob)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", s.key, err)
	}
	log.Printf("[STORE] Loaded %q (%dx%d)", s.key, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}
