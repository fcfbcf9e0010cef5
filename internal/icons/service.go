// Package icons resolves logical icon names to bitmaps off the interactive
// goroutine. The cache and pending set are only ever touched from the
// session goroutine; the worker communicates exclusively over channels.
package icons

import (
	"image"
	"log"
)

// Request identifies one icon load job.
type Request struct {
	Name string
	Size int
}

// Result carries a completed load back to the session goroutine. A nil
// Image records a permanent failure for this session.
type Result struct {
	Name  string
	Image *image.RGBA
}

type Service struct {
	cache    map[string]*image.RGBA // nil entry = load failed, do not retry
	pending  map[string]struct{}
	requests chan Request
	results  chan Result
	loader   *Loader
}

// NewService builds the service around the given loader. Call Start to
// spawn the worker; until then requests only queue up.
func NewService(loader *Loader) *Service {
	return &Service{
		cache:    make(map[string]*image.RGBA),
		pending:  make(map[string]struct{}),
		requests: make(chan Request, 64),
		results:  make(chan Result, 64),
		loader:   loader,
	}
}

// Start spawns the loading worker. The worker runs until the process exits;
// outstanding jobs are abandoned on termination, never drained.
func (s *Service) Start() {
	go func() {
		for req := range s.requests {
			s.results <- Result{Name: req.Name, Image: s.loader.Load(req.Name, req.Size)}
		}
	}()
}

// Results is the worker's outbound channel, consumed by the session loop.
func (s *Service) Results() <-chan Result {
	return s.results
}

// Request returns the cached bitmap for name when one (or a recorded
// failure) exists. Otherwise it enqueues at most one load job per distinct
// name and reports the icon as not yet available. Never blocks.
func (s *Service) Request(name string, size int) (*image.RGBA, bool) {
	if img, ok := s.cache[name]; ok {
		return img, true
	}

	if _, inFlight := s.pending[name]; !inFlight {
		s.pending[name] = struct{}{}
		select {
		case s.requests <- Request{Name: name, Size: size}:
		default:
			// Queue full; drop the pending marker so a later request
			// retries the enqueue.
			delete(s.pending, name)
		}
	}

	return nil, false
}

// Deliver stores a completed load (including failure) and clears the
// pending marker.
func (s *Service) Deliver(name string, img *image.RGBA) {
	s.cache[name] = img
	delete(s.pending, name)
	if img == nil {
		log.Printf("[ICON-CACHE] No icon for %q, cached as absent", name)
	}
}
