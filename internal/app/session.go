// Package app provides the session state, events, and theme shared by the UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"smartdip/internal/compare"
	"smartdip/internal/ops"
	"smartdip/internal/raster"
)

// Session holds everything one user session works on: the loaded image,
// its server-side name, the operation queue, the processed results, the
// comparison engine and the theme flag. Components receive the session
// rather than reaching for globals.
type Session struct {
	mu sync.RWMutex

	imagePath  string
	original   *raster.Image
	remoteName string
	generation uint64

	queue    *ops.Queue
	results  []ops.Result
	selected int

	compare  *compare.Engine
	darkMode bool

	listeners map[EventType][]EventListener
}

// EventType identifies different session events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventUploaded
	EventQueueChanged
	EventResultsReady
	EventResultSelected
	EventThemeChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Processor runs queued operations on an uploaded image.
type Processor interface {
	Process(ctx context.Context, filename string, reqs []ops.Request) ([]ops.Result, error)
}

var (
	// ErrNoImage is returned when an action needs a loaded image.
	ErrNoImage = errors.New("no image loaded")
	// ErrNotUploaded is returned when processing is requested before the
	// image reached the backend.
	ErrNotUploaded = errors.New("image not uploaded")
	// ErrEmptyQueue is returned when processing an empty queue.
	ErrEmptyQueue = errors.New("operation queue is empty")
)

// NewSession creates an empty session.
func NewSession() *Session {
	s := &Session{
		queue:     ops.NewQueue(),
		compare:   compare.NewEngine(compare.Pair{}),
		selected:  -1,
		listeners: make(map[EventType][]EventListener),
	}
	s.queue.OnChange(func() { s.Emit(EventQueueChanged, s.queue.Len()) })
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage decodes a local file and makes it the session's image.
func (s *Session) LoadImage(path string) error {
	img, err := raster.Load(path)
	if err != nil {
		return err
	}
	s.SetImage(img, path)
	return nil
}

// SetImage replaces the session's image. Results and the server-side name
// belong to the previous image and are dropped.
func (s *Session) SetImage(img *raster.Image, path string) {
	s.mu.Lock()
	s.original = img
	s.imagePath = path
	s.remoteName = ""
	s.generation++
	s.results = nil
	s.selected = -1
	s.mu.Unlock()

	s.compare.SetPair(compare.Pair{})
	s.Emit(EventImageLoaded, img)
}

// Generation identifies the current image. It changes on every SetImage, so
// background work started for one image can tell it was superseded.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetUpload records the server-side name of the image identified by gen. The
// backend's decoded copy replaces the local one so analysis sees what the
// server sees. An upload for a superseded image is dropped and SetUpload
// returns false.
func (s *Session) SetUpload(gen uint64, remoteName string, img *raster.Image) bool {
	s.mu.Lock()
	if gen != s.generation || s.original == nil {
		s.mu.Unlock()
		return false
	}
	s.remoteName = remoteName
	if img != nil {
		s.original = img
	}
	s.mu.Unlock()
	s.Emit(EventUploaded, remoteName)
	return true
}

// Image returns the current image, or nil.
func (s *Session) Image() *raster.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.original
}

// ImagePath returns the local path of the current image, if it came from disk.
func (s *Session) ImagePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath
}

// RemoteName returns the server-side file name, or "" before upload.
func (s *Session) RemoteName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteName
}

// Queue returns the session's operation queue.
func (s *Session) Queue() *ops.Queue { return s.queue }

// Compare returns the session's comparison engine.
func (s *Session) Compare() *compare.Engine { return s.compare }

// Run submits the queue and stores the results. The final result is
// selected for comparison.
func (s *Session) Run(ctx context.Context, p Processor) error {
	name := s.RemoteName()
	if s.Image() == nil {
		return ErrNoImage
	}
	if name == "" {
		return ErrNotUploaded
	}
	reqs := s.queue.Requests()
	if len(reqs) == 0 {
		return ErrEmptyQueue
	}

	results, err := p.Process(ctx, name, reqs)
	if err != nil {
		return err
	}
	s.SetResults(results)
	return nil
}

// SetResults stores processed results and selects the last one.
func (s *Session) SetResults(results []ops.Result) {
	s.mu.Lock()
	s.results = results
	s.selected = len(results) - 1
	s.mu.Unlock()

	s.updatePair()
	s.Emit(EventResultsReady, len(results))
}

// Results returns the processed results in queue order.
func (s *Session) Results() []ops.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ops.Result, len(s.results))
	copy(out, s.results)
	return out
}

// SelectResult chooses which result is compared against the original.
func (s *Session) SelectResult(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.results) {
		s.mu.Unlock()
		return fmt.Errorf("result %d out of range", i)
	}
	s.selected = i
	s.mu.Unlock()

	s.updatePair()
	s.Emit(EventResultSelected, i)
	return nil
}

// Selected returns the selected result.
func (s *Session) Selected() (ops.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.results) {
		return ops.Result{}, false
	}
	return s.results[s.selected], true
}

// Pair returns the original and the selected result.
func (s *Session) Pair() (compare.Pair, bool) {
	res, ok := s.Selected()
	img := s.Image()
	if !ok || img == nil {
		return compare.Pair{}, false
	}
	return compare.Pair{Before: img, After: res.Image}, true
}

func (s *Session) updatePair() {
	p, _ := s.Pair()
	s.compare.SetPair(p)
}

// DarkMode reports whether the dark theme is active.
func (s *Session) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode switches the theme flag and notifies listeners.
func (s *Session) SetDarkMode(dark bool) {
	s.mu.Lock()
	s.darkMode = dark
	s.mu.Unlock()
	s.Emit(EventThemeChanged, dark)
}

// ExportQueue saves the queue as a JSON recipe.
func (s *Session) ExportQueue(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	if err := s.queue.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportQueue replaces the queue with a saved recipe.
func (s *Session) ImportQueue(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recipe: %w", err)
	}
	defer f.Close()
	return s.queue.Import(f)
}
