package term

import (
	"io"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quill/internal/geometry"
)

// Screen draws quill onto a tcell.Screen.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	styles Styles
	logger *slog.Logger
}

// Option configures a Screen.
type Option func(*Screen)

// WithStyles replaces the default styles.
func WithStyles(st Styles) Option {
	return func(s *Screen) {
		s.styles = st
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Screen) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps an existing tcell screen, such as a simulation screen.
func New(screen tcell.Screen, opts ...Option) *Screen {
	s := &Screen{
		screen: screen,
		styles: DefaultStyles(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTerminal creates a Screen for the controlling terminal.
func NewTerminal(opts ...Option) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, opts...), nil
}

// Init initializes the screen with mouse and bracketed paste enabled.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	s.screen.EnablePaste()
	s.screen.SetStyle(s.styles.Text)
	return nil
}

// Fini restores the terminal.
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Fini()
}

// Styles returns the styles in use.
func (s *Screen) Styles() Styles {
	return s.styles
}

// Size returns the screen width and height.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.screen.Size()
}

// BoundingRect returns the whole screen. Screen is a geometry.Element.
func (s *Screen) BoundingRect() geometry.Rect {
	w, h := s.Size()
	return geometry.RectFromSize(0, 0, h, w)
}

// Clear clears the screen.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
}

// Show flushes pending drawing to the terminal.
func (s *Screen) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Show()
}

// Sync redraws the entire terminal.
func (s *Screen) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Sync()
}

// Beep rings the bell.
func (s *Screen) Beep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.screen.Beep() // best-effort; terminal may not support beep
}

// PollEvent waits for and returns the next event. It returns EventNone
// with ok false once the screen is finalized.
func (s *Screen) PollEvent() (ev Event, ok bool) {
	tev := s.screen.PollEvent()
	if tev == nil {
		return Event{}, false
	}
	return convertEvent(tev), true
}

// Post queues fn to run on the goroutine reading PollEvent. It fails when
// the event queue is full.
func (s *Screen) Post(fn func()) error {
	return s.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// fill fills r with blanks in style. Callers hold the lock.
func (s *Screen) fill(r geometry.Rect, style tcell.Style) {
	w, h := s.screen.Size()
	for y := max(r.Top, 0); y < r.Bottom && y < h; y++ {
		for x := max(r.Left, 0); x < r.Right && x < w; x++ {
			s.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}
