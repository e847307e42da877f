package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-credits-portal/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Variant string

const (
	Success Variant = "success"
	Error   Variant = "error"
	Info    Variant = "info"
	Warning Variant = "warning"
)

type Position string

const (
	TopRight     Position = "top-right"
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	BottomRight  Position = "bottom-right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
)

// ParsePosition falls back to TopRight for unknown values.
func ParsePosition(s string) Position {
	switch p := Position(s); p {
	case TopRight, TopLeft, TopCenter, BottomRight, BottomLeft, BottomCenter:
		return p
	default:
		return TopRight
	}
}

const (
	DefaultDedupeWindow = 1200 * time.Millisecond
	DefaultDuration     = 4 * time.Second
)

// Message is one visible notification.
type Message struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Variant   Variant       `json:"variant"`
	Position  Position      `json:"position"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

type EventType string

const (
	Added   EventType = "added"
	Removed EventType = "removed"
)

type Event struct {
	Type    EventType
	Message Message
}

// Notifier is the surface guards and interceptors report through.
type Notifier interface {
	Success(text string)
	Error(text string)
	Info(text string)
	Warn(text string)
}

var _ Notifier = (*Service)(nil)

// Service is a transient notification sink. Identical text arriving within
// the dedupe window of the previously shown message is dropped; everything
// else is shown and expires on its own timer.
type Service struct {
	mu              sync.Mutex
	clock           Clock
	dedupeWindow    time.Duration
	defaultDuration time.Duration
	defaultPosition Position
	metrics         *metrics.Metrics

	lastText string
	lastAt   time.Time
	active   []Message
	timers   map[string]Timer
	subs     []func(Event)
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithDedupeWindow(d time.Duration) Option {
	return func(s *Service) { s.dedupeWindow = d }
}

func WithDefaultDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.defaultDuration = d
		}
	}
}

func WithDefaultPosition(p Position) Option {
	return func(s *Service) { s.defaultPosition = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(opts ...Option) *Service {
	s := &Service{
		clock:           realClock{},
		dedupeWindow:    DefaultDedupeWindow,
		defaultDuration: DefaultDuration,
		defaultPosition: TopRight,
		timers:          make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show displays text unless it duplicates the previous message within the
// dedupe window. It returns the message and whether it was shown. A zero
// duration or empty position uses the service defaults.
func (s *Service) Show(text string, variant Variant, duration time.Duration, position Position) (Message, bool) {
	if duration <= 0 {
		duration = s.defaultDuration
	}
	if position == "" {
		position = s.defaultPosition
	}

	s.mu.Lock()
	now := s.clock.Now()
	if text == s.lastText && !s.lastAt.IsZero() && now.Sub(s.lastAt) < s.dedupeWindow {
		s.mu.Unlock()
		log.Debug().Str("text", text).Msg("Toast: duplicate suppressed")
		return Message{}, false
	}
	s.lastText = text
	s.lastAt = now

	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Variant:   variant,
		Position:  position,
		Duration:  duration,
		CreatedAt: now,
	}
	s.active = append(s.active, msg)
	s.timers[msg.ID] = s.clock.AfterFunc(duration, func() { s.expire(msg.ID) })
	subs := s.listeners()
	s.mu.Unlock()

	s.metrics.RecordToast(string(variant))
	notify(subs, Event{Type: Added, Message: msg})
	return msg, true
}

func (s *Service) Success(text string) {
	s.Show(text, Success, 0, "")
}

func (s *Service) Error(text string) {
	s.Show(text, Error, 0, "")
}

func (s *Service) Info(text string) {
	s.Show(text, Info, 0, "")
}

func (s *Service) Warn(text string) {
	s.Show(text, Warning, 0, "")
}

// Active returns the visible messages in creation order.
func (s *Service) Active() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.active))
	copy(out, s.active)
	return out
}

// Dismiss removes a message before it expires.
func (s *Service) Dismiss(id string) bool {
	return s.remove(id, true)
}

// Subscribe registers a renderer callback for add/remove events. Callbacks
// run on the goroutine that caused the event and must not block.
func (s *Service) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Clear stops all timers and drops every visible message.
func (s *Service) Clear() {
	s.mu.Lock()
	removed := s.active
	for _, t := range s.timers {
		t.Stop()
	}
	s.active = nil
	s.timers = make(map[string]Timer)
	subs := s.listeners()
	s.mu.Unlock()

	for _, m := range removed {
		notify(subs, Event{Type: Removed, Message: m})
	}
}

func (s *Service) expire(id string) {
	s.remove(id, false)
}

func (s *Service) remove(id string, stopTimer bool) bool {
	s.mu.Lock()
	idx := -1
	for i, m := range s.active {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	msg := s.active[idx]
	s.active = append(s.active[:idx], s.active[idx+1:]...)
	if t, ok := s.timers[id]; ok {
		if stopTimer {
			t.Stop()
		}
		delete(s.timers, id)
	}
	subs := s.listeners()
	s.mu.Unlock()

	notify(subs, Event{Type: Removed, Message: msg})
	return true
}

func (s *Service) listeners() []func(Event) {
	out := make([]func(Event), len(s.subs))
	copy(out, s.subs)
	return out
}

func notify(subs []func(Event), e Event) {
	for _, fn := range subs {
		fn(e)
	}
}
