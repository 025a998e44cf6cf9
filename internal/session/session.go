package session

import "context"

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the per-browser state carried in the signed cookie.
type Session struct {
	UserID  int64
	Flashes []Flash

	dirty bool
}

func (s *Session) AddFlash(message, category string) {
	if category == "" {
		category = "message"
	}
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// PopFlashes returns the queued flashes and clears them.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	if len(out) > 0 {
		s.Flashes = nil
		s.dirty = true
	}
	if out == nil {
		out = []Flash{}
	}
	return out
}

func (s *Session) Login(userID int64) {
	s.UserID = userID
	s.dirty = true
}

// Logout forgets the user but keeps pending flashes.
func (s *Session) Logout() {
	if s.UserID != 0 {
		s.UserID = 0
		s.dirty = true
	}
}

func (s *Session) Dirty() bool { return s.dirty }

func (s *Session) empty() bool { return s.UserID == 0 && len(s.Flashes) == 0 }

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, or a fresh one when none was attached.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
