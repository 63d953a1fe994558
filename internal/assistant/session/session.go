// Package session keeps the ordered turn log of one chat conversation and
// serialises submissions to the response pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/portfolio-assistant/server/internal/assistant/graph"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

var (
	ErrEmptyInput = errors.New("input is empty")
	ErrBusy       = errors.New("a response is already pending")
)

// ApologyText is shown when the pipeline itself fails.
const ApologyText = "Sorry, I encountered an error. Please try again later."

type State string

const (
	StateIdle     State = "idle"
	StateAwaiting State = "awaiting-response"
)

// Session is one conversation. It is safe for concurrent use; only one
// submission is processed at a time.
type Session struct {
	id      string
	runner  graph.Runner
	limiter ratelimit.Limiter
	now     func() time.Time

	mu       sync.Mutex
	state    State
	turns    []model.Turn
	lastSeen time.Time
}

type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session whose log holds the greeting turn.
func New(id string, runner graph.Runner, limiter ratelimit.Limiter, kb *model.KnowledgeBase, opts ...Option) *Session {
	s := &Session{
		id:      id,
		runner:  runner,
		limiter: limiter,
		now:     time.Now,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	now := s.now()
	s.lastSeen = now
	s.turns = []model.Turn{model.NewTurn(model.SenderAssistant, GreetingText(kb), now, GreetingActions(kb))}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// GreetingText is the first assistant turn of every session.
func GreetingText(kb *model.KnowledgeBase) string {
	return fmt.Sprintf("👋 Hey there! I'm %s, %s's digital sidekick! 🦸‍♂️✨ I'm here to chat about all things %s - "+
		"his amazing projects, ninja coding skills, or just to say hi! What would you like to know? 😊",
		kb.Assistant, kb.Profile.Nickname, kb.Profile.Nickname)
}

func GreetingActions(kb *model.KnowledgeBase) []model.Action {
	return []model.Action{
		model.Navigate(model.SectionProjects, "🚀 See Projects"),
		model.Navigate(model.SectionContact, "📱 Contact Info"),
		model.Link(kb.Contact.GitHub, "🌟 GitHub"),
	}
}

// ApologyActions accompany ApologyText.
func ApologyActions() []model.Action {
	return []model.Action{
		model.Navigate(model.SectionProjects, "View Projects"),
		model.Navigate(model.SectionContact, "Contact Me"),
	}
}

// Submit appends the user turn, runs the pipeline and appends the assistant
// turn, which it returns. Empty input is rejected without touching the log
// or the limiter; a submission while another is pending returns ErrBusy.
func (s *Session) Submit(ctx context.Context, input string) (model.Turn, error) {
	if strings.TrimSpace(input) == "" {
		return model.Turn{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateAwaiting {
		s.mu.Unlock()
		return model.Turn{}, ErrBusy
	}
	s.state = StateAwaiting
	now := s.now()
	s.lastSeen = now
	s.turns = append(s.turns, model.NewTurn(model.SenderUser, input, now, nil))
	s.mu.Unlock()

	reply := s.respond(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	now = s.now()
	turn := model.NewTurn(model.SenderAssistant, reply.Text, now, reply.Actions)
	s.turns = append(s.turns, turn)
	s.state = StateIdle
	s.lastSeen = now
	return turn, nil
}

// respond never fails: pipeline errors and panics become the apology reply.
func (s *Session) respond(ctx context.Context, input string) (reply model.Reply) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("session_id", s.id).Interface("panic", r).Msg("Response pipeline panicked")
			reply = apology()
		}
	}()

	reply, err := s.runner.Invoke(ctx, model.QueryInput{SessionID: s.id, Query: input}, s.limiter)
	if err != nil {
		logx.Error().Err(err).Str("session_id", s.id).Msg("Response pipeline failed")
		return apology()
	}
	if strings.TrimSpace(reply.Text) == "" {
		return apology()
	}
	return reply
}

func apology() model.Reply {
	return model.Reply{Text: ApologyText, Actions: ApologyActions(), Source: model.SourceApology}
}

// Turns returns a copy of the ordered turn log.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSeen reports the time of the latest activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
