package graph

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-assistant/server/internal/assistant/generation"
	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
	errx "github.com/portfolio-assistant/server/internal/core/error"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, input string) (generation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return generation.Result{}, f.err
	}
	return generation.Result{Text: f.text}, nil
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingLimiter struct {
	allow bool
	calls int
}

func (l *countingLimiter) TryAcquire(context.Context) bool {
	l.calls++
	return l.allow
}

func newRunner(t *testing.T, gen generation.Generator) Runner {
	t.Helper()
	r, err := BuildResponseGraph(context.Background(), Config{
		Knowledge: knowledge.Default(),
		Generator: gen,
		ModelName: "gemini-2.5-flash",
	})
	require.NoError(t, err)
	return r
}

func hasTarget(actions []model.Action, target string) bool {
	for _, a := range actions {
		if a.Target == target {
			return true
		}
	}
	return false
}

func TestRemoteSuccessDerivesActions(t *testing.T) {
	gen := &fakeGenerator{text: "PopcornTV is a Netflix clone you'll love! 🍿"}
	r := newRunner(t, gen)

	reply, err := r.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Query: "show me your work"}, &countingLimiter{allow: true})
	require.NoError(t, err)

	assert.Equal(t, model.SourceRemote, reply.Source)
	assert.Equal(t, gen.text, reply.Text)
	assert.Equal(t, 1, gen.Calls())
	assert.True(t, hasTarget(reply.Actions, model.SectionProjects))
	assert.True(t, hasTarget(reply.Actions, knowledge.MustProject(knowledge.Default(), knowledge.ProjectPopcornTV).DemoURL))
}

func TestGreetingWithFailingRemote(t *testing.T) {
	r := newRunner(t, &fakeGenerator{err: errx.RequestFailed(errors.New("boom"), 500)})

	reply, err := r.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Query: "hi"}, &countingLimiter{allow: true})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.Contains(t, reply.Text, "Hey there!")
	assert.True(t, hasTarget(reply.Actions, model.SectionProjects))
}

func TestContactWithFailingRemote(t *testing.T) {
	kb := knowledge.Default()
	r := newRunner(t, &fakeGenerator{err: errx.Malformed(errors.New("empty"))})

	reply, err := r.Invoke(context.Background(), model.QueryInput{Query: "how can I contact you"}, &countingLimiter{allow: true})
	require.NoError(t, err)

	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.Contains(t, reply.Text, kb.Contact.Email)
	assert.True(t, hasTarget(reply.Actions, model.SectionContact))
}

func TestDeniedLimiterSkipsRemote(t *testing.T) {
	gen := &fakeGenerator{text: "should not be used"}
	r := newRunner(t, gen)
	limiter := &countingLimiter{allow: false}

	reply, err := r.Invoke(context.Background(), model.QueryInput{Query: "what are your skills"}, limiter)
	require.NoError(t, err)

	assert.Equal(t, 0, gen.Calls())
	assert.Equal(t, 1, limiter.calls)
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.NotEmpty(t, reply.Text)
}

func TestWindowCapsRemoteCalls(t *testing.T) {
	gen := &fakeGenerator{text: "Sure thing! 😊"}
	r := newRunner(t, gen)
	limiter := ratelimit.NewWindow(10, ratelimit.DefaultWindow)

	for i := 0; i < 11; i++ {
		reply, err := r.Invoke(context.Background(), model.QueryInput{Query: "tell me more"}, limiter)
		require.NoError(t, err)
		assert.NotEmpty(t, reply.Text)
		if i == 10 {
			assert.Equal(t, model.SourceFallback, reply.Source)
		}
	}
	assert.Equal(t, 10, gen.Calls())
}

func TestEmptyRemoteTextFallsBack(t *testing.T) {
	r := newRunner(t, &fakeGenerator{text: ""})

	reply, err := r.Invoke(context.Background(), model.QueryInput{Query: "thanks"}, &countingLimiter{allow: true})
	require.NoError(t, err)
	assert.Equal(t, model.SourceFallback, reply.Source)
	assert.NotEmpty(t, reply.Text)
}

func TestInvokeRequiresLimiter(t *testing.T) {
	r := newRunner(t, &fakeGenerator{text: "x"})
	_, err := r.Invoke(context.Background(), model.QueryInput{Query: "hi"}, nil)
	assert.Error(t, err)
}

func TestBuildResponseGraphValidation(t *testing.T) {
	_, err := BuildResponseGraph(context.Background(), Config{Knowledge: knowledge.Default()})
	assert.Error(t, err)

	_, err = BuildResponseGraph(context.Background(), Config{Generator: &fakeGenerator{}})
	assert.Error(t, err)

	_, err = BuildGraph(context.Background(), nil)
	assert.Error(t, err)
}
