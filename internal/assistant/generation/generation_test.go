package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	errx "github.com/portfolio-assistant/server/internal/core/error"
)

type fakeChat struct {
	out   *schema.Message
	err   error
	delay time.Duration
	got   []*schema.Message
}

func (f *fakeChat) Generate(ctx context.Context, in []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.got = in
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.out, f.err
}

func (f *fakeChat) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func testConfig() Config {
	return Config{
		APIKey: "test-key",
		Generation: model.GenerationConfig{
			Model:       "gemini-2.5-flash",
			MaxTokens:   200,
			Temperature: 0.7,
			TopK:        40,
			TopP:        0.95,
			Timeout:     time.Second,
		},
		Knowledge: knowledge.Default(),
	}
}

func newTestClient(t *testing.T, chat einomodel.BaseChatModel) *GeminiClient {
	t.Helper()
	c, err := NewWithChatModel(chat, testConfig())
	require.NoError(t, err)
	return c
}

func TestGenerateSuccess(t *testing.T) {
	chat := &fakeChat{out: &schema.Message{
		Role:    schema.Assistant,
		Content: "  Sandeep builds cool stuff! 🚀 ",
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{
			PromptTokens: 1_000_000, CompletionTokens: 0, TotalTokens: 1_000_000,
		}},
	}}
	c := newTestClient(t, chat)

	res, err := c.Generate(context.Background(), "who is sandeep?")
	require.NoError(t, err)
	assert.Equal(t, "Sandeep builds cool stuff! 🚀", res.Text)
	assert.InDelta(t, 0.30, res.CostUSD, 1e-9)

	require.Len(t, chat.got, 2)
	assert.Contains(t, chat.got[0].Content, "You are Sandy")
	assert.Equal(t, "User question: who is sandeep?", chat.got[1].Content)
}

func TestGenerateEmptyTextIsMalformed(t *testing.T) {
	for _, out := range []*schema.Message{nil, {Role: schema.Assistant, Content: "   "}} {
		c := newTestClient(t, &fakeChat{out: out})
		_, err := c.Generate(context.Background(), "hi")
		require.Error(t, err)
		assert.Equal(t, errx.KindRemoteResponseMalformed, errx.KindOf(err))
	}
}

func TestGenerateTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Timeout = 20 * time.Millisecond
	c, err := NewWithChatModel(&fakeChat{delay: time.Second}, cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, errx.KindRemoteRequestFailed, errx.KindOf(err))
	assert.Equal(t, http.StatusGatewayTimeout, errx.StatusOf(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   errx.Kind
		status int
	}{
		{"api 429", fmt.Errorf("send: %w", genai.APIError{Code: 429, Message: "quota"}), errx.KindRateLimitExceeded, 429},
		{"api 429 pointer", fmt.Errorf("send: %w", &genai.APIError{Code: 429}), errx.KindRateLimitExceeded, 429},
		{"api 500", genai.APIError{Code: 500, Message: "boom"}, errx.KindRemoteRequestFailed, 500},
		{"api 403", genai.APIError{Code: 403}, errx.KindRemoteRequestFailed, 403},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), errx.KindRemoteRequestFailed, http.StatusGatewayTimeout},
		{"network", errors.New("dial tcp: connection refused"), errx.KindRemoteRequestFailed, http.StatusBadGateway},
		{"already tagged", errx.Malformed(errors.New("x")), errx.KindRemoteResponseMalformed, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.Status)
		})
	}
	assert.Nil(t, Classify(nil))
}

func TestProviderMessageIsShort(t *testing.T) {
	long := strings.Repeat("secret payload ", 50)
	msg := providerMessage(genai.APIError{Code: 500, Message: long})
	assert.LessOrEqual(t, len([]rune(msg)), maxLoggedMessage+1)
	assert.Equal(t, "timeout", providerMessage(context.DeadlineExceeded))
	assert.Equal(t, errx.RequestFailedMessage, providerMessage(errors.New("raw body {\"key\":\"x\"}")))
}

func TestNewWithChatModelDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Generation.Timeout = 0
	c, err := NewWithChatModel(&fakeChat{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, "gemini-2.5-flash", c.Model())

	_, err = NewWithChatModel(nil, cfg)
	assert.Error(t, err)

	cfg.Knowledge = nil
	_, err = NewWithChatModel(&fakeChat{}, cfg)
	assert.Error(t, err)
}

func newServerClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.BaseURL = srv.URL
	c, err := NewGeminiClient(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func TestGeminiClientAgainstHTTPServer(t *testing.T) {
	var path string
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hey there! 👋"}]},"finishReason":"STOP"}],`+
			`"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":4,"totalTokenCount":16}}`)
	})

	res, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hey there! 👋", res.Text)
	assert.Contains(t, path, "gemini-2.5-flash:generateContent")
}

func TestGeminiClientMapsHTTP429(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, errx.KindRateLimitExceeded, errx.KindOf(err))
}

func TestGeminiClientMapsHTTP500(t *testing.T) {
	c := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
	})

	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, errx.KindRemoteRequestFailed, errx.KindOf(err))
}
