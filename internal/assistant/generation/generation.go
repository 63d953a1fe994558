// Package generation calls the remote Gemini endpoint with the assistant
// persona and classifies its failures.
package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/prompts"
	errx "github.com/portfolio-assistant/server/internal/core/error"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

const DefaultTimeout = 8 * time.Second

// maxLoggedMessage bounds provider error text in logs.
const maxLoggedMessage = 120

// Result is the text of a successful generation plus its token usage.
type Result struct {
	Text    string
	Usage   *schema.TokenUsage
	CostUSD float64
}

// Generator produces a reply for one user question. Errors are *errx.AppError
// values tagged with a Kind.
type Generator interface {
	Generate(ctx context.Context, input string) (Result, error)
}

// Config holds what is needed to build a Gemini backed Generator.
type Config struct {
	APIKey     string
	BaseURL    string
	Generation model.GenerationConfig
	Knowledge  *model.KnowledgeBase
}

// GeminiClient issues a single generateContent request per call. It never retries.
type GeminiClient struct {
	chat      einomodel.BaseChatModel
	persona   *prompts.Persona
	modelName string
	pricing   model.Pricing
	timeout   time.Duration
}

// NewGeminiClient creates the genai client and the Eino Gemini chat model.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	gc := cfg.Generation
	chat, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       gc.Model,
		Temperature: &gc.Temperature,
		MaxTokens:   &gc.MaxTokens,
		TopK:        &gc.TopK,
		TopP:        &gc.TopP,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(gc.ThinkingBudget),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}

	return NewWithChatModel(chat, cfg)
}

// NewWithChatModel wraps an existing chat model.
func NewWithChatModel(chat einomodel.BaseChatModel, cfg Config) (*GeminiClient, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	persona, err := prompts.NewPersona(cfg.Knowledge)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Generation.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{
		chat:      chat,
		persona:   persona,
		modelName: cfg.Generation.Model,
		pricing:   model.ResolvePricing(cfg.Generation.Model),
		timeout:   timeout,
	}, nil
}

func (c *GeminiClient) Model() string {
	return c.modelName
}

// Generate sends the persona, the knowledge base and input in one request.
func (c *GeminiClient) Generate(ctx context.Context, input string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs, err := c.persona.Messages(ctx, input)
	if err != nil {
		return Result{}, errx.RequestFailed(err, http.StatusInternalServerError)
	}

	out, err := c.chat.Generate(ctx, msgs)
	if err != nil {
		appErr := Classify(err)
		logx.Error().
			Str("model", c.modelName).
			Int("status", appErr.Status).
			Str("kind", string(appErr.Kind)).
			Str("message", providerMessage(err)).
			Msg("Remote generation failed")
		return Result{}, appErr
	}

	if out == nil || strings.TrimSpace(out.Content) == "" {
		logx.Warn().Str("model", c.modelName).Msg("Remote generation returned no candidate text")
		return Result{}, errx.Malformed(errors.New("response has no candidate text"))
	}

	res := Result{Text: strings.TrimSpace(out.Content)}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		res.Usage = out.ResponseMeta.Usage
		_, _, res.CostUSD = model.ComputeCost(res.Usage, c.pricing)
	}
	return res, nil
}

// Classify maps a chat model error onto an errx kind. HTTP 429 is reported as
// rate limited; any other status, network failure or timeout as request failed.
func Classify(err error) *errx.AppError {
	if err == nil {
		return nil
	}
	var appErr *errx.AppError
	if errors.As(err, &appErr) && appErr.Kind != errx.KindUnknown {
		return appErr
	}

	if code, ok := apiStatus(err); ok {
		if code == http.StatusTooManyRequests {
			return errx.RateLimited(err)
		}
		return errx.RequestFailed(err, code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errx.RequestFailed(err, http.StatusGatewayTimeout)
	}
	return errx.RequestFailed(err, 0)
}

func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

// providerMessage returns a short, single-line description of err without the
// raw provider payload.
func providerMessage(err error) string {
	msg := errx.RequestFailedMessage
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		msg = apiErr.Message
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		msg = apiErrPtr.Message
	case errors.Is(err, context.DeadlineExceeded):
		msg = "timeout"
	case errors.Is(err, context.Canceled):
		msg = "canceled"
	}
	msg = strings.Join(strings.Fields(msg), " ")
	if r := []rune(msg); len(r) > maxLoggedMessage {
		msg = string(r[:maxLoggedMessage]) + "…"
	}
	return msg
}
