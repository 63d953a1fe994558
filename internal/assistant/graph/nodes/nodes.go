package nodes

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	"github.com/portfolio-assistant/server/internal/assistant/actions"
	"github.com/portfolio-assistant/server/internal/assistant/fallback"
	"github.com/portfolio-assistant/server/internal/assistant/generation"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	errx "github.com/portfolio-assistant/server/internal/core/error"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

// ErrLimitExceeded is wrapped in the RateLimited error reported when the
// session's window is exhausted and no remote call is attempted.
var ErrLimitExceeded = errors.New("rate limit exceeded, please try again in a moment")

// NewRemoteGenerationPreHandler resets the per-invocation state.
func NewRemoteGenerationPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		s.SessionID = in.SessionID
		s.Input = in.Query
		s.RemoteErr = nil
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewRemoteGenerationNode gates the remote call with the limiter found in ctx.
// Failures are carried in Draft.Err so the branch can route them; the node
// itself never errors.
func NewRemoteGenerationNode(gen generation.Generator) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.QueryInput) (model.Draft, error) {
		draft := model.Draft{Input: in.Query}

		limiter, ok := LimiterFrom(ctx)
		if !ok || !limiter.TryAcquire(ctx) {
			draft.Err = errx.RateLimited(ErrLimitExceeded)
			return draft, nil
		}

		res, err := gen.Generate(ctx, in.Query)
		if err != nil {
			draft.Err = err
			return draft, nil
		}

		draft.Text = res.Text
		draft.Source = model.SourceRemote
		draft.Usage = res.Usage
		draft.CostUSD = res.CostUSD
		return draft, nil
	})
}

// NewRemoteGenerationPostHandler records the outcome and accumulates usage cost.
func NewRemoteGenerationPostHandler(modelName string) func(context.Context, model.Draft, *model.AppState) (model.Draft, error) {
	return func(ctx context.Context, out model.Draft, state *model.AppState) (model.Draft, error) {
		if out.Err != nil {
			state.RemoteErr = out.Err
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("kind", string(errx.KindOf(out.Err))).
				Msg("Remote generation unavailable, routing to fallback")
			return out, nil
		}

		if out.Usage != nil {
			state.TotalCostUSD += out.CostUSD
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("node", NodeRemoteGeneration).
				Str("model", modelName).
				Int("prompt_tokens", out.Usage.PromptTokens).
				Int("completion_tokens", out.Usage.CompletionTokens).
				Int("total_tokens", out.Usage.TotalTokens).
				Float64("total_cost_usd", state.TotalCostUSD).
				Msg("LLM usage")
		}
		return out, nil
	}
}

// NewFallbackCondition routes failed drafts to the fallback responder.
func NewFallbackCondition() func(context.Context, model.Draft) (string, error) {
	return func(ctx context.Context, in model.Draft) (string, error) {
		if in.Err != nil || in.Text == "" {
			return NodeFallback, nil
		}
		return NodeActionDeriver, nil
	}
}

// NewFallbackNode answers from the rule table. It cannot fail.
func NewFallbackNode(r *fallback.Responder) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Draft) (model.Draft, error) {
		reply := r.Respond(in.Input)
		return model.Draft{
			Input:   in.Input,
			Text:    reply.Text,
			Actions: reply.Actions,
			Source:  model.SourceFallback,
			Err:     in.Err,
		}, nil
	})
}

// NewActionDeriverNode attaches derived actions to the final text.
func NewActionDeriverNode(d *actions.Deriver) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Draft) (model.Reply, error) {
		derived := d.Derive(in.Input, in.Text)
		return model.Reply{
			Text:    in.Text,
			Actions: actions.Merge(in.Actions, derived),
			Source:  in.Source,
		}, nil
	})
}
