// Package graph composes the response pipeline: rate-limited remote
// generation, rule-based fallback and action derivation.
package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/portfolio-assistant/server/internal/assistant/actions"
	"github.com/portfolio-assistant/server/internal/assistant/fallback"
	"github.com/portfolio-assistant/server/internal/assistant/generation"
	"github.com/portfolio-assistant/server/internal/assistant/graph/nodes"
	"github.com/portfolio-assistant/server/internal/assistant/graph/observers"
	"github.com/portfolio-assistant/server/internal/assistant/model"
	"github.com/portfolio-assistant/server/internal/assistant/ratelimit"
	logx "github.com/portfolio-assistant/server/pkg/logger"
)

const maxRunSteps = 10

// Runner executes the compiled graph for one submission.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput, limiter ratelimit.Limiter) (model.Reply, error)
}

// Config holds everything needed to compose the response graph end-to-end.
type Config struct {
	Knowledge *model.KnowledgeBase
	Generator generation.Generator
	// ModelName is only used for usage logging.
	ModelName string
	// Responder and Deriver default to ones built from Knowledge.
	Responder *fallback.Responder
	Deriver   *actions.Deriver
}

// GraphConfig holds the resolved components wired into the graph.
type GraphConfig struct {
	Generator generation.Generator
	Responder *fallback.Responder
	Deriver   *actions.Deriver
	ModelName string
}

// GraphBuilder handles the construction of the response graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, model.Reply]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, model.Reply]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput, limiter ratelimit.Limiter) (model.Reply, error) {
	if limiter == nil {
		return model.Reply{}, fmt.Errorf("limiter is nil")
	}
	ctx = nodes.WithLimiter(ctx, limiter)

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return model.Reply{}, err
	}
	logx.Debug().
		Str("session_id", in.SessionID).
		Str("source", string(out.Source)).
		Int("actions", len(out.Actions)).
		Msg("Reply ready")
	return out, nil
}

// BuildResponseGraph resolves defaults, builds the graph and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("generator is nil")
	}
	if cfg.Knowledge == nil && (cfg.Responder == nil || cfg.Deriver == nil) {
		return nil, fmt.Errorf("knowledge base is nil")
	}

	responder := cfg.Responder
	if responder == nil {
		responder = fallback.New(cfg.Knowledge)
	}
	deriver := cfg.Deriver
	if deriver == nil {
		deriver = actions.New(cfg.Knowledge)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Generator: cfg.Generator,
		Responder: responder,
		Deriver:   deriver,
		ModelName: cfg.ModelName,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Response graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled response graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, model.Reply], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Generator == nil || config.Responder == nil || config.Deriver == nil {
		return nil, fmt.Errorf("graph components are not properly initialized")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, model.Reply](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeRemoteGeneration,
		nodes.NewRemoteGenerationNode(b.config.Generator),
		compose.WithStatePreHandler(nodes.NewRemoteGenerationPreHandler()),
		compose.WithStatePostHandler(nodes.NewRemoteGenerationPostHandler(b.config.ModelName)),
	); err != nil {
		return fmt.Errorf("error adding %s node: %w", nodes.NodeRemoteGeneration, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodeFallback,
		nodes.NewFallbackNode(b.config.Responder),
	); err != nil {
		return fmt.Errorf("error adding %s node: %w", nodes.NodeFallback, err)
	}

	if err := b.graph.AddLambdaNode(nodes.NodeActionDeriver,
		nodes.NewActionDeriverNode(b.config.Deriver),
	); err != nil {
		return fmt.Errorf("error adding %s node: %w", nodes.NodeActionDeriver, err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeRemoteGeneration},
		{nodes.NodeFallback, nodes.NodeActionDeriver},
		{nodes.NodeActionDeriver, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes remote failures to the fallback responder.
func (b *GraphBuilder) addBranches() error {
	fallbackBranch := compose.NewGraphBranch(
		nodes.NewFallbackCondition(),
		map[string]bool{
			nodes.NodeFallback:      true,
			nodes.NodeActionDeriver: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeRemoteGeneration, fallbackBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding fallback branch")
		return fmt.Errorf("error adding fallback branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, model.Reply], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxRunSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
