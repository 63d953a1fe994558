package model

import "github.com/cloudwego/eino/schema"

// Source records which path produced a reply. It is used for logging and
// tests only; callers of the session never branch on it.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceApology  Source = "apology"
)

// AppState stores per-invocation state for the response graph.
// All reads/writes happen inside Eino state handlers or compose.ProcessState,
// which serialise access, so no additional locking is needed.
type AppState struct {
	SessionID string
	Input     string
	// RemoteErr keeps the failure that routed this turn to the fallback path.
	RemoteErr error
	// Accumulated generation cost (USD) for this turn.
	TotalCostUSD float64
}

// QueryInput represents one submission to the response graph.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// Draft is the intermediate result passed between graph nodes.
type Draft struct {
	Input   string
	Text    string
	Actions []Action
	Source  Source
	Err     error
	Usage   *schema.TokenUsage
	CostUSD float64
}

// Reply is the final output of the response graph.
type Reply struct {
	Text    string   `json:"text"`
	Actions []Action `json:"actions,omitempty"`
	Source  Source   `json:"-"`
}
