package model

// FallbackRule binds trigger keywords to a canned response. Rules are
// evaluated in declaration order and the first match wins.
type FallbackRule struct {
	Name     string
	Keywords []string
	Text     string
	Actions  []Action
}
