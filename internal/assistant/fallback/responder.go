// Package fallback answers from a fixed, priority-ordered keyword table.
// It is the terminal path of the assistant and never fails.
package fallback

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/portfolio-assistant/server/internal/assistant/keywords"
	"github.com/portfolio-assistant/server/internal/assistant/model"
)

// RuleGeneric names the reply used when no rule matches.
const RuleGeneric = "generic"

// maxEcho bounds how much of the user's input is quoted back.
const maxEcho = 120

type Responder struct {
	kb    *model.KnowledgeBase
	rules []model.FallbackRule
}

// New builds a responder over the default rule table for kb.
func New(kb *model.KnowledgeBase) *Responder {
	return NewWithRules(kb, BuildRules(kb))
}

// NewWithRules builds a responder over an explicit rule table.
func NewWithRules(kb *model.KnowledgeBase, rules []model.FallbackRule) *Responder {
	return &Responder{kb: kb, rules: rules}
}

// Rules returns the rule table in evaluation order.
func (r *Responder) Rules() []model.FallbackRule {
	out := make([]model.FallbackRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Match returns the first rule whose keywords occur in input.
func (r *Responder) Match(input string) (model.FallbackRule, bool) {
	text := keywords.Parse(input)
	if text.Empty() {
		return model.FallbackRule{}, false
	}
	for _, rule := range r.rules {
		if text.HasAny(rule.Keywords...) {
			return rule, true
		}
	}
	return model.FallbackRule{}, false
}

// Respond returns the reply bound to the first matching rule, or a generic
// reply echoing the input. The result depends only on input.
func (r *Responder) Respond(input string) model.Reply {
	if rule, ok := r.Match(input); ok {
		return model.Reply{
			Text:    rule.Text,
			Actions: cloneActions(rule.Actions),
			Source:  model.SourceFallback,
		}
	}
	return r.generic(input)
}

func (r *Responder) generic(input string) model.Reply {
	p := r.kb.Profile
	text := fmt.Sprintf("Thanks for your message about %q. I'm %s, a %s. "+
		"I specialize in creating modern web applications using React, Next.js, and TypeScript. "+
		"Feel free to explore my projects or contact me at %s if you'd like to discuss a potential collaboration.",
		echo(input), p.Name, p.Role, r.kb.Contact.Email)

	return model.Reply{
		Text: text,
		Actions: []model.Action{
			model.Navigate(model.SectionProjects, "View Projects"),
			model.Navigate(model.SectionContact, "Contact Me"),
		},
		Source: model.SourceFallback,
	}
}

func echo(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	if utf8.RuneCountInString(s) <= maxEcho {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxEcho]) + "…"
}

func cloneActions(in []model.Action) []model.Action {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Action, len(in))
	copy(out, in)
	return out
}
