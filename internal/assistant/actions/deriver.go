// Package actions suggests follow-up actions for an assistant reply.
package actions

import (
	"github.com/samber/lo"

	"github.com/portfolio-assistant/server/internal/assistant/keywords"
	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
)

// Group contributes its Action when any InputKeyword occurs in the user input
// or any ResponseKeyword occurs in the reply text.
type Group struct {
	Name             string
	InputKeywords    []string
	ResponseKeywords []string
	Action           model.Action
}

func (g Group) matches(input, response keywords.Text) bool {
	return input.HasAny(g.InputKeywords...) || response.HasAny(g.ResponseKeywords...)
}

type Deriver struct {
	groups []Group
}

// New builds a deriver over the default groups for kb.
func New(kb *model.KnowledgeBase) *Deriver {
	return &Deriver{groups: DefaultGroups(kb)}
}

// NewWithGroups builds a deriver over explicit groups.
func NewWithGroups(groups []Group) *Deriver {
	return &Deriver{groups: groups}
}

// DefaultGroups returns the groups in evaluation order:
// projects, named projects, contact, about.
func DefaultGroups(kb *model.KnowledgeBase) []Group {
	anon := knowledge.MustProject(kb, knowledge.ProjectAnonymousChat)
	popcorn := knowledge.MustProject(kb, knowledge.ProjectPopcornTV)
	pani := knowledge.MustProject(kb, knowledge.ProjectPaniMr)
	business := knowledge.MustProject(kb, knowledge.ProjectBusinessSite)

	return []Group{
		{
			Name:             "projects",
			InputKeywords:    []string{"project", "portfolio", "work"},
			ResponseKeywords: []string{"project", "portfolio"},
			Action:           model.Navigate(model.SectionProjects, "View Projects"),
		},
		{
			Name:             "anonymous_chat",
			InputKeywords:    []string{"anonymous", "chat"},
			ResponseKeywords: []string{"anonymous chat"},
			Action:           model.Link(anon.DemoURL, "View Anonymous Chat"),
		},
		{
			Name:             "popcorntv",
			InputKeywords:    []string{"popcorn", "netflix", "tv"},
			ResponseKeywords: []string{"popcorntv", "netflix"},
			Action:           model.Link(popcorn.DemoURL, "View PopcornTV"),
		},
		{
			Name:             "actor_portfolio",
			InputKeywords:    []string{"pani", "actor"},
			ResponseKeywords: []string{"pani", "actor portfolio"},
			Action:           model.Link(pani.DemoURL, "View Actor Portfolio"),
		},
		{
			Name:             "business_site",
			InputKeywords:    []string{"business", "insulation", "lakshmi", "sai"},
			ResponseKeywords: []string{"insulation", "business"},
			Action:           model.Link(business.DemoURL, "View Business Site"),
		},
		{
			Name:             "contact",
			InputKeywords:    []string{"contact", "email", "reach", "whatsapp"},
			ResponseKeywords: []string{"email", "contact", "reach out"},
			Action:           model.Navigate(model.SectionContact, "Contact Info"),
		},
		{
			Name:             "about",
			InputKeywords:    []string{"about", "skill", "experience", "education", "background"},
			ResponseKeywords: []string{"skills", "about"},
			Action:           model.Navigate(model.SectionAbout, "About Me"),
		},
	}
}

// Derive returns one action per matching group, in group order, with
// duplicate targets removed. The result may be empty.
func (d *Deriver) Derive(input, response string) []model.Action {
	in := keywords.Parse(input)
	out := keywords.Parse(response)

	var derived []model.Action
	for _, g := range d.groups {
		if g.matches(in, out) {
			derived = append(derived, g.Action)
		}
	}
	return dedupe(derived)
}

// Merge appends derived actions to a rule's action template. When two
// actions share a target the first one is kept.
func Merge(template, derived []model.Action) []model.Action {
	all := make([]model.Action, 0, len(template)+len(derived))
	all = append(all, template...)
	all = append(all, derived...)
	return dedupe(all)
}

func dedupe(actions []model.Action) []model.Action {
	if len(actions) == 0 {
		return nil
	}
	return lo.UniqBy(actions, func(a model.Action) string {
		return a.Target
	})
}
