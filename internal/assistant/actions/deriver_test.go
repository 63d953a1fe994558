package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
)

func targets(actions []model.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Target)
	}
	return out
}

func TestDeriveFromInput(t *testing.T) {
	d := New(knowledge.Default())

	got := d.Derive("show me your projects and how to contact you", "")
	assert.Equal(t, []string{model.SectionProjects, model.SectionContact}, targets(got))
}

func TestDeriveFromResponse(t *testing.T) {
	kb := knowledge.Default()
	d := New(kb)

	got := d.Derive("hmm", "PopcornTV is a Netflix clone. Reach out via email!")
	assert.Equal(t, []string{knowledge.MustProject(kb, knowledge.ProjectPopcornTV).DemoURL, model.SectionContact}, targets(got))
}

func TestDeriveFixedOrder(t *testing.T) {
	kb := knowledge.Default()
	d := New(kb)

	// Input mentions groups in reverse order; output follows group order.
	got := d.Derive("about contact insulation actor tv chat project", "")
	assert.Equal(t, []string{
		model.SectionProjects,
		knowledge.MustProject(kb, knowledge.ProjectAnonymousChat).DemoURL,
		knowledge.MustProject(kb, knowledge.ProjectPopcornTV).DemoURL,
		knowledge.MustProject(kb, knowledge.ProjectPaniMr).DemoURL,
		knowledge.MustProject(kb, knowledge.ProjectBusinessSite).DemoURL,
		model.SectionContact,
		model.SectionAbout,
	}, targets(got))
}

func TestDeriveEmpty(t *testing.T) {
	d := New(knowledge.Default())
	assert.Empty(t, d.Derive("hello", "nice weather today"))
	assert.Empty(t, d.Derive("", ""))
}

func TestDeriveIsIdempotent(t *testing.T) {
	d := New(knowledge.Default())
	in, resp := "tell me about your popcorn project", "PopcornTV is so cool! 🎬"

	first := d.Derive(in, resp)
	second := d.Derive(in, resp)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestDeriveSuppressesDuplicateTargets(t *testing.T) {
	d := NewWithGroups([]Group{
		{Name: "a", InputKeywords: []string{"x"}, Action: model.Navigate("contact", "A")},
		{Name: "b", InputKeywords: []string{"x"}, Action: model.Navigate("contact", "B")},
	})

	got := d.Derive("x", "")
	assert.Equal(t, []model.Action{model.Navigate("contact", "A")}, got)
}

func TestMerge(t *testing.T) {
	template := []model.Action{model.Navigate(model.SectionProjects, "🚀 See Projects")}
	derived := []model.Action{
		model.Navigate(model.SectionProjects, "View Projects"),
		model.Navigate(model.SectionAbout, "About Me"),
	}

	got := Merge(template, derived)
	assert.Equal(t, []model.Action{
		model.Navigate(model.SectionProjects, "🚀 See Projects"),
		model.Navigate(model.SectionAbout, "About Me"),
	}, got)

	assert.Nil(t, Merge(nil, nil))
}
