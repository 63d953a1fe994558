package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProjectsAreOrdered(t *testing.T) {
	kb := Default()

	names := make([]string, 0, len(kb.Projects))
	for _, p := range kb.Projects {
		names = append(names, p.Name)
		assert.NotEmpty(t, p.DemoURL, p.Name)
		assert.NotEmpty(t, p.SourceURL, p.Name)
		assert.NotEmpty(t, p.Aliases, p.Name)
	}
	assert.Equal(t, []string{ProjectAnonymousChat, ProjectPopcornTV, ProjectPaniMr, ProjectBusinessSite}, names)
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Projects[0].Name = "changed"
	assert.Equal(t, ProjectAnonymousChat, b.Projects[0].Name)
}

func TestMustProject(t *testing.T) {
	kb := Default()
	p := MustProject(kb, ProjectPopcornTV)
	require.Equal(t, "https://pop-corn-tv.vercel.app/browse", p.DemoURL)

	assert.Panics(t, func() { MustProject(kb, "missing") })
}
