// Package prompts renders the assistant persona sent with every remote
// generation request.
package prompts

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/portfolio-assistant/server/internal/assistant/model"
)

//go:embed template/persona_prompt.txt
var personaPrompt string

var personaTemplate = template.Must(template.New("persona").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(personaPrompt))

// Persona holds the system instruction rendered once from a knowledge base.
type Persona struct {
	system string
}

// NewPersona renders the persona instruction for kb.
func NewPersona(kb *model.KnowledgeBase) (*Persona, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base is nil")
	}
	var buf bytes.Buffer
	if err := personaTemplate.Execute(&buf, kb); err != nil {
		return nil, fmt.Errorf("persona prompt render: %w", err)
	}
	return &Persona{system: buf.String()}, nil
}

// System returns the rendered persona instruction.
func (p *Persona) System() string {
	return p.system
}

// Messages builds the request messages for one user question. Rendering goes
// through the Eino prompt component so prompt callbacks fire.
func (p *Persona) Messages(ctx context.Context, query string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage("{{.System}}"),
		schema.UserMessage("User question: {{.Query}}"),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"System": p.system,
		"Query":  query,
	})
	if err != nil {
		return nil, fmt.Errorf("persona prompt format: %w", err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return nil, fmt.Errorf("persona prompt format: unexpected result")
	}
	return msgs, nil
}
