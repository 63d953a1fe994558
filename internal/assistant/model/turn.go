package model

import "time"

// TimeLayout is the wall-clock format shown next to each turn.
const TimeLayout = "15:04"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type ActionKind string

const (
	ActionNavigate     ActionKind = "navigate"
	ActionExternalLink ActionKind = "link"
)

// Section identifiers resolved to page anchors by the front end.
const (
	SectionHome     = "home"
	SectionAbout    = "about"
	SectionSkills   = "skills"
	SectionProjects = "projects"
	SectionContact  = "contact"
)

// Action is a suggested follow-up attached to an assistant turn.
type Action struct {
	Kind   ActionKind `json:"type"`
	Target string     `json:"target"`
	Label  string     `json:"label"`
}

func Navigate(section, label string) Action {
	return Action{Kind: ActionNavigate, Target: section, Label: label}
}

func Link(url, label string) Action {
	return Action{Kind: ActionExternalLink, Target: url, Label: label}
}

// Turn is one user or assistant message within a session. Turns are never
// mutated after they are appended.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Time      string    `json:"time"`
	Actions   []Action  `json:"actions,omitempty"`
}

func NewTurn(sender Sender, text string, at time.Time, actions []Action) Turn {
	var acts []Action
	if len(actions) > 0 {
		acts = make([]Action, len(actions))
		copy(acts, actions)
	}
	return Turn{
		Sender:    sender,
		Text:      text,
		Timestamp: at,
		Time:      at.Format(TimeLayout),
		Actions:   acts,
	}
}
