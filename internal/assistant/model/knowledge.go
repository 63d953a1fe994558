package model

// Profile holds the subject's biographical facts.
type Profile struct {
	Name         string   `json:"name"`
	Nickname     string   `json:"nickname"`
	Role         string   `json:"role"`
	Education    string   `json:"education"`
	Location     string   `json:"location"`
	Languages    []string `json:"languages"`
	Availability string   `json:"availability"`
	Experience   string   `json:"experience"`
}

type SkillCategory struct {
	Title       string   `json:"title"`
	Skills      []string `json:"skills"`
	Proficiency int      `json:"proficiency"`
}

type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	DemoURL     string   `json:"demo_url"`
	SourceURL   string   `json:"source_url"`
	// Aliases are lower-case keywords that refer to this project.
	Aliases []string `json:"-"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
}

// KnowledgeBase is the static fact sheet used by both response paths.
// It must not be mutated after construction.
type KnowledgeBase struct {
	Assistant string          `json:"assistant"`
	Profile   Profile         `json:"profile"`
	Skills    []SkillCategory `json:"skills"`
	Projects  []Project       `json:"projects"`
	Contact   Contact         `json:"contact"`
}

// Project returns the project with the given name.
func (kb *KnowledgeBase) Project(name string) (Project, bool) {
	for _, p := range kb.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}
