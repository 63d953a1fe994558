// Package knowledge holds the static fact sheet about the portfolio's owner.
package knowledge

import "github.com/portfolio-assistant/server/internal/assistant/model"

const (
	ProjectAnonymousChat = "Anonymous Chat"
	ProjectPopcornTV     = "PopcornTV"
	ProjectPaniMr        = "Pani.Mr"
	ProjectBusinessSite  = "Shri Lakshmi Sai Insulation"
)

// Default returns a fresh copy of the built-in knowledge base.
func Default() *model.KnowledgeBase {
	return &model.KnowledgeBase{
		Assistant: "Sandy",
		Profile: model.Profile{
			Name:         "Banoth Sandeep Naik",
			Nickname:     "Sandeep",
			Role:         "Full Stack Developer & UI/UX Designer",
			Education:    "B.Tech in Computer Science and Engineering at IIIT Manipur",
			Location:     "Hyderabad, India",
			Languages:    []string{"English", "Hindi", "Telugu"},
			Availability: "Actively freelancing and available for hire",
			Experience:   "2+ years building websites and web applications",
		},
		Skills: []model.SkillCategory{
			{
				Title:       "Frontend Development",
				Skills:      []string{"HTML5", "CSS3", "JavaScript", "React.js", "Next.js", "TypeScript", "Tailwind CSS"},
				Proficiency: 85,
			},
			{
				Title:       "Backend Development",
				Skills:      []string{"Node.js", "Express.js", "RESTful APIs", "JWT Auth", "Server Architecture"},
				Proficiency: 65,
			},
			{
				Title:       "UI/UX Design",
				Skills:      []string{"Figma", "Adobe XD", "Wireframing", "Responsive Design", "User Flows", "Prototyping"},
				Proficiency: 80,
			},
			{
				Title:       "Tools",
				Skills:      []string{"Git", "GitHub", "VS Code", "Firebase"},
				Proficiency: 75,
			},
		},
		Projects: []model.Project{
			{
				Name:        ProjectAnonymousChat,
				Description: "AI-powered anonymous chat app with a built-in assistant and privacy features.",
				Tags:        []string{"React", "AI Integration", "Tailwind CSS"},
				DemoURL:     "https://anon-chat-pi.vercel.app/",
				SourceURL:   "https://github.com/MrBanoth/Anon-Chat",
				Aliases:     []string{"anonymous", "anon", "chat app", "anonymous chat"},
			},
			{
				Name:        ProjectPopcornTV,
				Description: "Netflix-inspired streaming platform built with Next.js and TypeScript: browse movies, watch trailers and save favorites.",
				Tags:        []string{"Next.js", "TypeScript", "Tailwind CSS"},
				DemoURL:     "https://pop-corn-tv.vercel.app/browse",
				SourceURL:   "https://github.com/MrBanoth/PopCorn-Tv",
				Aliases:     []string{"popcorn", "popcorntv", "netflix", "tv", "streaming"},
			},
			{
				Name:        ProjectPaniMr,
				Description: "Actor portfolio website showcasing talent and performances with smooth animations.",
				Tags:        []string{"React", "JavaScript", "CSS"},
				DemoURL:     "https://1st-client-project.vercel.app/",
				SourceURL:   "https://github.com/MrBanoth/FoodBite",
				Aliases:     []string{"pani", "pani.mr", "actor", "portfolio site", "actor portfolio"},
			},
			{
				Name:        ProjectBusinessSite,
				Description: "Business website for an insulation company featuring services, portfolio and contact information.",
				Tags:        []string{"HTML", "CSS", "JavaScript"},
				DemoURL:     "https://https-github-com-mr-naik-011-shri-lakshmi-sai-insulation.vercel.app/",
				SourceURL:   "https://github.com/MrBanoth/https-github.com-MrNaik-011-Shri-Lakshmi-Sai-Insulation",
				Aliases:     []string{"business", "insulation", "lakshmi", "sai"},
			},
		},
		Contact: model.Contact{
			Email:    "sandeepnaikb0@gmail.com",
			Phone:    "+91-9390730129",
			GitHub:   "https://github.com/MrBanoth",
			LinkedIn: "https://www.linkedin.com/in/sandeep-naik-1316712a9/",
		},
	}
}

// MustProject returns the named project or panics. It is only used while
// building static tables at start-up.
func MustProject(kb *model.KnowledgeBase, name string) model.Project {
	p, ok := kb.Project(name)
	if !ok {
		panic("knowledge: unknown project " + name)
	}
	return p
}
