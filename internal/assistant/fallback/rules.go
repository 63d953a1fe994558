package fallback

import (
	"fmt"

	"github.com/portfolio-assistant/server/internal/assistant/knowledge"
	"github.com/portfolio-assistant/server/internal/assistant/model"
)

// Rule names, in evaluation order.
const (
	RuleGreeting      = "greeting"
	RulePopcornTV     = "popcorntv"
	RuleAnonymousChat = "anonymous_chat"
	RuleActorSite     = "actor_portfolio"
	RuleBusinessSite  = "business_site"
	RuleGitHub        = "github"
	RuleResume        = "resume"
	RuleProjects      = "projects"
	RuleSkills        = "skills"
	RuleContact       = "contact"
	RuleLocation      = "location"
	RuleEducation     = "education"
	RuleHobbies       = "hobbies"
	RuleThanks        = "thanks"
	RuleGoodbye       = "goodbye"
	RuleServices      = "services"
	RulePricing       = "pricing"
	RuleTimeline      = "timeline"
	RuleProcess       = "process"
	RuleDifferent     = "differentiation"
	RuleRemote        = "remote_work"
	RuleExperience    = "experience"
	RuleLanguages     = "languages"
	RuleResponsive    = "responsive"
	RulePayment       = "payment"
)

// BuildRules renders the ordered rule table from the knowledge base.
// Specific project rules precede the generic projects rule so that a named
// project always wins over the word "project".
func BuildRules(kb *model.KnowledgeBase) []model.FallbackRule {
	name := kb.Profile.Nickname
	popcorn := knowledge.MustProject(kb, knowledge.ProjectPopcornTV)
	anon := knowledge.MustProject(kb, knowledge.ProjectAnonymousChat)
	pani := knowledge.MustProject(kb, knowledge.ProjectPaniMr)
	business := knowledge.MustProject(kb, knowledge.ProjectBusinessSite)

	return []model.FallbackRule{
		{
			Name:     RuleGreeting,
			Keywords: []string{"hi", "hello", "hey", "hiya", "greetings", "namaste", "good morning", "good evening"},
			Text: fmt.Sprintf("Hey there! 👋 So happy you're chatting with me! How can I brighten your day? "+
				"Want to see %s's cool projects or learn about his awesome skills? 😊", name),
			Actions: []model.Action{model.Navigate(model.SectionProjects, "🚀 See Projects")},
		},
		{
			Name:     RulePopcornTV,
			Keywords: popcorn.Aliases,
			Text: "PopcornTV is so cool! 🎬 It's a Netflix-inspired streaming platform built with Next.js and TypeScript. " +
				"You can browse movies, watch trailers, and save your favorites! Want to check it out? 🍿",
			Actions: []model.Action{model.Link(popcorn.DemoURL, "🍿 View PopcornTV")},
		},
		{
			Name:     RuleAnonymousChat,
			Keywords: anon.Aliases,
			Text: "Anonymous Chat is an AI-powered chat app where people can talk freely with privacy built in! 🚀 " +
				"It even has a friendly assistant living inside it. Give it a spin! 💬",
			Actions: []model.Action{model.Link(anon.DemoURL, "💬 Anonymous Chat")},
		},
		{
			Name:     RuleActorSite,
			Keywords: pani.Aliases,
			Text: fmt.Sprintf("The actor portfolio for Pani.Mr is one of %s's favorite projects! 🎭 "+
				"It showcases the actor's work in a beautiful, modern design with smooth animations. Take a peek! ✨", name),
			Actions: []model.Action{model.Link(pani.DemoURL, "🎭 Actor Portfolio")},
		},
		{
			Name:     RuleBusinessSite,
			Keywords: business.Aliases,
			Text: fmt.Sprintf("The %s website is a perfect example of %s's business website skills! 🏢 "+
				"It's professional, informative, and beautifully designed to showcase their services! 💼", business.Name, name),
			Actions: []model.Action{model.Link(business.DemoURL, "🏢 Business Site")},
		},
		{
			Name:     RuleGitHub,
			Keywords: []string{"github", "open source", "repo", "repository", "source code"},
			Text: fmt.Sprintf("%s loves open source and shares his code on GitHub! 🚀 "+
				"You can explore all his awesome projects there - from websites to apps and experiments! Check it out! 🌟", name),
			Actions: []model.Action{model.Link(kb.Contact.GitHub, "💻 GitHub Profile")},
		},
		{
			Name:     RuleResume,
			Keywords: []string{"resume", "cv", "experience letter"},
			Text: fmt.Sprintf("%s's resume showcases his skills, education, and projects in a clean, professional format! 📝 "+
				"You can find it in the About section - just a click away! 👌", name),
			Actions: []model.Action{model.Navigate(model.SectionAbout, "📝 View Resume")},
		},
		{
			Name:     RuleProjects,
			Keywords: []string{"project", "work", "portfolio", "showcase", "built"},
			Text: fmt.Sprintf("Ooh, great question! 🚀 %s has created some super cool projects! "+
				"There's PopcornTV (a Netflix-style app), an AI chat app, and beautiful websites for clients. "+
				"Each one shows off his amazing frontend skills! Want to see them? 👀", name),
			Actions: []model.Action{
				model.Navigate(model.SectionProjects, "🚀 See Projects"),
				model.Link(popcorn.DemoURL, "🎬 PopcornTV"),
			},
		},
		{
			Name:     RuleSkills,
			Keywords: []string{"skill", "tech", "technology", "technologies", "stack", "framework", "react", "typescript"},
			Text: fmt.Sprintf("%s's tech toolkit is pretty impressive! ⚡ He wields React, TypeScript, and Next.js like a pro, "+
				"creates stunning designs with Figma, and crafts beautiful UIs with TailwindCSS. "+
				"He's basically a frontend wizard! ✨🧙‍♂️", name),
			Actions: []model.Action{model.Navigate(model.SectionSkills, "💻 View Skills")},
		},
		{
			Name:     RuleContact,
			Keywords: []string{"contact", "hire", "email", "mail", "reach", "whatsapp", "phone", "call"},
			Text: fmt.Sprintf("Want to reach out to %s? Awesome! 📱 Drop him a line at %s or send a WhatsApp to %s. "+
				"He's available for exciting projects and would love to hear from you! 💌",
				name, kb.Contact.Email, kb.Contact.Phone),
			Actions: []model.Action{model.Navigate(model.SectionContact, "📱 Contact Info")},
		},
		{
			Name:     RuleLocation,
			Keywords: []string{"location", "where", "based", "live", "city", "country"},
			Text: fmt.Sprintf("%s is currently in sunny %s! 🌞 But don't worry about location - "+
				"he works with clients worldwide and loves connecting with people from everywhere! 🌎", name, kb.Profile.Location),
		},
		{
			Name:     RuleEducation,
			Keywords: []string{"education", "study", "studying", "degree", "college", "university", "student"},
			Text: fmt.Sprintf("%s is earning his %s! 🎓 He's combining his academic knowledge with hands-on projects "+
				"to become an even more amazing developer! 📚✨", name, kb.Profile.Education),
			Actions: []model.Action{model.Navigate(model.SectionAbout, "🎓 About Me")},
		},
		{
			Name:     RuleHobbies,
			Keywords: []string{"hobby", "hobbies", "free time", "like to do", "fun"},
			Text: fmt.Sprintf("When %s isn't coding amazing websites, he enjoys exploring new tech, designing UI concepts, "+
				"and staying updated with the latest web development trends! 🚀 "+
				"He's passionate about creating beautiful digital experiences! ✨", name),
		},
		{
			Name:     RuleThanks,
			Keywords: []string{"thanks", "thank you", "thx", "appreciate"},
			Text: "You're very welcome! 💖 It's been my pleasure chatting with you! " +
				"If you need anything else, just ask - I'm here to help! ✨",
		},
		{
			Name:     RuleGoodbye,
			Keywords: []string{"bye", "goodbye", "see you", "later"},
			Text: fmt.Sprintf("Bye for now! 👋 Thanks for chatting! Hope to see you again soon. "+
				"Feel free to reach out anytime you want to know more about %s's work! ✨", name),
		},
		{
			Name:     RuleServices,
			Keywords: []string{"service", "offer", "provide"},
			Text: fmt.Sprintf("%s offers amazing web development services! 🌐 He specializes in building responsive websites, "+
				"web applications, and stunning UI/UX designs using modern technologies like React and Next.js! "+
				"What kind of project are you thinking about? 💻", name),
			Actions: []model.Action{model.Navigate(model.SectionContact, "💬 Discuss a Project")},
		},
		{
			Name:     RulePricing,
			Keywords: []string{"cost", "price", "pricing", "charge", "fee", "fees", "rate", "rates", "budget", "quote"},
			Text: fmt.Sprintf("Great question about pricing! 💰 %s's rates depend on your specific project needs and scope. "+
				"He offers competitive pricing and focuses on delivering high-quality work that brings real value! "+
				"Reach out for a personalized quote! 📝", name),
			Actions: []model.Action{model.Navigate(model.SectionContact, "💸 Get a Quote")},
		},
		{
			Name:     RuleTimeline,
			Keywords: []string{"time", "long", "timeline", "deadline", "duration", "weeks"},
			Text: fmt.Sprintf("Wondering about timelines? ⏰ Most of %s's projects take around 2-4 weeks from start to finish, "+
				"depending on complexity and scope! He's known for delivering quality work on schedule! 📅 "+
				"Have a specific deadline in mind? 🙋‍♂️", name),
			Actions: []model.Action{model.Navigate(model.SectionContact, "📅 Discuss Timeline")},
		},
		{
			Name:     RuleProcess,
			Keywords: []string{"process", "workflow", "approach", "methodology"},
			Text: fmt.Sprintf("%s follows a thoughtful development process! 📝 First, he'll understand your requirements, "+
				"then create designs for your approval, followed by development, testing, and finally deployment! "+
				"He keeps you in the loop every step of the way! 💡", name),
		},
		{
			Name:     RuleDifferent,
			Keywords: []string{"different", "special", "unique", "stand out", "why you", "why choose"},
			Text: fmt.Sprintf("What makes %s special? ✨ His combination of technical skills AND design expertise means "+
				"you get both beautiful AND functional websites! Plus, he's super responsive, detail-oriented, "+
				"and passionate about creating the perfect solution for each client! 👏", name),
		},
		{
			Name:     RuleRemote,
			Keywords: []string{"remote", "remotely", "online", "distance", "worldwide"},
			Text: fmt.Sprintf("Good news! 🎉 %s works remotely with clients from all around the world! "+
				"With tools like Zoom, Slack, and email, distance is never an issue. "+
				"He maintains clear communication throughout your project, no matter where you're located! 🌎", name),
		},
		{
			Name:     RuleExperience,
			Keywords: []string{"experience", "how long", "years", "background"},
			Text: fmt.Sprintf("%s has %s! 💻 During this time, he's worked on a variety of projects "+
				"from streaming platforms to business websites, continuously improving his skills along the way! 📈",
				name, kb.Profile.Experience),
			Actions: []model.Action{model.Navigate(model.SectionProjects, "💼 See Experience")},
		},
		{
			Name:     RuleLanguages,
			Keywords: []string{"language", "speak", "hindi", "telugu", "english"},
			Text: fmt.Sprintf("%s is fluent in %s! 🌎 This multilingual ability helps him communicate effectively "+
				"with clients from various backgrounds. Which language are you most comfortable with? 😀",
				name, joinList(kb.Profile.Languages)),
		},
		{
			Name:     RuleResponsive,
			Keywords: []string{"responsive", "mobile", "device", "tablet"},
			Text: fmt.Sprintf("Absolutely! 📱 %s creates fully responsive websites that look amazing on all devices - "+
				"from desktop to tablets to mobile phones! He believes great user experience shouldn't be limited "+
				"to just one screen size! 💻✨", name),
		},
		{
			Name:     RulePayment,
			Keywords: []string{"payment", "pay", "invoice", "deposit"},
			Text: fmt.Sprintf("For payments, %s offers flexible options including bank transfers and digital payments! 💳 "+
				"He typically works with a 50%% upfront deposit and the remaining 50%% upon project completion. "+
				"Need a different arrangement? Just ask! 🙋‍♂️", name),
			Actions: []model.Action{model.Navigate(model.SectionContact, "💰 Payment Info")},
		},
	}
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := ""
	for i, it := range items {
		switch {
		case i == 0:
			out = it
		case i == len(items)-1:
			out += ", and " + it
		default:
			out += ", " + it
		}
	}
	return out
}
