package compose

// Phrase tables. Index 0 of every table is the deterministic choice.

var skillLeads = []string{
	"Expert in",
	"Specialized in",
	"Proficient in",
	"Strong background in",
}

var experiencePoints = []string{
	"Proven track record with similar projects",
	"Extensive experience in related projects",
	"Successfully completed similar work",
	"Strong portfolio of relevant projects",
}

var portfolioPoints = []string{
	"Relevant portfolio demonstrating expertise",
	"Portfolio showcasing similar projects",
	"Examples of successful implementations",
	"Demonstrated results in past work",
}

// rate formats take the hourly rate.
var ratePoints = []string{
	"Competitive rate at $%s/hour",
	"Fair pricing at $%s/hour",
	"Reasonable rate of $%s/hour",
	"Cost-effective at $%s/hour",
}

var availabilityPoints = []string{
	"Available to start immediately",
	"Ready to begin right away",
	"Can start working today",
	"Immediate availability for project",
}

// opening formats take the job title.
var openings = []string{
	"I've carefully reviewed your %s requirements and understand exactly what you need.",
	"Your %s project caught my attention because it aligns perfectly with my expertise.",
	"I noticed your %s posting and I'm confident I can deliver exactly what you're looking for.",
	"After reading your %s requirements, I'm excited to help you achieve your goals.",
}

type focusFamily struct {
	keywords []string
	lines    []string
}

// focusFamilies are checked in order; the first family with a keyword found
// in the job description wins.
var focusFamilies = []focusFamily{
	{
		keywords: []string{"bug", "fix", "error"},
		lines: []string{
			"I specialize in debugging and fixing complex issues quickly and efficiently.",
			"I excel at identifying and resolving technical problems with minimal downtime.",
			"My expertise lies in troubleshooting and implementing lasting solutions.",
		},
	},
	{
		keywords: []string{"build", "develop", "create"},
		lines: []string{
			"I excel at building robust, scalable solutions from the ground up.",
			"I specialize in creating high-quality applications that meet business objectives.",
			"I focus on developing efficient, maintainable solutions that scale with your needs.",
		},
	},
	{
		keywords: []string{"improve", "optimize", "enhance"},
		lines: []string{
			"I focus on optimizing and enhancing existing systems for better performance.",
			"I specialize in improving application performance and user experience.",
			"I excel at refactoring and optimizing code for maximum efficiency.",
		},
	},
}

var genericFocus = []string{
	"I deliver high-quality solutions tailored to your specific requirements.",
	"I provide custom solutions that address your unique business challenges.",
	"I focus on creating solutions that drive real business value.",
}

// skilled approach formats take the comma separated matching skills.
var skilledApproaches = []string{
	"My approach using %s will ensure:",
	"Leveraging %s, I'll deliver:",
	"Using my expertise in %s, you can expect:",
}

var plainApproaches = []string{
	"My development approach will ensure:",
	"My proven methodology delivers:",
	"You can expect:",
}

var closings = []string{
	"Would you like to discuss the specific technical challenges and my proposed solution?",
	"I'd love to discuss how I can help you achieve your project goals.",
	"Let's schedule a call to discuss your requirements in detail.",
	"I'm ready to start immediately - when can we begin?",
}
