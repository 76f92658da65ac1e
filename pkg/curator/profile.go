package curator

import (
	"fmt"
	"strings"
)

// Preferences tune the heuristic ranking stage.
type Preferences struct {
	PreferPractical      bool `yaml:"prefer_practical"`
	PreferSystemDesign   bool `yaml:"prefer_system_design"`
	PreferImplementation bool `yaml:"prefer_implementation_details"`
	PreferProductionReal bool `yaml:"prefer_production_realism"`
	AvoidMarketingHype   bool `yaml:"avoid_marketing_hype"`
	AvoidTheoreticalOnly bool `yaml:"avoid_theoretical_only_content"`
}

// Profile describes the digest reader. It drives both the heuristic
// pre-rank and the LLM scoring prompt.
type Profile struct {
	Name           string      `yaml:"name"`
	Title          string      `yaml:"title"`
	Background     string      `yaml:"background"`
	ExpertiseLevel string      `yaml:"expertise_level"`
	Interests      []string    `yaml:"interests"`
	Preferences    Preferences `yaml:"preferences"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:  "Rachit",
		Title: "Applied AI Engineer",
		Background: "Applied AI engineer with hands-on experience building backend pipelines, " +
			"LLM-driven systems, and production-focused AI solutions. " +
			"Strong interest in turning research ideas into reliable, scalable systems.",
		ExpertiseLevel: "Intermediate to Advanced",
		Interests: []string{
			"Large Language Models (LLMs) in real-world applications",
			"Retrieval-Augmented Generation (RAG) systems",
			"LLM orchestration and agent-based architectures",
			"Backend systems for AI applications",
			"Production deployment of AI models",
			"Model evaluation, reliability, and performance tuning",
			"AI system design and end-to-end pipelines",
			"Practical research with engineering impact",
			"AI infrastructure, scalability, and cost optimization",
			"Learning from real production failures and case studies",
		},
		Preferences: Preferences{
			PreferPractical:      true,
			PreferSystemDesign:   true,
			PreferImplementation: true,
			PreferProductionReal: true,
			AvoidMarketingHype:   true,
			AvoidTheoreticalOnly: true,
		},
	}
}

// Render formats the profile for the scoring prompt.
func (p Profile) Render() string {
	return fmt.Sprintf("Name: %s\nBackground: %s\nExpertise Level: %s\nInterests: %s",
		p.Name, p.Background, p.ExpertiseLevel, strings.Join(p.Interests, ", "))
}
