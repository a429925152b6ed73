package textproc

import "strings"

// TechnicalSkills lists the languages, frameworks and tools recognised in text.
var TechnicalSkills = []string{
	"python", "java", "javascript", "html", "css", "sql", "r", "c++", "c#",
	"react", "angular", "vue", "node", "django", "flask", "spring",
	"aws", "azure", "gcp", "docker", "kubernetes", "git", "jenkins",
	"tableau", "powerbi", "excel", "photoshop", "illustrator",
	"machine learning", "data science", "artificial intelligence",
	"project management", "agile", "scrum", "devops", "ci/cd",
}

// SoftSkills lists the interpersonal competencies recognised in text.
var SoftSkills = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"analytical", "creative", "detail oriented", "time management",
	"adaptability", "collaboration", "customer service", "presentations",
}

// ExtractSkills returns every vocabulary skill that occurs as a substring of
// the cleaned text, in vocabulary order. No word-boundary check is applied, so
// short terms such as "r" match inside longer words.
func ExtractSkills(text string) []string {
	cleaned := Clean(text)
	found := make([]string, 0, 8)
	if cleaned == "" {
		return found
	}
	for _, vocab := range [][]string{TechnicalSkills, SoftSkills} {
		for _, skill := range vocab {
			if strings.Contains(cleaned, skill) {
				found = append(found, skill)
			}
		}
	}
	return found
}
