package counselor

import (
	"sort"
	"strings"
)

// ContentScreen detects sensitive topics and crisis language in user
// input. Crisis always takes precedence over merely sensitive content.
type ContentScreen struct {
	SensitiveTopics []string
	CrisisKeywords  []string
	Resources       map[string]string
}

func DefaultSensitiveTopics() []string {
	return []string{
		"suicide", "self-harm", "abuse", "trauma",
		"eating disorders", "addiction", "crisis",
	}
}

func DefaultCrisisKeywords() []string {
	return []string{
		"kill myself", "end my life", "suicide", "hurt myself",
		"self-harm", "die", "don't want to live", "emergency",
	}
}

func DefaultSupportResources() map[string]string {
	return map[string]string{
		"crisis":   "988 Suicide & Crisis Lifeline (call or text 988)",
		"text":     "Text HOME to 741741 to reach Crisis Text Line",
		"veterans": "Veterans Crisis Line: 1-800-273-8255 and Press 1",
		"general":  "SAMHSA's National Helpline: 1-800-662-HELP (4357)",
	}
}

func NewContentScreen() *ContentScreen {
	return &ContentScreen{
		SensitiveTopics: DefaultSensitiveTopics(),
		CrisisKeywords:  DefaultCrisisKeywords(),
		Resources:       DefaultSupportResources(),
	}
}

// Screen checks the text for sensitive topics and crisis keywords.
// Matching is case-insensitive substring matching.
func (s *ContentScreen) Screen(text string) (sensitive, crisis bool, topics []string) {
	lower := strings.ToLower(text)
	for _, topic := range s.SensitiveTopics {
		if strings.Contains(lower, topic) {
			topics = append(topics, topic)
		}
	}
	sensitive = len(topics) > 0
	for _, kw := range s.CrisisKeywords {
		if strings.Contains(lower, kw) {
			crisis = true
			break
		}
	}
	return sensitive, crisis, topics
}

// CrisisResponse lists every support resource and directs the user to
// emergency services.
func (s *ContentScreen) CrisisResponse() string {
	var b strings.Builder
	b.WriteString("I notice you may be experiencing a crisis. Your well-being is important, and immediate support is available.\n\n")
	b.WriteString("Please consider these resources:\n")

	names := make([]string, 0, len(s.Resources))
	for name := range s.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("- " + s.Resources[name] + "\n")
	}

	b.WriteString("\nIf you're in immediate danger, please call emergency services (911) or go to your nearest emergency room.")
	return b.String()
}

// SensitiveResponse acknowledges the first detected topic with a careful
// framing.
func (s *ContentScreen) SensitiveResponse(topic string) string {
	var b strings.Builder
	b.WriteString("I understand you're asking about " + topic + ", which is an important mental health concern. ")
	b.WriteString("I want to provide helpful information while acknowledging that everyone's experience is unique.\n\n")
	b.WriteString("EneHealths offers resources and support for individuals dealing with this issue. ")
	b.WriteString("Speaking with a mental health professional can provide personalized support.")
	return b.String()
}
