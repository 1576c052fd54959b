package counselor

import (
	"sort"
	"strings"
)

// Organization describes the supporting organization.
type Organization struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Mission string `json:"mission"`
	Vision  string `json:"vision"`
}

// KnowledgeBase holds the static support content: organization identity,
// topic guidance, services, resources and FAQs.
type KnowledgeBase struct {
	Organization Organization
	Topics       []string
	TopicInfo    map[string]string
	Services     map[string]string
	Resources    map[string]string
	FAQs         map[string]string
}

func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		Organization: Organization{
			Name:    "EneHealths",
			Website: "https://enehealths.org",
			Mission: "To provide accessible mental health resources and support to all individuals.",
			Vision:  "A world where mental health care is accessible, stigma-free, and integrated into everyday life.",
		},
		Topics: []string{
			"anxiety", "depression", "stress management", "trauma",
			"self-care", "mindfulness", "therapy options", "medication",
			"crisis support", "support groups", "wellness", "resilience",
			"grief", "insomnia",
		},
		TopicInfo: map[string]string{
			"anxiety":           "Anxiety is a normal emotion that can cause feelings of worry, fear, or tension. When these feelings become excessive, it may be an anxiety disorder. Treatment options include therapy, medication, and self-care practices.",
			"depression":        "Depression is a common but serious mood disorder that causes persistent feelings of sadness and loss of interest. Treatment typically includes therapy, medication, or a combination of both.",
			"stress management": "Stress management encompasses techniques to cope with and reduce stress. Effective strategies include regular exercise, relaxation techniques, maintaining social connections, and practicing self-care.",
			"grief":             "Grief is a natural response to loss. There is no single timeline for grieving, and support from loved ones, support groups, or a counselor can help you process it at your own pace.",
			"insomnia":          "Insomnia involves difficulty falling or staying asleep. Consistent sleep routines, limiting screens before bed, and relaxation techniques can help; persistent insomnia is worth discussing with a professional.",
		},
		Services: map[string]string{
			"counseling":          "Individual and group counseling services",
			"assessment":          "Mental health assessments and screening",
			"referrals":           "Referrals to specialized mental health providers",
			"education":           "Mental health education and workshops",
			"support_groups":      "Peer support groups for various mental health concerns",
			"crisis_intervention": "Crisis intervention and support",
		},
		Resources: map[string]string{
			"articles":   "Evidence-based articles on mental health topics",
			"videos":     "Educational videos about mental health",
			"worksheets": "Self-help worksheets and exercises",
			"apps":       "Recommended mental health apps and digital tools",
			"books":      "Recommended reading on mental health topics",
			"community":  "Online community forums for peer support",
		},
		FAQs: map[string]string{
			"what_is_therapy":       "Therapy is a collaborative treatment based on the relationship between an individual and a mental health professional.",
			"how_to_find_therapist": "You can find a therapist through your insurance provider, referrals from healthcare providers, or community mental health centers.",
			"therapy_cost":          "The cost of therapy varies based on location, therapist credentials, and insurance coverage.",
			"crisis_help":           "If you're experiencing a mental health crisis, contact emergency services (911) or call the 988 Suicide & Crisis Lifeline.",
		},
	}
}

// AboutResponse summarises the organization's mission and vision.
func (kb *KnowledgeBase) AboutResponse() string {
	org := kb.Organization
	var b strings.Builder
	b.WriteString(org.Name + " is a mental health organization dedicated to " + org.Mission + "\n\n")
	b.WriteString("Our vision is " + org.Vision + "\n\n")
	b.WriteString("You can learn more at " + org.Website)
	return b.String()
}

// ServicesResponse lists the offered services.
func (kb *KnowledgeBase) ServicesResponse() string {
	var b strings.Builder
	b.WriteString("EneHealths offers the following mental health services:\n\n")

	names := make([]string, 0, len(kb.Services))
	for name := range kb.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString("- " + titleCase(name) + ": " + kb.Services[name] + "\n")
	}
	return b.String()
}

// TopicResponse returns guidance for a topic, falling back to a generic
// pointer at the organization's resources.
func (kb *KnowledgeBase) TopicResponse(topic string) string {
	info, ok := kb.TopicInfo[topic]
	if !ok {
		info = "EneHealths provides resources, education, and support for individuals dealing with " + topic + "."
	}
	return "Information about " + topic + ":\n\n" + info
}

// MatchTopic returns the first known topic contained in the text.
func (kb *KnowledgeBase) MatchTopic(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, topic := range kb.Topics {
		if strings.Contains(lower, topic) {
			return topic, true
		}
	}
	return "", false
}

// MatchFAQ returns the answer whose underscore-joined keywords all appear
// in the text.
func (kb *KnowledgeBase) MatchFAQ(text string) (string, bool) {
	lower := strings.ToLower(text)

	keys := make([]string, 0, len(kb.FAQs))
	for key := range kb.FAQs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		all := true
		for _, kw := range strings.Split(key, "_") {
			if !strings.Contains(lower, kw) {
				all = false
				break
			}
		}
		if all {
			return kb.FAQs[key], true
		}
	}
	return "", false
}

func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
