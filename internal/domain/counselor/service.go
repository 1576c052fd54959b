package counselor

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	sessions   SessionRepository
	detector   *HallucinationDetector
	screen     *ContentScreen
	kb         *KnowledgeBase
	thoughtCap int
	now        func() time.Time
}

func NewService(sessions SessionRepository, detector *HallucinationDetector, screen *ContentScreen, kb *KnowledgeBase, thoughtCapacity int) *Service {
	if thoughtCapacity <= 0 {
		thoughtCapacity = DefaultThoughtCapacity
	}
	return &Service{
		sessions:   sessions,
		detector:   detector,
		screen:     screen,
		kb:         kb,
		thoughtCap: thoughtCapacity,
		now:        time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// StartSession opens a new support conversation.
func (s *Service) StartSession(ctx context.Context) (*Session, error) {
	sess := NewSession(s.thoughtCap)
	sess.StartedAt = s.now()
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	return s.sessions.List(ctx, limit, offset)
}

// SessionThoughts returns the reasoning trail for a session, oldest first.
func (s *Service) SessionThoughts(ctx context.Context, id uuid.UUID) ([]string, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Thoughts().Entries(), nil
}

// MissionVision returns the organization's mission and vision statements.
func (s *Service) MissionVision() (string, string) {
	return s.kb.Organization.Mission, s.kb.Organization.Vision
}

// Respond appends the user message to the session, classifies it and
// produces a reply. Checks run in strict priority order: crisis, then
// sensitive topics, then misleading medical claims, then knowledge
// lookup, then the default prompt.
func (s *Service) Respond(ctx context.Context, sessionID uuid.UUID, input string) (*Message, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Thoughts().Add("Received input: " + input)
	sess.Messages = append(sess.Messages, Message{
		Role:      RoleUser,
		Text:      input,
		Timestamp: s.now(),
	})

	text, kind := s.classify(sess, input)

	reply := Message{
		Role:      RoleCounselor,
		Text:      text,
		Kind:      kind,
		Timestamp: s.now(),
	}
	sess.Messages = append(sess.Messages, reply)
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Service) classify(sess *Session, input string) (string, string) {
	sensitive, crisis, topics := s.screen.Screen(input)

	if crisis {
		sess.Thoughts().Add("Detected crisis situation, providing emergency resources")
		return s.screen.CrisisResponse(), KindCrisis
	}

	if sensitive {
		sess.Thoughts().Add("Detected sensitive topic, providing careful response")
		return s.screen.SensitiveResponse(topics[0]), KindSensitive
	}

	if flagged, finding := s.detector.Check(input); flagged {
		sess.Thoughts().Add("Potential hallucination detected: " + finding.Explanation)
		return s.hallucinationResponse(finding), KindHallucination
	}

	sess.Thoughts().Add("Processing regular input")
	return s.knowledgeResponse(input)
}

func (s *Service) hallucinationResponse(finding Finding) string {
	return "I want to make sure I provide accurate information. " +
		finding.Explanation +
		" I can help you find reliable information about mental health topics from EneHealths."
}

var aboutKeywords = []string{"who are you", "about enehealths", "what is enehealths"}
var serviceKeywords = []string{"services", "help", "support", "offer"}

func (s *Service) knowledgeResponse(input string) (string, string) {
	lower := strings.ToLower(input)

	for _, kw := range aboutKeywords {
		if strings.Contains(lower, kw) {
			return s.kb.AboutResponse(), KindKnowledge
		}
	}

	for _, kw := range serviceKeywords {
		if strings.Contains(lower, kw) {
			return s.kb.ServicesResponse(), KindKnowledge
		}
	}

	if topic, ok := s.kb.MatchTopic(lower); ok {
		return s.kb.TopicResponse(topic), KindKnowledge
	}

	if answer, ok := s.kb.MatchFAQ(lower); ok {
		return answer, KindKnowledge
	}

	return "I'm here to provide information about mental health and EneHealths services. How can I assist you today?", KindDefault
}
