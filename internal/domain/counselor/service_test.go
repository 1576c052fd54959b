package counselor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *Service {
	svc := NewService(
		NewSessionRepoMem(),
		NewHallucinationDetector(0.8),
		NewContentScreen(),
		NewKnowledgeBase(),
		DefaultThoughtCapacity,
	)
	svc.SetClock(func() time.Time {
		return time.Date(2023, 9, 20, 10, 0, 0, 0, time.UTC)
	})
	return svc
}

func respond(t *testing.T, svc *Service, sess *Session, input string) *Message {
	t.Helper()
	reply, err := svc.Respond(context.Background(), sess.ID, input)
	if err != nil {
		t.Fatalf("Respond(%q): %v", input, err)
	}
	return reply
}

func TestRespondCrisis(t *testing.T) {
	svc := newTestService()
	sess, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	reply := respond(t, svc, sess, "Sometimes I feel like I want to hurt myself")
	if reply.Kind != KindCrisis {
		t.Errorf("kind = %q, want crisis", reply.Kind)
	}
	if !strings.Contains(reply.Text, "988") {
		t.Errorf("crisis reply missing lifeline: %q", reply.Text)
	}
}

func TestRespondSensitive(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.StartSession(context.Background())

	reply := respond(t, svc, sess, "I experienced trauma in my childhood")
	if reply.Kind != KindSensitive {
		t.Errorf("kind = %q, want sensitive", reply.Kind)
	}
	if !strings.Contains(reply.Text, "trauma") {
		t.Errorf("reply does not name the topic: %q", reply.Text)
	}
}

func TestRespondHallucination(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.StartSession(context.Background())

	reply := respond(t, svc, sess, "I heard this supplement is a miracle for anxiety symptoms")
	// "anxiety" is a knowledge topic but the misleading-claim check runs
	// first among non-sensitive branches; "miracle" wins here.
	if reply.Kind != KindHallucination {
		t.Errorf("kind = %q, want hallucination", reply.Kind)
	}
	if !strings.Contains(reply.Text, "miracle") {
		t.Errorf("reply missing matched phrase: %q", reply.Text)
	}
}

func TestRespondPriorityCrisisOverHallucination(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.StartSession(context.Background())

	reply := respond(t, svc, sess, "They said this cure would help but I want to end my life")
	if reply.Kind != KindCrisis {
		t.Errorf("kind = %q, want crisis", reply.Kind)
	}
}

func TestRespondKnowledge(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.StartSession(context.Background())

	tests := []struct {
		input string
		want  string
	}{
		{"What is EneHealths?", "mental health organization"},
		{"What services do you offer?", "Counseling"},
		{"I'm feeling anxious all the time, is that anxiety?", "Anxiety is a normal emotion"},
		{"I can't sleep, I think I have insomnia", "Insomnia involves difficulty"},
		{"My grandmother passed away and the grief is heavy", "Grief is a natural response"},
		{"what is therapy exactly", "collaborative treatment"},
	}
	for _, tt := range tests {
		reply := respond(t, svc, sess, tt.input)
		if reply.Kind != KindKnowledge {
			t.Errorf("Respond(%q) kind = %q, want knowledge", tt.input, reply.Kind)
		}
		if !strings.Contains(reply.Text, tt.want) {
			t.Errorf("Respond(%q) = %q, want substring %q", tt.input, reply.Text, tt.want)
		}
	}
}

func TestRespondDefault(t *testing.T) {
	svc := newTestService()
	sess, _ := svc.StartSession(context.Background())

	reply := respond(t, svc, sess, "hello there")
	if reply.Kind != KindDefault {
		t.Errorf("kind = %q, want default", reply.Kind)
	}
	if !strings.Contains(reply.Text, "How can I assist you today?") {
		t.Errorf("unexpected default reply: %q", reply.Text)
	}
}

func TestRespondRecordsTranscriptAndThoughts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sess, _ := svc.StartSession(ctx)

	respond(t, svc, sess, "hello there")

	got, err := svc.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != RoleUser || got.Messages[1].Role != RoleCounselor {
		t.Errorf("unexpected roles: %q, %q", got.Messages[0].Role, got.Messages[1].Role)
	}

	thoughts, err := svc.SessionThoughts(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(thoughts) != 2 {
		t.Fatalf("thoughts = %v", thoughts)
	}
	if thoughts[0] != "Received input: hello there" {
		t.Errorf("first thought = %q", thoughts[0])
	}
	if thoughts[1] != "Processing regular input" {
		t.Errorf("second thought = %q", thoughts[1])
	}
}

func TestGetSessionReturnsIsolatedCopy(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	sess, _ := svc.StartSession(ctx)

	respond(t, svc, sess, "hello there")

	got, err := svc.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.Messages[0].Text = "rewritten"
	got.Messages = append(got.Messages, Message{Role: RoleUser, Text: "stray"})

	again, err := svc.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Messages) != 2 {
		t.Fatalf("stored transcript length = %d, want 2", len(again.Messages))
	}
	if again.Messages[0].Text != "hello there" {
		t.Errorf("stored message changed to %q", again.Messages[0].Text)
	}
}

func TestRespondUnknownSession(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Respond(context.Background(), uuid.New(), "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMissionVision(t *testing.T) {
	svc := newTestService()
	mission, vision := svc.MissionVision()
	if !strings.Contains(mission, "accessible mental health resources") {
		t.Errorf("mission = %q", mission)
	}
	if !strings.Contains(vision, "stigma-free") {
		t.Errorf("vision = %q", vision)
	}
}
