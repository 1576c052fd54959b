package counselor

import (
	"strings"
	"testing"
)

func TestScreenDetectsCrisis(t *testing.T) {
	s := NewContentScreen()

	sensitive, crisis, topics := s.Screen("I've been thinking about suicide a lot lately")
	if !sensitive || !crisis {
		t.Errorf("sensitive = %v crisis = %v, want both true", sensitive, crisis)
	}
	if len(topics) == 0 || topics[0] != "suicide" {
		t.Errorf("topics = %v", topics)
	}
}

func TestScreenDetectsSensitiveWithoutCrisis(t *testing.T) {
	s := NewContentScreen()

	sensitive, crisis, topics := s.Screen("I experienced trauma in my childhood")
	if !sensitive {
		t.Error("trauma not detected as sensitive")
	}
	if crisis {
		t.Error("trauma alone reported as crisis")
	}
	if len(topics) != 1 || topics[0] != "trauma" {
		t.Errorf("topics = %v", topics)
	}
}

func TestScreenCrisisKeywordsWithoutTopicWord(t *testing.T) {
	s := NewContentScreen()

	_, crisis, _ := s.Screen("I don't want to live anymore")
	if !crisis {
		t.Error("crisis keyword not detected")
	}
}

func TestScreenNeutralText(t *testing.T) {
	s := NewContentScreen()

	sensitive, crisis, topics := s.Screen("What services do you offer?")
	if sensitive || crisis || len(topics) != 0 {
		t.Errorf("neutral text flagged: sensitive=%v crisis=%v topics=%v", sensitive, crisis, topics)
	}
}

func TestCrisisResponseListsAllResources(t *testing.T) {
	s := NewContentScreen()

	resp := s.CrisisResponse()
	for _, resource := range s.Resources {
		if !strings.Contains(resp, resource) {
			t.Errorf("crisis response missing resource %q", resource)
		}
	}
	if !strings.Contains(resp, "911") {
		t.Error("crisis response missing emergency services pointer")
	}
}

func TestSensitiveResponseNamesTopic(t *testing.T) {
	s := NewContentScreen()

	resp := s.SensitiveResponse("addiction")
	if !strings.Contains(resp, "addiction") {
		t.Errorf("response does not name the topic: %q", resp)
	}
	if !strings.Contains(strings.ToLower(resp), "mental health professional") {
		t.Errorf("response missing referral guidance: %q", resp)
	}
}
