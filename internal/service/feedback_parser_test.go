package service

import "testing"

func TestParseFeedbackResponse_CleanJSON(t *testing.T) {
	result := ParseFeedbackResponse(`{"feedback": "Solid answer with good examples.", "score": 8}`)
	if result.Feedback != "Solid answer with good examples." {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
	if result.Score != 8 {
		t.Fatalf("expected score 8, got %d", result.Score)
	}
}

func TestParseFeedbackResponse_FencedJSON(t *testing.T) {
	result := ParseFeedbackResponse("```json\n{\"feedback\": \"Good depth.\", \"score\": 7}\n```")
	if result.Feedback != "Good depth." || result.Score != 7 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseFeedbackResponse_JSONEmbeddedInProse(t *testing.T) {
	raw := `Here is my evaluation: {"feedback": "Needs more structure.", "score": 4} Good luck!`
	result := ParseFeedbackResponse(raw)
	if result.Feedback != "Needs more structure." || result.Score != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseFeedbackResponse_StripsBOM(t *testing.T) {
	result := ParseFeedbackResponse("\ufeff{\"feedback\": \"Clear and concise.\", \"score\": 9}")
	if result.Feedback != "Clear and concise." || result.Score != 9 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseFeedbackResponse_ScoreAsString(t *testing.T) {
	result := ParseFeedbackResponse(`{"feedback": "ok", "score": "6"}`)
	if result.Score != 6 {
		t.Fatalf("expected score 6, got %d", result.Score)
	}
}

func TestParseFeedbackResponse_ClampsScore(t *testing.T) {
	if got := ParseFeedbackResponse(`{"feedback": "too generous", "score": 15}`).Score; got != 10 {
		t.Fatalf("expected clamp to 10, got %d", got)
	}
	if got := ParseFeedbackResponse(`{"feedback": "too harsh", "score": 0}`).Score; got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
}

func TestParseFeedbackResponse_RegexFallback(t *testing.T) {
	raw := `feedback: "Decent answer but missing edge cases", score: 7`
	result := ParseFeedbackResponse(raw)
	if result.Feedback != "Decent answer but missing edge cases" {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
	if result.Score != 7 {
		t.Fatalf("expected score 7, got %d", result.Score)
	}
}

func TestParseFeedbackResponse_GarbageUsesDefaults(t *testing.T) {
	result := ParseFeedbackResponse("I am unable to comply with this request.")
	if result.Feedback != defaultParseFeedback {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
	if result.Score != defaultScore {
		t.Fatalf("expected default score, got %d", result.Score)
	}
}

func TestDefaultFeedback(t *testing.T) {
	result := DefaultFeedback()
	if result.Feedback != defaultErrorFeedback || result.Score != defaultScore {
		t.Fatalf("unexpected default: %+v", result)
	}
}
